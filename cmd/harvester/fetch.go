package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go-campus-harvester/internal/artifact"
	"go-campus-harvester/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [source...]",
	Short: "Capture raw artifacts only",
	Long:  "Drives the browser through the given sources and saves their raw JSON without cleaning it.",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sources, err := selectSources(cfg, captureOptions(cfg), args)
	if err != nil {
		return err
	}

	unlock, err := artifact.Lock(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer unlock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🚀 Starting capture...")
	start := time.Now()

	pm, err := startBrowser(cfg)
	if err != nil {
		return err
	}
	defer pm.Close()

	runner := &pipeline.Runner{OutputDir: cfg.OutputDir, Opener: pm}
	return finish(cfg, "fetch", runner.FetchAll(ctx, sources), start)
}
