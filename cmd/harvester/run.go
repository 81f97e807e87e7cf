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

var runCmd = &cobra.Command{
	Use:   "run [source...]",
	Short: "Fetch and clean every source",
	Long: "Captures each source with the browser, saves the raw artifact, then writes the cleaned records. " +
		"Sources are bytedance, alibaba and tencent; with none given the enabled ones run.",
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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

	log.Println("🚀 Starting campus harvest...")
	start := time.Now()

	pm, err := startBrowser(cfg)
	if err != nil {
		return err
	}
	defer pm.Close()

	runner := &pipeline.Runner{OutputDir: cfg.OutputDir, Opener: pm}
	reports := runner.Run(ctx, sources)
	return finish(cfg, "run", reports, start)
}
