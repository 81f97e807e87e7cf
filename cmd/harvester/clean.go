package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"go-campus-harvester/internal/artifact"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [source...]",
	Short: "Clean existing raw artifacts",
	Long:  "Re-runs the cleaning transforms on raw artifacts already in the output directory. No browser is started.",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sources, err := selectSources(cfg, capture.Options{}, args)
	if err != nil {
		return err
	}

	unlock, err := artifact.Lock(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer unlock()

	log.Println("🧹 Cleaning raw artifacts...")
	start := time.Now()

	runner := &pipeline.Runner{OutputDir: cfg.OutputDir}
	return finish(cfg, "clean", runner.CleanAll(sources), start)
}
