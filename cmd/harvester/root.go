package main

import (
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"

	"go-campus-harvester/internal/browser"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/config"
	"go-campus-harvester/internal/pipeline"
	"go-campus-harvester/internal/telegram"
)

var (
	cfgPath   string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Campus job harvester",
	Long: "Harvester drives a headless browser through the ByteDance, Alibaba and Tencent " +
		"campus recruiting sites, captures the job JSON their pages fetch and writes raw " +
		"and cleaned artifacts.",
	SilenceUsage: true,
	// no subcommand runs the whole pipeline
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides output_dir)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	log.Printf("🔧 Config loaded. Output: %s, headless: %v, max pages: %d", cfg.OutputDir, cfg.Headless, cfg.MaxPages)
	return cfg, nil
}

func captureOptions(cfg *config.Config) capture.Options {
	return capture.Options{
		NavigationTimeout: cfg.NavigationTimeout,
		SettleDelay:       cfg.SettleDelay,
		MaxPages:          cfg.MaxPages,
		Screenshots:       browser.NewScreenShotDebugger(cfg.ScreenshotDir),
	}
}

// selectSources resolves the sources named in args; with no args the
// sources enabled in cfg are used.
func selectSources(cfg *config.Config, opts capture.Options, args []string) ([]pipeline.Source, error) {
	all := pipeline.Registry(cfg, opts)
	if len(args) == 0 {
		sources := pipeline.Enabled(all, cfg)
		if len(sources) == 0 {
			return nil, fmt.Errorf("no sources enabled in %s", cfgPath)
		}
		return sources, nil
	}
	return pipeline.Select(all, args)
}

func startBrowser(cfg *config.Config) (*browser.PlaywrightManager, error) {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		loaded, err := browser.LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
		} else {
			log.Printf("🍪 Loaded %d cookies", len(loaded))
			cookies = loaded
		}
	}

	pm, err := browser.NewPlaywright(browser.Options{
		Headless:       cfg.Headless,
		ControlTimeout: cfg.ControlTimeout,
		Cookies:        cookies,
	})
	if err != nil {
		return nil, err
	}
	log.Println("✅ Browser initialized successfully!")
	return pm, nil
}

// finish logs the summary, sends the Telegram report when configured and
// turns failed sources into the command's error.
func finish(cfg *config.Config, command string, reports []pipeline.Report, start time.Time) error {
	elapsed := time.Since(start)
	log.Printf("\n📊 %s finished in %s", command, elapsed.Round(time.Second))
	for _, r := range reports {
		line := fmt.Sprintf("  %-10s", r.Source)
		if r.Fetched {
			line += fmt.Sprintf(" capture: %s (%d raw)", r.Outcome, r.Raw)
		}
		if r.Cleaned {
			line += fmt.Sprintf(" clean: %d", r.Clean)
		}
		if r.Err != nil {
			line += fmt.Sprintf(" error: %v", r.Err)
		}
		log.Println(line)
	}

	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ %v", err)
		} else if err := bot.SendReport(command, reports, elapsed); err != nil {
			log.Printf("⚠️ Failed to send Telegram report: %v", err)
		} else {
			log.Println("🤖 Telegram report sent")
		}
	}

	if failed := pipeline.Failed(reports); failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(reports))
	}
	return nil
}
