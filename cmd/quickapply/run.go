package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quickapply/internal/di"
	"quickapply/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Apply to every quick-apply job of a search page",
	Long: `Restores the browser session, loads the search page, then walks each quick-apply wizard.

Settings come from .env and .env.<APP_ENV>; flags override them.`,
	RunE: runApplyCmd,
}

var (
	runSearchURL string
	runHeadless  bool
	runMaxSteps  int
	runBackend   string
)

func init() {
	runCommand.Flags().StringVarP(&runSearchURL, "search-url", "u", "", "Job search URL (defaults to URL_JOBS)")
	runCommand.Flags().BoolVar(&runHeadless, "headless", true, "Run Chromium without a window (defaults to BROWSER_HEADLESS)")
	runCommand.Flags().IntVar(&runMaxSteps, "max-steps", 0, "Wizard step budget per application (defaults to WIZARD_MAX_STEPS)")
	runCommand.Flags().StringVar(&runBackend, "backend", "", "Generation backend: openai or langchain (defaults to GENERATION_BACKEND)")

	rootCmd.AddCommand(runCommand)
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	cfg := env.LoadConfig(env.NewEnvService())
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	log := container.Logger
	log.Info("Run started", "search_url", cfg.SearchURL, "log_file", log.Path())

	if err := container.Session.Bootstrap(ctx); err != nil {
		log.Error("Session bootstrap failed", "error", err)
		return fmt.Errorf("session bootstrap: %w", err)
	}

	summary, err := container.Applier.Execute(ctx, cfg.SearchURL)
	if err != nil {
		log.Error("Run aborted", "error", err)
		return fmt.Errorf("run aborted: %w", err)
	}

	log.Info("Run completed",
		"run_id", summary.RunID,
		"submitted", summary.Submitted,
		"incomplete", summary.Incomplete,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return nil
}

// applyFlags overrides cfg with the flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *env.Config) {
	flags := cmd.Flags()
	if flags.Changed("search-url") {
		cfg.SearchURL = runSearchURL
	}
	if flags.Changed("headless") {
		cfg.Headless = runHeadless
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = runMaxSteps
	}
	if flags.Changed("backend") {
		cfg.Backend = runBackend
	}
}
