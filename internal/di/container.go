package di

import (
	"context"
	"fmt"

	"quickapply/internal/application/port/input"
	"quickapply/internal/application/port/output"
	"quickapply/internal/infrastructure/browser/rod"
	"quickapply/internal/infrastructure/cookiejar"
	"quickapply/internal/infrastructure/env"
	"quickapply/internal/infrastructure/llm/deepseek"
	"quickapply/internal/infrastructure/llm/langchain"
	"quickapply/internal/infrastructure/logger"
	"quickapply/internal/infrastructure/prompts"
	"quickapply/internal/infrastructure/report"
	"quickapply/internal/infrastructure/snapshot"
	"quickapply/internal/usecase/answer"
	"quickapply/internal/usecase/apply"
	"quickapply/internal/usecase/joblist"
	"quickapply/internal/usecase/pacing"
	"quickapply/internal/usecase/session"
	"quickapply/internal/usecase/wizard"
)

type Container struct {
	Browser output.BrowserPort
	LLM     output.LLMPort
	Logger  *logger.LoggerAdapter
	Session input.SessionBootstrapper
	Applier input.Applier
}

// NewContainer wires the whole application from a validated config.
func NewContainer(ctx context.Context, cfg env.Config) (*Container, error) {
	logCfg := logger.DefaultConfig("quickapply")
	logCfg.Dir = cfg.LogDir
	logCfg.Level = cfg.LogLevel
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llm, err := newLLM(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	answerCfg := answer.DefaultConfig()
	answerCfg.MaxTokens = cfg.MaxTokens
	answerCfg.Temperature = cfg.Temperature
	if cfg.PersonaEnabled {
		answerCfg.Persona = prompts.PersonaSeeds(prompts.PersonaPrompt)
	}
	answers, err := answer.NewProvider(llm, log.WithField("component", "answer"), answerCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create answer provider: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browserCfg.SlowMotion = cfg.SlowMotion
	browserCfg.Timeout = cfg.DefaultTimeout
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	pacer := pacing.NewDefault()

	sel := wizard.DefaultSelectors()
	wizLog := log.WithField("component", "wizard")
	classifier := wizard.NewClassifier(browser, wizLog, sel, wizard.DefaultHeadings(), 0)
	filler := wizard.NewFieldFiller(browser, answers, wizLog, sel, wizard.DefaultFillerConfig(), nil)
	driverCfg := wizard.DefaultConfig()
	driverCfg.MaxSteps = cfg.MaxSteps
	driver := wizard.NewDriver(browser, classifier, filler, wizLog, sel, driverCfg, nil)

	jobs := joblist.New(browser, log.WithField("component", "joblist"), joblist.DefaultSelectors(), joblist.DefaultConfig(), nil)

	applySel := apply.DefaultSelectors()
	applySel.Modal = sel.Modal
	applier := apply.New(
		browser,
		jobs,
		driver,
		pacer,
		snapshot.NewFileStore(cfg.SnapshotDir),
		report.NewConsoleReporter(),
		log,
		applySel,
		apply.DefaultConfig(),
	)

	sessionCfg := session.DefaultConfig()
	sessionCfg.UserAgents = cfg.UserAgents
	bootstrapper := session.New(
		browser,
		cookiejar.NewFileStore(cfg.CookiePath),
		pacer,
		log.WithField("component", "session"),
		session.Credentials{Username: cfg.Username, Password: cfg.Password},
		session.DefaultSelectors(),
		sessionCfg,
	)

	return &Container{
		Browser: browser,
		LLM:     llm,
		Logger:  log,
		Session: bootstrapper,
		Applier: applier,
	}, nil
}

func newLLM(cfg env.Config, log output.LoggerPort) (output.LLMPort, error) {
	switch cfg.Backend {
	case env.BackendLangchain:
		llm, err := langchain.NewAdapter(langchain.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, log.WithField("component", "llm"))
		if err != nil {
			return nil, err
		}
		return llm, nil
	default:
		llmCfg := deepseek.DefaultConfig(cfg.APIKey)
		llmCfg.Model = cfg.Model
		llmCfg.BaseURL = cfg.BaseURL
		llmCfg.Logger = log.WithField("component", "llm")
		return deepseek.NewAdapter(llmCfg), nil
	}
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
