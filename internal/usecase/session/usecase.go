package session

import (
	"context"
	"fmt"
	"time"

	"quickapply/internal/application/port/input"
	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
)

var _ input.SessionBootstrapper = (*UseCase)(nil)

type Pacer interface {
	Jitter(ctx context.Context, lo, hi time.Duration) (time.Duration, error)
	PickUserAgent(agents []string) string
}

type Credentials struct {
	Username string
	Password string
}

type Selectors struct {
	LoginForm string
	Username  string
	Password  string
	Submit    string
	Profile   string
}

func DefaultSelectors() Selectors {
	return Selectors{
		LoginForm: "form.login__form",
		Username:  "input#username",
		Password:  "input#password",
		Submit:    `button[type="submit"]`,
		Profile:   "img.profile-card-profile-picture",
	}
}

type Config struct {
	FeedURL        string
	LoginURL       string
	ProfileTimeout time.Duration
	UserAgents     []string
	DelayMin       time.Duration
	DelayMax       time.Duration
}

func DefaultConfig() Config {
	return Config{
		FeedURL:        "https://www.linkedin.com/feed/",
		LoginURL:       "https://www.linkedin.com/login",
		ProfileTimeout: 15 * time.Second,
		DelayMin:       500 * time.Millisecond,
		DelayMax:       1500 * time.Millisecond,
	}
}

// UseCase restores a saved browser session and logs in only when the saved
// cookies are missing or expired.
type UseCase struct {
	browser output.BrowserPort
	cookies output.CookieStore
	pacer   Pacer
	logger  output.LoggerPort
	creds   Credentials
	sel     Selectors
	cfg     Config
}

func New(browser output.BrowserPort, cookies output.CookieStore, pacer Pacer, logger output.LoggerPort, creds Credentials, sel Selectors, cfg Config) *UseCase {
	return &UseCase{
		browser: browser,
		cookies: cookies,
		pacer:   pacer,
		logger:  logger,
		creds:   creds,
		sel:     sel,
		cfg:     cfg,
	}
}

func (uc *UseCase) Bootstrap(ctx context.Context) error {
	if ua := uc.pacer.PickUserAgent(uc.cfg.UserAgents); ua != "" {
		if err := uc.browser.SetUserAgent(ctx, ua); err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
		uc.logger.Info("User agent selected", "user_agent", ua)
	}

	saved, err := uc.cookies.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cookies: %w", err)
	}
	if len(saved) > 0 {
		if err := uc.browser.SetCookies(ctx, saved); err != nil {
			return fmt.Errorf("restore cookies: %w", err)
		}
		uc.logger.Info("Cookies restored", "count", len(saved))
	} else {
		uc.logger.Info("No saved cookies")
	}

	if _, err := uc.pacer.Jitter(ctx, uc.cfg.DelayMin, uc.cfg.DelayMax); err != nil {
		return err
	}

	if err := uc.browser.Navigate(ctx, uc.cfg.FeedURL); err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	needsLogin, err := uc.browser.Exists(ctx, uc.sel.LoginForm)
	if err != nil {
		return fmt.Errorf("check login form: %w", err)
	}
	if needsLogin {
		if err := uc.login(ctx); err != nil {
			return err
		}
	} else {
		uc.logger.Info("Already authenticated")
	}

	current, err := uc.browser.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	if err := uc.cookies.Save(ctx, current); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	uc.logger.Info("Cookies saved", "count", len(current))
	return nil
}

func (uc *UseCase) login(ctx context.Context) error {
	if uc.creds.Username == "" || uc.creds.Password == "" {
		return fmt.Errorf("login required but credentials are not set: %w", entity.ErrFatalConfig)
	}
	uc.logger.Info("Not authenticated, logging in")

	if err := uc.browser.Navigate(ctx, uc.cfg.LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := uc.browser.Fill(ctx, uc.sel.Username, uc.creds.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := uc.browser.Fill(ctx, uc.sel.Password, uc.creds.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := uc.browser.Click(ctx, uc.sel.Submit); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	if err := uc.browser.WaitFor(ctx, uc.sel.Profile, entity.WaitPresent, uc.cfg.ProfileTimeout); err != nil {
		return fmt.Errorf("login did not complete, check credentials or a pending captcha: %w", err)
	}

	uc.logger.Info("Logged in")
	return nil
}
