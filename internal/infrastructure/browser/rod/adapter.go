package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultSlowMotion        = 50 * time.Millisecond
	defaultTimeout           = 30 * time.Second
	defaultNavigationTimeout = 80 * time.Second
	maxScreenshotWidth       = 1024
)

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidSelector     = errors.New("invalid selector")
	ErrBrowserNotConnected = errors.New("browser not connected")
)

type BrowserConfig struct {
	Headless          bool
	SlowMotion        time.Duration
	Timeout           time.Duration
	NavigationTimeout time.Duration
	NoSandbox         bool
	DevTools          bool
	// DisableSecurityFeatures relaxes CORS and mixed-content checks. Only
	// meant for local fixtures.
	DisableSecurityFeatures bool
	UserAgent               string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:          false,
		SlowMotion:        defaultSlowMotion,
		Timeout:           defaultTimeout,
		NavigationTimeout: defaultNavigationTimeout,
	}
}

// BrowserAdapter drives a single Chromium tab.
type BrowserAdapter struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	page       *rod.Page
	timeout    time.Duration
	navTimeout time.Duration
	closed     bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.DisableSecurityFeatures {
		l = l.Set("disable-web-security").Set("allow-running-insecure-content")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	b := &BrowserAdapter{
		browser:    browser,
		launcher:   l,
		page:       page,
		timeout:    cfg.Timeout,
		navTimeout: cfg.NavigationTimeout,
	}

	if cfg.UserAgent != "" {
		if err := b.SetUserAgent(ctx, cfg.UserAgent); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) pageCtx(ctx context.Context) (*rod.Page, error) {
	if !b.IsReady() {
		return nil, ErrBrowserNotConnected
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return b.page.Context(ctx), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	page, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}

	page = page.Timeout(b.navTimeout)
	defer page.CancelTimeout()

	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", mapTimeout(ctx, err, entity.ErrNavigationTimeout))
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load: %w", mapTimeout(ctx, err, entity.ErrNavigationTimeout))
	}
	return nil
}

func (b *BrowserAdapter) Reload(ctx context.Context) error {
	page, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}

	page = page.Timeout(b.navTimeout)
	defer page.CancelTimeout()

	if err := page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", mapTimeout(ctx, err, entity.ErrNavigationTimeout))
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load: %w", mapTimeout(ctx, err, entity.ErrNavigationTimeout))
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if !b.IsReady() {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// find returns the first match without waiting.
func (b *BrowserAdapter) find(ctx context.Context, selector string) (*rod.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}
	page, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}

	var (
		has bool
		el  *rod.Element
	)
	if isXPathSelector(selector) {
		has, el, err = page.HasX(selector)
	} else {
		has, el, err = page.Has(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	if !has {
		return nil, fmt.Errorf("%s: %w", selector, entity.ErrElementNotFound)
	}
	return el, nil
}

// wait polls for the first match up to the adapter timeout.
func (b *BrowserAdapter) wait(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}
	page, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}

	page = page.Timeout(timeout)
	var el *rod.Element
	if isXPathSelector(selector) {
		el, err = page.ElementX(selector)
	} else {
		el, err = page.Element(selector)
	}
	if err != nil {
		return nil, err
	}
	return el.CancelTimeout(), nil
}

func (b *BrowserAdapter) Exists(ctx context.Context, selector string) (bool, error) {
	_, err := b.find(ctx, selector)
	if errors.Is(err, entity.ErrElementNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (b *BrowserAdapter) Visible(ctx context.Context, selector string) (bool, error) {
	el, err := b.find(ctx, selector)
	if errors.Is(err, entity.ErrElementNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return el.Visible()
}

func (b *BrowserAdapter) Count(ctx context.Context, selector string) (int, error) {
	if strings.TrimSpace(selector) == "" {
		return 0, ErrInvalidSelector
	}
	page, err := b.pageCtx(ctx)
	if err != nil {
		return 0, err
	}
	els, err := page.Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", selector, err)
	}
	return len(els), nil
}

func (b *BrowserAdapter) Text(ctx context.Context, selector string) (string, error) {
	el, err := b.find(ctx, selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

func (b *BrowserAdapter) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	el, err := b.find(ctx, selector)
	if err != nil {
		return "", false, err
	}
	val, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("read %s of %s: %w", name, selector, err)
	}
	if val == nil {
		return "", false, nil
	}
	return *val, true, nil
}

func (b *BrowserAdapter) Value(ctx context.Context, selector string) (string, error) {
	el, err := b.find(ctx, selector)
	if err != nil {
		return "", err
	}
	val, err := el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", selector, err)
	}
	if val.Nil() {
		return "", nil
	}
	return val.Str(), nil
}

func (b *BrowserAdapter) HTML(ctx context.Context, selector string) (string, error) {
	el, err := b.find(ctx, selector)
	if err != nil {
		return "", err
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", selector, err)
	}
	return html, nil
}

func (b *BrowserAdapter) WaitFor(ctx context.Context, selector string, state entity.WaitState, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.timeout
	}

	switch state {
	case entity.WaitAbsent:
		page, err := b.pageCtx(ctx)
		if err != nil {
			return err
		}
		page = page.Timeout(timeout)
		defer page.CancelTimeout()
		err = page.Wait(rod.Eval(`(s) => document.querySelector(s) === null`, selector))
		if err != nil {
			return fmt.Errorf("%s still present: %w", selector, mapTimeout(ctx, err, entity.ErrNavigationTimeout))
		}
		return nil

	case entity.WaitVisible:
		el, err := b.wait(ctx, selector, timeout)
		if err != nil {
			return fmt.Errorf("%s: %w", selector, mapTimeout(ctx, err, entity.ErrNavigationTimeout))
		}
		if err := el.Timeout(timeout).WaitVisible(); err != nil {
			return fmt.Errorf("%s not visible: %w", selector, mapTimeout(ctx, err, entity.ErrNavigationTimeout))
		}
		return nil

	default:
		if _, err := b.wait(ctx, selector, timeout); err != nil {
			return fmt.Errorf("%s: %w", selector, mapTimeout(ctx, err, entity.ErrNavigationTimeout))
		}
		return nil
	}
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.wait(ctx, selector, b.timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", selector, mapTimeout(ctx, err, entity.ErrElementNotFound))
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) ScrollIntoView(ctx context.Context, selector string) error {
	el, err := b.wait(ctx, selector, b.timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", selector, mapTimeout(ctx, err, entity.ErrElementNotFound))
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view failed: %w", err)
	}
	return nil
}

// Fill replaces the field's content with text, typing it so that the
// page's input listeners fire.
func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	el, err := b.wait(ctx, selector, b.timeout)
	if err != nil {
		return fmt.Errorf("field %s: %w", selector, mapTimeout(ctx, err, entity.ErrElementNotFound))
	}

	if _, err := el.Eval(`function () { this.value = '' }`); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus failed: %w", err)
	}
	if text == "" {
		return nil
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) ScrollPage(ctx context.Context) error {
	page, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	if _, err := page.Eval(`() => window.scrollBy(0, window.innerHeight)`); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) SetUserAgent(ctx context.Context, userAgent string) error {
	page, err := b.pageCtx(ctx)
	if err != nil {
		return err
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.pageCtx(ctx)
	if err != nil {
		return nil, err
	}

	imgBytes, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) Cookies(ctx context.Context) ([]entity.Cookie, error) {
	if !b.IsReady() {
		return nil, ErrBrowserNotConnected
	}
	raw, err := b.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	cookies := make([]entity.Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := entity.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
		if c.Expires > 0 {
			cookie.Expires = c.Expires.Time()
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}

func (b *BrowserAdapter) SetCookies(ctx context.Context, cookies []entity.Cookie) error {
	if !b.IsReady() {
		return ErrBrowserNotConnected
	}

	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if !c.Expires.IsZero() {
			p.Expires = proto.TimeSinceEpoch(c.Expires.Unix())
		}
		params = append(params, p)
	}

	if err := b.browser.Context(ctx).SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file", "about":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

// mapTimeout turns an expired rod timeout into the given sentinel while
// keeping caller cancellation distinguishable.
func mapTimeout(ctx context.Context, err error, sentinel error) error {
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", entity.ErrElementNotFound, err)
	}
	return err
}
