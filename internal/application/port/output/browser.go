package output

import (
	"context"
	"time"

	"quickapply/internal/domain/entity"
)

// BrowserPort is the capability surface over the single page the bot drives.
// All calls must be made from one goroutine; the page is a shared mutable
// resource. Lookup failures wrap entity.ErrElementNotFound and expired waits
// wrap entity.ErrNavigationTimeout.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	CurrentURL() string

	Exists(ctx context.Context, selector string) (bool, error)
	Visible(ctx context.Context, selector string) (bool, error)
	Count(ctx context.Context, selector string) (int, error)
	Text(ctx context.Context, selector string) (string, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
	Value(ctx context.Context, selector string) (string, error)
	HTML(ctx context.Context, selector string) (string, error)

	WaitFor(ctx context.Context, selector string, state entity.WaitState, timeout time.Duration) error

	Click(ctx context.Context, selector string) error
	ScrollIntoView(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	ScrollPage(ctx context.Context) error

	SetUserAgent(ctx context.Context, userAgent string) error
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Cookies(ctx context.Context) ([]entity.Cookie, error)
	SetCookies(ctx context.Context, cookies []entity.Cookie) error

	Close()
}
