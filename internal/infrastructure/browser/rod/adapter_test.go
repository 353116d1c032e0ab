package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickapply/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.SlowMotion = 0
	cfg.Timeout = 2 * time.Second

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)
	return adapter
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Headless)
	assert.Equal(t, defaultSlowMotion, cfg.SlowMotion)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultNavigationTimeout, cfg.NavigationTimeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.False(t, cfg.DisableSecurityFeatures, "Should be secure by default")
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http", "http://localhost:8080/jobs", false},
		{"https", "https://www.linkedin.com/jobs/search", false},
		{"blank", "about:blank", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsXPathSelector(t *testing.T) {
	tests := []struct {
		selector string
		expected bool
	}{
		{"//div[@role='dialog']//form//h3", true},
		{"(//button)[1]", true},
		{"#test", false},
		{`[id="years:1"]`, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.expected, isXPathSelector(tt.selector))
		})
	}
}

func TestBrowserAdapter_NavigateAndQuery(t *testing.T) {
	server := serveHTML(t, WizardHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()

	assert.Equal(t, "about:blank", adapter.CurrentURL())
	require.NoError(t, adapter.Navigate(ctx, server.URL))
	assert.Equal(t, server.URL+"/", adapter.CurrentURL())

	ok, err := adapter.Exists(ctx, `[data-test-modal-id="easy-apply-modal"], .jobs-easy-apply-modal`)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.Exists(ctx, "#missing")
	require.NoError(t, err)
	assert.False(t, ok)

	visible, err := adapter.Visible(ctx, "#hidden")
	require.NoError(t, err)
	assert.False(t, visible)

	text, err := adapter.Text(ctx, "#heading")
	require.NoError(t, err)
	assert.Equal(t, "Additional questions", text)

	id, ok, err := adapter.Attribute(ctx, "label", "for")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "years:1", id)

	_, ok, err = adapter.Attribute(ctx, "label", "data-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := adapter.Count(ctx, "button")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	html, err := adapter.HTML(ctx, "form")
	require.NoError(t, err)
	assert.Contains(t, html, "artdeco-text-input--container")

	_, err = adapter.Text(ctx, "#missing")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}

func TestBrowserAdapter_FillTriggersValidation(t *testing.T) {
	server := serveHTML(t, WizardHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	input := `[id="years:1"]`
	errSel := `[id="years:1-error"] .artdeco-inline-feedback__message`

	require.NoError(t, adapter.Fill(ctx, input, "a"))
	require.NoError(t, adapter.WaitFor(ctx, errSel, entity.WaitPresent, time.Second))
	msg, err := adapter.Text(ctx, errSel)
	require.NoError(t, err)
	assert.Equal(t, "Enter a whole number", msg)

	require.NoError(t, adapter.Fill(ctx, input, "7"))
	value, err := adapter.Value(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "7", value, "fill replaces the previous content")

	require.NoError(t, adapter.WaitFor(ctx, errSel, entity.WaitAbsent, time.Second))
}

func TestBrowserAdapter_ClickNext(t *testing.T) {
	server := serveHTML(t, WizardHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	next := `button[data-live-test-easy-apply-review-button], button[data-easy-apply-next-button]`
	require.NoError(t, adapter.ScrollIntoView(ctx, next))
	require.NoError(t, adapter.Click(ctx, next))

	text, err := adapter.Text(ctx, "#heading")
	require.NoError(t, err)
	assert.Equal(t, "Review your application", text)
}

func TestBrowserAdapter_ClickMissingElement(t *testing.T) {
	server := serveHTML(t, BasicHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	err := adapter.Click(ctx, "#nonexistent")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)

	err = adapter.Click(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestBrowserAdapter_WaitForTimeouts(t *testing.T) {
	server := serveHTML(t, ListHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	err := adapter.WaitFor(ctx, "#never", entity.WaitPresent, 300*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrNavigationTimeout)

	err = adapter.WaitFor(ctx, "#modal", entity.WaitAbsent, 300*time.Millisecond)
	assert.ErrorIs(t, err, entity.ErrNavigationTimeout)

	require.NoError(t, adapter.Click(ctx, "#close"))
	assert.NoError(t, adapter.WaitFor(ctx, "#modal", entity.WaitAbsent, 2*time.Second))
}

func TestBrowserAdapter_ScrollAndCount(t *testing.T) {
	server := serveHTML(t, ListHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	require.NoError(t, adapter.ScrollPage(ctx))
	n, err := adapter.Count(ctx, "li.item")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, adapter.Reload(ctx))
	assert.Equal(t, server.URL+"/", adapter.CurrentURL())
}

func TestBrowserAdapter_Cookies(t *testing.T) {
	server := serveHTML(t, BasicHTML)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	err := adapter.SetCookies(ctx, []entity.Cookie{{
		Name:    "li_at",
		Value:   "token",
		Domain:  "127.0.0.1",
		Path:    "/",
		Expires: expires,
	}})
	require.NoError(t, err)

	cookies, err := adapter.Cookies(ctx)
	require.NoError(t, err)

	var found *entity.Cookie
	for i := range cookies {
		if cookies[i].Name == "li_at" {
			found = &cookies[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "token", found.Value)
	assert.Equal(t, expires.Unix(), found.Expires.Unix())
}

func TestBrowserAdapter_Screenshot(t *testing.T) {
	server := serveHTML(t, `<!DOCTYPE html>
<html>
<body style="width: 2000px; height: 1500px; background: red;">
	<h1>Large Page</h1>
</body>
</html>`)
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, server.URL))

	shot, err := adapter.Screenshot(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, shot.Data)
	assert.Equal(t, "jpeg", shot.Format)
	assert.Greater(t, shot.Height, 0)
	assert.LessOrEqual(t, shot.Width, maxScreenshotWidth)
}

func TestBrowserAdapter_ClosedState(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	assert.True(t, adapter.IsReady())
	adapter.Close()
	assert.False(t, adapter.IsReady())
	assert.NotPanics(t, adapter.Close)

	assert.ErrorIs(t, adapter.Navigate(ctx, "http://example.com"), ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.Click(ctx, "#test"), ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.Fill(ctx, "#test", "text"), ErrBrowserNotConnected)
	assert.ErrorIs(t, adapter.ScrollPage(ctx), ErrBrowserNotConnected)
	_, err := adapter.Cookies(ctx)
	assert.ErrorIs(t, err, ErrBrowserNotConnected)
	assert.Empty(t, adapter.CurrentURL())
}
