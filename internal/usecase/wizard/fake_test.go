package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
)

var _ output.BrowserPort = (*fakePage)(nil)

type screen struct {
	html   string
	submit bool
}

// fakePage models the wizard as a list of screens; clicking next moves to
// the following screen unless the page is stuck.
type fakePage struct {
	mu  sync.Mutex
	sel Selectors

	modal         bool
	screens       []screen
	current       int
	stuck         bool
	cycle         bool
	closeOnNext   bool
	discardPrompt bool
	confirmShown  bool
	noNext        bool
	submitted     bool

	values     map[string]string
	errorShown map[string]bool
	errorText  map[string]string
	// validate runs after every fill and may toggle inline errors.
	validate func(p *fakePage, selector, text string)

	formWaits int
	clicks    []string
	fills     []string
}

func newFakePage(screens ...screen) *fakePage {
	return &fakePage{
		sel:        DefaultSelectors(),
		modal:      true,
		screens:    screens,
		values:     map[string]string{},
		errorShown: map[string]bool{},
		errorText:  map[string]string{},
	}
}

func (p *fakePage) Navigate(context.Context, string) error { return nil }
func (p *fakePage) Reload(context.Context) error           { return nil }
func (p *fakePage) CurrentURL() string                     { return "https://jobs.example.com" }
func (p *fakePage) ScrollPage(context.Context) error       { return nil }
func (p *fakePage) Close()                                 {}

func (p *fakePage) SetUserAgent(context.Context, string) error { return nil }

func (p *fakePage) Screenshot(context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{Format: "jpeg"}, nil
}

func (p *fakePage) Cookies(context.Context) ([]entity.Cookie, error) { return nil, nil }

func (p *fakePage) SetCookies(context.Context, []entity.Cookie) error { return nil }

func (p *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch selector {
	case p.sel.Modal:
		return p.modal, nil
	case p.sel.DiscardConfirm:
		return p.confirmShown, nil
	}
	return p.errorShown[selector], nil
}

func (p *fakePage) Visible(_ context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector == p.sel.Submit {
		return p.modal && p.current < len(p.screens) && p.screens[p.current].submit, nil
	}
	return false, nil
}

func (p *fakePage) Count(context.Context, string) (int, error) { return 0, nil }

func (p *fakePage) Text(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text, ok := p.errorText[selector]
	if !ok {
		return "", fmt.Errorf("%s: %w", selector, entity.ErrElementNotFound)
	}
	return text, nil
}

func (p *fakePage) Attribute(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

func (p *fakePage) Value(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[selector], nil
}

func (p *fakePage) HTML(_ context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector != p.sel.Form || !p.modal || p.current >= len(p.screens) {
		return "", fmt.Errorf("%s: %w", selector, entity.ErrElementNotFound)
	}
	return p.screens[p.current].html, nil
}

func (p *fakePage) WaitFor(_ context.Context, selector string, state entity.WaitState, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	timeout := fmt.Errorf("%s: %w", selector, entity.ErrNavigationTimeout)
	switch {
	case selector == p.sel.Form:
		p.formWaits++
		if p.modal && p.current < len(p.screens) && p.screens[p.current].html != "" {
			return nil
		}
		return timeout
	case selector == p.sel.Modal && state == entity.WaitAbsent:
		if !p.modal {
			return nil
		}
		return timeout
	case selector == p.sel.Dismiss:
		if p.modal {
			return nil
		}
		return timeout
	}
	return nil
}

func (p *fakePage) ScrollIntoView(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector == p.sel.Next && (p.noNext || !p.modal) {
		return fmt.Errorf("%s: %w", selector, entity.ErrElementNotFound)
	}
	return nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clicks = append(p.clicks, selector)
	switch selector {
	case p.sel.Next:
		if p.closeOnNext {
			p.modal = false
			return nil
		}
		if p.stuck {
			return nil
		}
		p.current++
		if p.cycle {
			p.current %= len(p.screens)
		}
	case p.sel.Submit:
		p.submitted = true
		p.screens = []screen{{html: `<form><h3>Application sent</h3></form>`}}
		p.current = 0
	case p.sel.Dismiss:
		if p.discardPrompt {
			p.confirmShown = true
			return nil
		}
		p.modal = false
	case p.sel.DiscardConfirm:
		p.confirmShown = false
		p.modal = false
	}
	return nil
}

func (p *fakePage) Fill(_ context.Context, selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fills = append(p.fills, text)
	p.values[selector] = text
	if p.validate != nil {
		p.validate(p, selector, text)
	}
	return nil
}

func (p *fakePage) clickCount(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, c := range p.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

type scriptedAnswers struct {
	mu      sync.Mutex
	answers []string
	err     error
	prompts []string
}

func (a *scriptedAnswers) Generate(_ context.Context, prompt string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.prompts = append(a.prompts, prompt)
	if a.err != nil {
		return "", a.err
	}
	if len(a.answers) == 0 {
		return "", fmt.Errorf("no scripted answer for %q", prompt)
	}
	answer := a.answers[0]
	if len(a.answers) > 1 {
		a.answers = a.answers[1:]
	}
	return answer, nil
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, w := range s.waits {
		if w == d {
			n++
		}
	}
	return n
}

func form(h3, h4 string, fields ...string) string {
	var b strings.Builder
	b.WriteString("<form>")
	if h3 != "" {
		fmt.Fprintf(&b, "<h3>%s</h3>", h3)
	}
	if h4 != "" {
		fmt.Fprintf(&b, "<h4>%s</h4>", h4)
	}
	for _, f := range fields {
		b.WriteString(f)
	}
	b.WriteString(`<button data-easy-apply-next-button>Next</button></form>`)
	return b.String()
}

func textField(id, label string) string {
	return fmt.Sprintf(`<div class="artdeco-text-input--container">`+
		`<label class="artdeco-text-input--label" for="%[1]s">%[2]s</label>`+
		`<input class="artdeco-text-input--input" id="%[1]s" type="text" required>`+
		`</div>`, id, label)
}
