package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/infrastructure/browser/rod"

	"github.com/stretchr/testify/require"
)

// searchPage is a self-contained search results page: a two item listing,
// a details pane and a three step apply wizard rendered on demand.
// ?stuck=1 makes the next button a no-op.
const searchPage = `<!DOCTYPE html>
<html>
<body>
<ul class="scaffold-layout__list">
	<li class="scaffold-layout__list-item" data-occludable-job-id="101">
		<div class="job-card-container">
			<a class="job-card-container__link" href="#">Go Developer</a>
			<div class="artdeco-entity-lockup__subtitle">Acme</div>
			<ul class="job-card-list__footer-wrapper">
				<li class="job-card-container__footer-item">Easy Apply</li>
			</ul>
		</div>
	</li>
	<li class="scaffold-layout__list-item" data-occludable-job-id="102">
		<div class="job-card-container">
			<a class="job-card-container__link" href="#">Backend Engineer</a>
			<div class="artdeco-entity-lockup__subtitle">Globex</div>
			<ul class="job-card-list__footer-wrapper">
				<li class="job-card-container__footer-item">Viewed</li>
			</ul>
		</div>
	</li>
</ul>
<div id="details"></div>
<script>
const stuck = new URLSearchParams(location.search).has('stuck');
const steps = [
	{ heading: 'Contact info', body: '' },
	{ heading: 'Additional questions', body:
		'<div class="artdeco-text-input--container">' +
		'<label class="artdeco-text-input--label" for="years:1">Years of experience with Go</label>' +
		'<input class="artdeco-text-input--input" id="years:1" type="text" required />' +
		'<div id="years:1-error"></div></div>' },
	{ heading: 'Review your application', body: '' },
];
let step = 0;

function closeModal() {
	const modal = document.querySelector('.jobs-easy-apply-modal');
	if (modal) modal.remove();
}

function render() {
	let modal = document.querySelector('.jobs-easy-apply-modal');
	if (!modal) {
		modal = document.createElement('div');
		modal.className = 'jobs-easy-apply-modal';
		modal.setAttribute('data-test-modal-id', 'easy-apply-modal');
		modal.setAttribute('role', 'dialog');
		document.body.appendChild(modal);
	}
	const s = steps[step];
	const action = step === steps.length - 1
		? '<button type="button" data-live-test-easy-apply-submit-button>Submit application</button>'
		: '<button type="button" data-easy-apply-next-button>Next</button>';
	modal.innerHTML =
		'<button type="button" aria-label="Dismiss">x</button>' +
		'<form><h3>' + s.heading + '</h3>' + s.body + action + '</form>';

	modal.querySelector('[aria-label="Dismiss"]').addEventListener('click', closeModal);

	const input = modal.querySelector('input');
	if (input) {
		input.addEventListener('input', () => {
			const error = document.getElementById(input.id + '-error');
			error.innerHTML = /^\d+$/.test(input.value)
				? ''
				: '<span class="artdeco-inline-feedback__message">Enter a whole number</span>';
		});
	}

	const next = modal.querySelector('[data-easy-apply-next-button]');
	if (next) {
		next.addEventListener('click', () => {
			if (stuck) return;
			if (input && !/^\d+$/.test(input.value)) return;
			step++;
			setTimeout(render, 100);
		});
	}

	const submit = modal.querySelector('[data-live-test-easy-apply-submit-button]');
	if (submit) {
		submit.addEventListener('click', () => {
			document.body.setAttribute('data-submitted', 'true');
			modal.querySelector('form').outerHTML = '<h2>Your application was sent</h2>';
		});
	}
}

document.querySelectorAll('li.scaffold-layout__list-item').forEach((li) => {
	li.addEventListener('click', () => {
		const quick = li.textContent.includes('Easy Apply');
		document.getElementById('details').innerHTML =
			'<div class="jobs-search__job-details--wrapper">' +
			(quick ? '<button class="jobs-apply-button">Easy Apply</button>' : '') +
			'</div>';
		const apply = document.querySelector('.jobs-apply-button');
		if (apply) {
			apply.addEventListener('click', () => { step = 0; render(); });
		}
	});
});
</script>
</body>
</html>`

func serveSearchPage(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, searchPage)
	}))
	t.Cleanup(server.Close)
	return server
}

func newBrowser(t *testing.T) *rod.BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	cfg := rod.DefaultConfig()
	cfg.Headless = true
	cfg.SlowMotion = 0
	cfg.Timeout = 5 * time.Second

	browser, err := rod.NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(browser.Close)
	return browser
}

var _ output.LLMPort = (*fakeLLM)(nil)

// fakeLLM answers every question with a fixed value and keeps the prompts.
type fakeLLM struct {
	mu      sync.Mutex
	answer  string
	prompts []string
}

func (f *fakeLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range req.Messages {
		if m.Role == entity.RoleUser {
			f.prompts = append(f.prompts, m.Content)
		}
	}
	return &output.ChatResponse{Content: " " + f.answer + "\n"}, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return strings.TrimSpace(f.prompts[len(f.prompts)-1])
}
