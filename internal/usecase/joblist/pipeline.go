package joblist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/usecase/retry"

	"github.com/PuerkitoBio/goquery"
)

var _ output.JobSource = (*Pipeline)(nil)

type Selectors struct {
	List    string
	Item    string
	IDAttr  string
	Card    string
	Title   string
	Company string
	Footer  string
	// EasyApply holds the footer texts that mark a quick-apply listing.
	EasyApply []string
}

func DefaultSelectors() Selectors {
	return Selectors{
		List:      "body",
		Item:      "li.scaffold-layout__list-item",
		IDAttr:    "data-occludable-job-id",
		Card:      ".job-card-container",
		Title:     "a.job-card-container__link",
		Company:   ".artdeco-entity-lockup__subtitle",
		Footer:    "ul.job-card-list__footer-wrapper li.job-card-container__footer-item",
		EasyApply: []string{"solicitud sencilla", "easy apply"},
	}
}

type Config struct {
	LoadTimeout time.Duration
	ScrollWait  time.Duration
	MaxScrolls  int
}

func DefaultConfig() Config {
	return Config{
		LoadTimeout: 30 * time.Second,
		ScrollWait:  2 * time.Second,
		MaxScrolls:  50,
	}
}

// Pipeline reads the job listing of a search results page.
type Pipeline struct {
	browser output.BrowserPort
	logger  output.LoggerPort
	sel     Selectors
	cfg     Config
	sleep   retry.SleepFunc
}

func New(browser output.BrowserPort, logger output.LoggerPort, sel Selectors, cfg Config, sleep retry.SleepFunc) *Pipeline {
	if sleep == nil {
		sleep = retry.Sleep
	}
	return &Pipeline{
		browser: browser,
		logger:  logger,
		sel:     sel,
		cfg:     cfg,
		sleep:   sleep,
	}
}

// Load opens the search page, reloading it when it is already open, and
// waits for the first listing items.
func (p *Pipeline) Load(ctx context.Context, url string) error {
	if p.browser.CurrentURL() == url {
		p.logger.Info("Search page already open, reloading", "url", url)
		if err := p.browser.Reload(ctx); err != nil {
			return fmt.Errorf("reload job list: %w", err)
		}
	} else {
		p.logger.Info("Opening search page", "url", url)
		if err := p.browser.Navigate(ctx, url); err != nil {
			return fmt.Errorf("open job list: %w", err)
		}
	}

	if err := p.browser.WaitFor(ctx, p.sel.Item, entity.WaitPresent, p.cfg.LoadTimeout); err != nil {
		return fmt.Errorf("wait for job list: %w", err)
	}
	return nil
}

// LoadAll scrolls until the number of listing items stops growing.
func (p *Pipeline) LoadAll(ctx context.Context) error {
	current, err := p.browser.Count(ctx, p.sel.Item)
	if err != nil {
		return fmt.Errorf("count jobs: %w", err)
	}
	p.logger.Info("Jobs loaded initially", "count", current)

	previous := 0
	for i := 0; current > previous && i < p.cfg.MaxScrolls; i++ {
		previous = current

		if err := p.browser.ScrollPage(ctx); err != nil {
			return fmt.Errorf("scroll job list: %w", err)
		}
		if err := p.sleep(ctx, p.cfg.ScrollWait); err != nil {
			return err
		}

		current, err = p.browser.Count(ctx, p.sel.Item)
		if err != nil {
			return fmt.Errorf("count jobs: %w", err)
		}
		p.logger.Debug("Jobs after scroll", "count", current)
	}

	p.logger.Info("Lazy loading finished", "count", current)
	return nil
}

func (p *Pipeline) Jobs(ctx context.Context) ([]entity.Job, error) {
	markup, err := p.browser.HTML(ctx, p.sel.List)
	if err != nil {
		return nil, fmt.Errorf("read job list: %w", err)
	}
	jobs, err := Parse(markup, p.sel)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Jobs extracted", "count", len(jobs))
	return jobs, nil
}

// JobSelector locates the listing item of one job.
func (p *Pipeline) JobSelector(id string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, p.sel.Item, p.sel.IDAttr, id)
}

// Parse extracts the jobs of a listing. Items without a job card are
// placeholders the site has not rendered yet and are skipped.
func Parse(markup string, sel Selectors) ([]entity.Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse job list: %w", err)
	}

	var jobs []entity.Job
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		card := item.Find(sel.Card).First()
		if card.Length() == 0 {
			return
		}

		id, _ := item.Attr(sel.IDAttr)
		title := clean(card.Find(sel.Title).First().Text())
		company := clean(card.Find(sel.Company).First().Text())

		display := title
		switch {
		case company != "" && title != "":
			display = company + " - " + title
		case title == "":
			display = company
		}

		eligible := false
		card.Find(sel.Footer).EachWithBreak(func(_ int, li *goquery.Selection) bool {
			text := strings.ToLower(clean(li.Text()))
			for _, marker := range sel.EasyApply {
				if text == strings.ToLower(marker) {
					eligible = true
					return false
				}
			}
			return true
		})

		jobs = append(jobs, entity.Job{
			ID:                 strings.TrimSpace(id),
			DisplayName:        display,
			QuickApplyEligible: eligible,
		})
	})
	return jobs, nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
