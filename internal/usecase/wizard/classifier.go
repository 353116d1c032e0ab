package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

const DefaultFormWait = 5 * time.Second

// Classify decides the step type of a snapshot. The checks run in a fixed
// order and the first match wins, because transitional renderings can
// satisfy several of them at once.
func Classify(s entity.FormSnapshot, h Headings) entity.StepType {
	switch {
	case !s.ModalPresent:
		return entity.StepModalClosed
	case !s.FormPresent:
		return entity.StepDone
	case anyHeading(s.Headings, h.Contact, equalsAny):
		return entity.StepContactInfo
	case anyHeading(s.Headings, h.Curriculum, equalsAny):
		return entity.StepCurriculum
	case anyHeading(s.Headings, h.Resume, containsAny):
		return entity.StepResume
	case anyHeading(s.Subheadings, h.Favorite, containsAny):
		return entity.StepFavorite
	case len(s.EmptyFields()) > 0:
		return entity.StepRegular
	case s.SubmitVisible:
		return entity.StepReviewFinal
	default:
		return entity.StepDone
	}
}

func anyHeading(texts, candidates []string, match func(string, []string) bool) bool {
	for _, t := range texts {
		if match(t, candidates) {
			return true
		}
	}
	return false
}

// Classifier observes the live wizard through the browser port.
type Classifier struct {
	browser  output.BrowserPort
	logger   output.LoggerPort
	sel      Selectors
	headings Headings
	formWait time.Duration
}

func NewClassifier(browser output.BrowserPort, logger output.LoggerPort, sel Selectors, headings Headings, formWait time.Duration) *Classifier {
	if formWait <= 0 {
		formWait = DefaultFormWait
	}
	return &Classifier{
		browser:  browser,
		logger:   logger,
		sel:      sel,
		headings: headings,
		formWait: formWait,
	}
}

// Classify observes the page and classifies the result.
func (c *Classifier) Classify(ctx context.Context) (entity.StepType, entity.FormSnapshot, error) {
	snap, err := c.Observe(ctx)
	if err != nil {
		return "", snap, err
	}
	step := Classify(snap, c.headings)
	c.logger.Debug("Step observed",
		"step", step.String(),
		"headings", snap.Headings,
		"fields", len(snap.Fields),
		"empty_fields", len(snap.EmptyFields()),
		"submit_visible", snap.SubmitVisible,
	)
	return step, snap, nil
}

// Observe takes one snapshot of the wizard. Markup is parsed from the form's
// HTML; input values are read live since they are not reflected as
// attributes.
func (c *Classifier) Observe(ctx context.Context) (entity.FormSnapshot, error) {
	var snap entity.FormSnapshot

	present, err := c.browser.Exists(ctx, c.sel.Modal)
	if err != nil {
		return snap, fmt.Errorf("check modal: %w", err)
	}
	if !present {
		return snap, nil
	}
	snap.ModalPresent = true

	if err := c.browser.WaitFor(ctx, c.sel.Form, entity.WaitPresent, c.formWait); err != nil {
		if !errors.Is(err, entity.ErrNavigationTimeout) {
			return snap, fmt.Errorf("wait for form: %w", err)
		}
		// The modal may have closed while we were waiting.
		snap.ModalPresent, err = c.browser.Exists(ctx, c.sel.Modal)
		if err != nil {
			return snap, fmt.Errorf("recheck modal: %w", err)
		}
		return snap, nil
	}
	snap.FormPresent = true

	markup, err := c.browser.HTML(ctx, c.sel.Form)
	if err != nil {
		return snap, fmt.Errorf("read form: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return snap, fmt.Errorf("parse form: %w", err)
	}

	snap.Headings = texts(doc.Find("h3"))
	snap.Subheadings = texts(doc.Find("h4"))

	for _, d := range c.fields(doc) {
		state := entity.FieldState{FieldDescriptor: d}
		if d.ElementID != "" {
			value, err := c.browser.Value(ctx, ByID(d.ElementID))
			if err != nil && !errors.Is(err, entity.ErrElementNotFound) {
				return snap, fmt.Errorf("read field %q: %w", d.Label, err)
			}
			state.Value = value
		}
		snap.Fields = append(snap.Fields, state)
	}

	snap.SubmitVisible, err = c.browser.Visible(ctx, c.sel.Submit)
	if err != nil {
		return snap, fmt.Errorf("check submit: %w", err)
	}

	return snap, nil
}

func (c *Classifier) fields(doc *goquery.Document) []entity.FieldDescriptor {
	var out []entity.FieldDescriptor
	doc.Find(c.sel.FieldContainer).Each(func(_ int, container *goquery.Selection) {
		label := normalize(container.Find(c.sel.FieldLabel).First().Text())
		input := container.Find(c.sel.FieldInput).First()
		if input.Length() == 0 {
			return
		}
		if kind, ok := input.Attr("type"); ok && kind != "text" {
			return
		}
		id, _ := input.Attr("id")
		_, required := input.Attr("required")
		if aria, ok := input.Attr("aria-required"); ok && aria == "true" {
			required = true
		}
		out = append(out, entity.FieldDescriptor{
			Label:     label,
			ElementID: id,
			Required:  required,
		})
	})
	return out
}

func texts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, el *goquery.Selection) {
		if t := normalize(el.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
