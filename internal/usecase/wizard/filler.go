package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/infrastructure/prompts"
	"quickapply/internal/usecase/retry"
)

// Answerer produces a free-text answer for a prompt.
type Answerer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type FillerConfig struct {
	MaxRounds      int
	ProbeText      string
	Placeholder    string
	ValidationWait time.Duration
	FieldPause     time.Duration
	InputWait      time.Duration
}

func DefaultFillerConfig() FillerConfig {
	return FillerConfig{
		MaxRounds:      3,
		ProbeText:      "a",
		Placeholder:    ".",
		ValidationWait: 500 * time.Millisecond,
		FieldPause:     300 * time.Millisecond,
		InputWait:      5 * time.Second,
	}
}

// FieldFiller answers the empty free-text fields of a step, using the
// site's inline validation message as a constraint for the next answer.
type FieldFiller struct {
	browser output.BrowserPort
	answers Answerer
	logger  output.LoggerPort
	sel     Selectors
	cfg     FillerConfig
	sleep   retry.SleepFunc
}

func NewFieldFiller(browser output.BrowserPort, answers Answerer, logger output.LoggerPort, sel Selectors, cfg FillerConfig, sleep retry.SleepFunc) *FieldFiller {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 1
	}
	if sleep == nil {
		sleep = retry.Sleep
	}
	return &FieldFiller{
		browser: browser,
		answers: answers,
		logger:  logger,
		sel:     sel,
		cfg:     cfg,
		sleep:   sleep,
	}
}

// FillStep fills every field in order and stops at the first one whose
// validation error never clears.
func (f *FieldFiller) FillStep(ctx context.Context, fields []entity.FieldDescriptor) error {
	f.logger.Info("Filling step fields", "count", len(fields))

	for i, field := range fields {
		if err := f.FillField(ctx, field); err != nil {
			return err
		}
		if i < len(fields)-1 {
			if err := f.sleep(ctx, f.cfg.FieldPause); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FieldFiller) FillField(ctx context.Context, field entity.FieldDescriptor) error {
	log := f.logger.WithFields(map[string]any{"field": field.Label, "element_id": field.ElementID})
	input := ByID(field.ElementID)
	errSel := fmt.Sprintf(f.sel.ErrorMessage, field.ElementID)

	for round := 1; round <= f.cfg.MaxRounds; round++ {
		log.Debug("Answer round", "round", round)

		if err := f.browser.WaitFor(ctx, input, entity.WaitPresent, f.cfg.InputWait); err != nil {
			return fmt.Errorf("field %q: %w", field.Label, err)
		}

		// A throwaway character makes the site render its constraint, if any.
		if err := f.browser.Fill(ctx, input, f.cfg.ProbeText); err != nil {
			return fmt.Errorf("probe field %q: %w", field.Label, err)
		}
		if err := f.sleep(ctx, f.cfg.ValidationWait); err != nil {
			return err
		}

		validation := f.validationMessage(ctx, errSel)
		if validation != "" {
			log.Info("Validation message captured", "message", validation)
		}

		answer := f.answer(ctx, log, field.Label, validation)

		if err := f.browser.Fill(ctx, input, answer); err != nil {
			return fmt.Errorf("fill field %q: %w", field.Label, err)
		}
		log.Info("Field answered", "answer", answer, "round", round)

		if err := f.sleep(ctx, f.cfg.ValidationWait); err != nil {
			return err
		}

		still, err := f.browser.Exists(ctx, errSel)
		if err != nil {
			log.Warn("Could not re-check validation", "error", err)
			still = false
		}
		if !still {
			return nil
		}
		log.Warn("Validation error still present", "round", round)
	}

	return fmt.Errorf("field %q after %d rounds: %w", field.Label, f.cfg.MaxRounds, entity.ErrValidationRejected)
}

func (f *FieldFiller) validationMessage(ctx context.Context, selector string) string {
	present, err := f.browser.Exists(ctx, selector)
	if err != nil || !present {
		return ""
	}
	text, err := f.browser.Text(ctx, selector)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// answer never fails: a generation error falls back to the placeholder so
// the validation round can still observe the site's reaction.
func (f *FieldFiller) answer(ctx context.Context, log output.LoggerPort, label, validation string) string {
	prompt, err := prompts.FieldPrompt(label, validation)
	if err != nil {
		log.Error("Prompt build failed", "error", err)
		return f.cfg.Placeholder
	}

	answer, err := f.answers.Generate(ctx, prompt)
	if err != nil {
		log.Error("Generation failed, using placeholder", "error", err)
		return f.cfg.Placeholder
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return f.cfg.Placeholder
	}
	return answer
}
