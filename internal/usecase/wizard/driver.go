package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/infrastructure/browser/fingerprint"
	"quickapply/internal/usecase/retry"
)

type Config struct {
	MaxSteps     int
	AdvanceWait  time.Duration
	DismissWait  time.Duration
	SettleDelay  time.Duration
	PollInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:     entity.DefaultMaxSteps,
		AdvanceWait:  10 * time.Second,
		DismissWait:  10 * time.Second,
		SettleDelay:  time.Second,
		PollInterval: 250 * time.Millisecond,
	}
}

// Driver walks one open apply wizard to a terminal outcome.
type Driver struct {
	browser    output.BrowserPort
	classifier *Classifier
	filler     *FieldFiller
	logger     output.LoggerPort
	sel        Selectors
	cfg        Config
	sleep      retry.SleepFunc
}

func NewDriver(
	browser output.BrowserPort,
	classifier *Classifier,
	filler *FieldFiller,
	logger output.LoggerPort,
	sel Selectors,
	cfg Config,
	sleep retry.SleepFunc,
) *Driver {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if sleep == nil {
		sleep = retry.Sleep
	}
	return &Driver{
		browser:    browser,
		classifier: classifier,
		filler:     filler,
		logger:     logger,
		sel:        sel,
		cfg:        cfg,
		sleep:      sleep,
	}
}

// Run drives the wizard until it is submitted, closes, stalls, runs out of
// step budget or reaches a state it does not recognise. Those endings are
// reported as outcomes with a nil error; an error means the attempt itself
// broke (missing control, browser failure) and may be retried.
func (d *Driver) Run(ctx context.Context) (entity.ApplicationOutcome, error) {
	present, err := d.browser.Exists(ctx, d.sel.Modal)
	if err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("check modal: %w", err)
	}
	if !present {
		d.logger.Warn("Apply wizard is not open")
		return entity.Incomplete(entity.ReasonClosed, 0), nil
	}

	session := entity.NewWizardSession(d.cfg.MaxSteps)

	for {
		if session.BudgetExhausted() {
			d.logger.Warn("Step budget exhausted", "max_steps", session.MaxSteps)
			return entity.Incomplete(entity.ReasonBudgetExhausted, session.StepCount), nil
		}

		step, snap, err := d.classifier.Classify(ctx)
		if err != nil {
			return entity.ApplicationOutcome{}, fmt.Errorf("classify step %d: %w", session.StepCount+1, err)
		}
		session.Observe(step)

		log := d.logger.WithFields(map[string]any{"step": session.StepCount + 1, "step_type": step.String()})
		log.Info("Step detected", "streak", session.SameStepStreak)

		if session.Stalled() {
			log.Warn("Same step repeated, assuming the wizard is stuck", "streak", session.SameStepStreak)
			if err := d.Dismiss(ctx); err != nil {
				log.Warn("Dismiss after stall failed", "error", err)
			}
			return entity.Incomplete(entity.ReasonStalled, session.StepCount), nil
		}

		still, err := d.browser.Exists(ctx, d.sel.Modal)
		if err != nil {
			return entity.ApplicationOutcome{}, fmt.Errorf("check modal: %w", err)
		}
		if !still {
			log.Info("Wizard closed unexpectedly")
			return entity.Incomplete(entity.ReasonClosed, session.StepCount), nil
		}

		switch step {
		case entity.StepContactInfo, entity.StepCurriculum, entity.StepResume, entity.StepFavorite:
			err = d.advance(ctx, log)

		case entity.StepRegular:
			err = d.filler.FillStep(ctx, snap.EmptyFields())
			if errors.Is(err, entity.ErrValidationRejected) {
				log.Error("Field answer rejected, abandoning application", "error", err)
				if derr := d.Dismiss(ctx); derr != nil {
					log.Warn("Dismiss after rejection failed", "error", derr)
				}
				return entity.Incomplete(entity.ReasonValidationRejected, session.StepCount), nil
			}
			if err == nil {
				err = d.advance(ctx, log)
			}

		case entity.StepReviewFinal:
			if err := d.submit(ctx); err != nil {
				return entity.ApplicationOutcome{}, err
			}
			log.Info("Application submitted")
			if err := d.Dismiss(ctx); err != nil {
				log.Warn("Could not close confirmation", "error", err)
			}
			return entity.Submitted(session.StepCount + 1), nil

		case entity.StepModalClosed:
			log.Info("Wizard closed unexpectedly")
			return entity.Incomplete(entity.ReasonClosed, session.StepCount), nil

		default:
			log.Warn("No recognizable step, stopping")
			return entity.Incomplete(entity.ReasonUnrecognized, session.StepCount), nil
		}

		if err != nil {
			return entity.ApplicationOutcome{}, err
		}

		if err := d.sleep(ctx, d.cfg.SettleDelay); err != nil {
			return entity.ApplicationOutcome{}, err
		}
		session.StepCount++
	}
}

// advance clicks the next or review button and waits for the form to
// re-render. A form that does not change is logged, not fatal: the next
// classification sees the same step and the stall guard takes over.
func (d *Driver) advance(ctx context.Context, log output.LoggerPort) error {
	before := d.formFingerprint(ctx)

	if err := d.browser.ScrollIntoView(ctx, d.sel.Next); err != nil {
		return fmt.Errorf("next button: %w", err)
	}
	if err := d.browser.Click(ctx, d.sel.Next); err != nil {
		return fmt.Errorf("click next: %w", err)
	}

	changed, err := d.waitForChange(ctx, before)
	if err != nil {
		return err
	}
	if !changed {
		log.Warn("Form did not change after advancing", "waited", d.cfg.AdvanceWait.String())
	}
	return nil
}

func (d *Driver) waitForChange(ctx context.Context, before string) (bool, error) {
	polls := int(d.cfg.AdvanceWait / d.cfg.PollInterval)
	if polls < 1 {
		polls = 1
	}
	for i := 0; i < polls; i++ {
		if err := d.sleep(ctx, d.cfg.PollInterval); err != nil {
			return false, err
		}
		if d.formFingerprint(ctx) != before {
			return true, nil
		}
	}
	return false, nil
}

// formFingerprint is empty when the form cannot be read, which counts as a
// change relative to any rendered form.
func (d *Driver) formFingerprint(ctx context.Context) string {
	markup, err := d.browser.HTML(ctx, d.sel.Form)
	if err != nil {
		return ""
	}
	return fingerprint.Of(markup)
}

func (d *Driver) submit(ctx context.Context) error {
	if err := d.browser.ScrollIntoView(ctx, d.sel.Submit); err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	if err := d.browser.Click(ctx, d.sel.Submit); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	return nil
}

// Dismiss closes the wizard or its confirmation dialog, confirming the
// discard prompt when the site asks for it, and waits for the modal to go.
func (d *Driver) Dismiss(ctx context.Context) error {
	if err := d.browser.WaitFor(ctx, d.sel.Dismiss, entity.WaitPresent, d.cfg.DismissWait); err != nil {
		return fmt.Errorf("dismiss button: %w", err)
	}
	if err := d.browser.ScrollIntoView(ctx, d.sel.Dismiss); err != nil {
		return fmt.Errorf("dismiss button: %w", err)
	}
	if err := d.browser.Click(ctx, d.sel.Dismiss); err != nil {
		return fmt.Errorf("click dismiss: %w", err)
	}

	if err := d.sleep(ctx, d.cfg.PollInterval); err != nil {
		return err
	}
	if confirm, err := d.browser.Exists(ctx, d.sel.DiscardConfirm); err == nil && confirm {
		d.logger.Debug("Confirming discard")
		if err := d.browser.Click(ctx, d.sel.DiscardConfirm); err != nil {
			return fmt.Errorf("click discard: %w", err)
		}
	}

	if err := d.browser.WaitFor(ctx, d.sel.Modal, entity.WaitAbsent, d.cfg.DismissWait); err != nil {
		return fmt.Errorf("wait for modal to close: %w", err)
	}
	return nil
}

// EnsureClosed makes sure no wizard is left open before the next job.
func (d *Driver) EnsureClosed(ctx context.Context) error {
	err := d.browser.WaitFor(ctx, d.sel.Modal, entity.WaitAbsent, d.cfg.DismissWait)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entity.ErrNavigationTimeout) {
		return err
	}
	d.logger.Warn("A wizard is still open, forcing it closed")
	return d.Dismiss(ctx)
}
