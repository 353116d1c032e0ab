package apply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickapply/internal/application/port/input"
	"quickapply/internal/application/port/output"
	"quickapply/internal/domain/entity"
	"quickapply/internal/usecase/retry"

	"github.com/google/uuid"
)

var _ input.Applier = (*UseCase)(nil)

// Wizard drives an open apply wizard; implemented by wizard.Driver.
type Wizard interface {
	Run(ctx context.Context) (entity.ApplicationOutcome, error)
	EnsureClosed(ctx context.Context) error
}

type Pacer interface {
	Jitter(ctx context.Context, lo, hi time.Duration) (time.Duration, error)
}

type Selectors struct {
	Details     string
	ApplyButton string
	Modal       string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Details:     ".jobs-search__job-details--wrapper",
		ApplyButton: "button.jobs-apply-button",
		Modal:       `[data-test-modal-id="easy-apply-modal"], .jobs-easy-apply-modal`,
	}
}

type Config struct {
	JobRetries     int
	RetryDelay     time.Duration
	DetailsTimeout time.Duration
	ModalTimeout   time.Duration
	PauseMin       time.Duration
	PauseMax       time.Duration
	Sleep          retry.SleepFunc
}

func DefaultConfig() Config {
	return Config{
		JobRetries:     3,
		RetryDelay:     3 * time.Second,
		DetailsTimeout: 15 * time.Second,
		ModalTimeout:   15 * time.Second,
		PauseMin:       2 * time.Second,
		PauseMax:       4 * time.Second,
	}
}

// UseCase applies to every quick-apply job of a search page. A job that
// keeps failing is recorded and skipped; only a broken listing aborts the
// run.
type UseCase struct {
	browser   output.BrowserPort
	jobs      output.JobSource
	wizard    Wizard
	pacer     Pacer
	snapshots output.SnapshotStore
	reporter  output.ReporterPort
	logger    output.LoggerPort
	sel       Selectors
	cfg       Config
}

func New(
	browser output.BrowserPort,
	jobs output.JobSource,
	wizard Wizard,
	pacer Pacer,
	snapshots output.SnapshotStore,
	reporter output.ReporterPort,
	logger output.LoggerPort,
	sel Selectors,
	cfg Config,
) *UseCase {
	return &UseCase{
		browser:   browser,
		jobs:      jobs,
		wizard:    wizard,
		pacer:     pacer,
		snapshots: snapshots,
		reporter:  reporter,
		logger:    logger,
		sel:       sel,
		cfg:       cfg,
	}
}

func (uc *UseCase) Execute(ctx context.Context, searchURL string) (*entity.RunSummary, error) {
	summary := &entity.RunSummary{RunID: uuid.NewString()}
	log := uc.logger.WithField("run_id", summary.RunID)
	log.Info("Job search started", "url", searchURL)

	if err := uc.jobs.Load(ctx, searchURL); err != nil {
		return summary, err
	}
	if err := uc.jobs.LoadAll(ctx); err != nil {
		return summary, err
	}
	jobs, err := uc.jobs.Jobs(ctx)
	if err != nil {
		return summary, err
	}
	summary.Total = len(jobs)
	log.Info("Jobs found", "count", len(jobs))

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		jobLog := log.WithFields(map[string]any{"job_id": job.ID, "job": job.DisplayName})
		uc.reporter.ShowJobStart(ctx, i+1, len(jobs), job)

		if !job.QuickApplyEligible {
			jobLog.Info("Not a quick-apply job, skipping")
			uc.record(ctx, summary, entity.JobResult{Job: job, Outcome: entity.Skipped(entity.ReasonNotQuickApply)})
			continue
		}
		summary.Eligible++

		result := uc.process(ctx, jobLog, job)
		uc.record(ctx, summary, result)

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if i < len(jobs)-1 {
			if _, err := uc.pacer.Jitter(ctx, uc.cfg.PauseMin, uc.cfg.PauseMax); err != nil {
				return summary, err
			}
		}
	}

	log.Info("Job search finished",
		"total", summary.Total,
		"submitted", summary.Submitted,
		"incomplete", summary.Incomplete,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	uc.reporter.ShowSummary(ctx, summary)
	return summary, nil
}

func (uc *UseCase) record(ctx context.Context, summary *entity.RunSummary, result entity.JobResult) {
	summary.Record(result)
	uc.reporter.ShowJobResult(ctx, result)
}

func (uc *UseCase) process(ctx context.Context, log output.LoggerPort, job entity.Job) entity.JobResult {
	start := time.Now()

	policy := retry.Policy{
		MaxRetries: uc.cfg.JobRetries,
		Delay:      uc.cfg.RetryDelay,
		Sleep:      uc.cfg.Sleep,
		OnRetry: func(n int, err error) {
			log.Warn("Job attempt failed, retrying", "retry", n, "error", err)
		},
	}
	outcome, err := retry.Do(ctx, policy, func(ctx context.Context) (entity.ApplicationOutcome, error) {
		return uc.attempt(ctx, log, job)
	})

	result := entity.JobResult{Job: job, Outcome: outcome, Duration: time.Since(start)}
	if err != nil {
		log.Error("Job abandoned", "error", err)
		result.Outcome = entity.Failed()
		result.Error = err.Error()
		if !errors.Is(err, context.Canceled) {
			uc.snapshot(ctx, log, job)
		}
		return result
	}

	log.Info("Job processed",
		"status", string(outcome.Status),
		"reason", string(outcome.Reason),
		"steps", outcome.Steps,
		"duration", result.Duration.String(),
	)
	return result
}

// attempt is the retried unit: select the job, open its wizard, drive it.
func (uc *UseCase) attempt(ctx context.Context, log output.LoggerPort, job entity.Job) (entity.ApplicationOutcome, error) {
	if err := uc.browser.Click(ctx, uc.jobs.JobSelector(job.ID)); err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("select job: %w", err)
	}
	if err := uc.browser.WaitFor(ctx, uc.sel.Details, entity.WaitPresent, uc.cfg.DetailsTimeout); err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("job details: %w", err)
	}

	available, err := uc.browser.Exists(ctx, uc.sel.ApplyButton)
	if err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("check apply button: %w", err)
	}
	if !available {
		log.Info("Quick apply not offered on the details page")
		return entity.Skipped(entity.ReasonNotQuickApply), nil
	}

	if err := uc.browser.WaitFor(ctx, uc.sel.ApplyButton, entity.WaitVisible, uc.cfg.ModalTimeout); err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("apply button: %w", err)
	}
	if err := uc.browser.Click(ctx, uc.sel.ApplyButton); err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("click apply: %w", err)
	}
	if err := uc.browser.WaitFor(ctx, uc.sel.Modal, entity.WaitPresent, uc.cfg.ModalTimeout); err != nil {
		return entity.ApplicationOutcome{}, fmt.Errorf("open wizard: %w", err)
	}
	log.Info("Wizard open")

	outcome, err := uc.wizard.Run(ctx)
	if err != nil {
		if cerr := uc.wizard.EnsureClosed(ctx); cerr != nil {
			log.Warn("Could not close wizard after failure", "error", cerr)
		}
		return entity.ApplicationOutcome{}, err
	}

	if err := uc.wizard.EnsureClosed(ctx); err != nil {
		log.Warn("Wizard may still be open", "error", err)
	}
	return outcome, nil
}

func (uc *UseCase) snapshot(ctx context.Context, log output.LoggerPort, job entity.Job) {
	if uc.snapshots == nil {
		return
	}
	shot, err := uc.browser.Screenshot(ctx)
	if err != nil {
		log.Warn("Failure screenshot not taken", "error", err)
		return
	}
	path, err := uc.snapshots.Save(ctx, "job-"+job.ID, shot)
	if err != nil {
		log.Warn("Failure screenshot not saved", "error", err)
		return
	}
	log.Info("Failure screenshot saved", "path", path)
}
