package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
	extractdomain "github.com/smallbiznis/salesdw/internal/extract/domain"
	factdomain "github.com/smallbiznis/salesdw/internal/fact/domain"
	obslogger "github.com/smallbiznis/salesdw/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/salesdw/internal/observability/metrics"
	"github.com/smallbiznis/salesdw/internal/pipeline/domain"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tracerName = "github.com/smallbiznis/salesdw/internal/pipeline"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Pipeline  *config.PipelineConfigHolder
	Extract   extractdomain.Service
	Reference referencedomain.Service
	Dimension dimensiondomain.Service
	Facts     factdomain.Service
}

// Runner executes pipeline runs. At most one run is active per process.
type Runner struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	pipeline  *config.PipelineConfigHolder
	extract   extractdomain.Service
	reference referencedomain.Service
	dimension dimensiondomain.Service
	facts     factdomain.Service
	tracer    trace.Tracer

	running sync.Mutex
}

func New(p Params) *Runner {
	return &Runner{
		db:        p.DB,
		log:       p.Log.Named("pipeline.runner"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		pipeline:  p.Pipeline,
		extract:   p.Extract,
		reference: p.Reference,
		dimension: p.Dimension,
		facts:     p.Facts,
		tracer:    otel.Tracer(tracerName),
	}
}

func (r *Runner) RunOnce(ctx context.Context) (domain.Summary, error) {
	phases, err := domain.ParsePhases(r.pipeline.Get().Phases)
	if err != nil {
		return domain.Summary{}, err
	}
	return r.RunPhases(ctx, phases)
}

// RunPhases runs the given phases in DefaultPhases order.
func (r *Runner) RunPhases(ctx context.Context, phases []domain.Phase) (domain.Summary, error) {
	for _, phase := range phases {
		if !phase.Valid() {
			return domain.Summary{}, fmt.Errorf("%w: %q", domain.ErrUnknownPhase, phase)
		}
	}
	phases = domain.Ordered(phases)
	if !r.running.TryLock() {
		return domain.Summary{}, domain.ErrRunInProgress
	}
	defer r.running.Unlock()

	cfg := r.pipeline.Get()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	summary := domain.Summary{
		RunID:     ulid.Make().String(),
		StartedAt: r.clock.Now(),
		Phases:    make([]domain.PhaseResult, 0, len(phases)),
	}
	ctx = obslogger.ContextWithRunID(ctx, summary.RunID)
	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", summary.RunID),
	))
	defer span.End()

	log := obslogger.WithContext(ctx, r.log)
	log.Info("pipeline.run.start", zap.Int("phases", len(phases)))

	var runErr error
	for i, phase := range phases {
		result, err := r.runPhase(ctx, phase)
		summary.Phases = append(summary.Phases, result)
		if !result.Success {
			runErr = err
			summary.Skipped = append(summary.Skipped, phases[i+1:]...)
			break
		}
	}

	summary.FinishedAt = r.clock.Now()
	summary.Status = domain.RunStatusSucceeded
	if failed, ok := summary.FailedPhase(); ok {
		summary.Status = domain.RunStatusFailed
		span.SetStatus(codes.Error, "phase "+string(failed.Phase)+" failed")
		if runErr != nil {
			span.RecordError(runErr)
		}
	}

	obsmetrics.Pipeline().ObserveRun(summary.Status, summary.FinishedAt.Sub(summary.StartedAt), summary.FinishedAt)

	if err := r.persist(ctx, summary); err != nil {
		log.Error("pipeline.run.persist_failed", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}

	fields := []zap.Field{
		zap.String("status", summary.Status),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
		zap.Int("phases_run", len(summary.Phases)),
	}
	if len(summary.Skipped) > 0 {
		skipped := make([]string, 0, len(summary.Skipped))
		for _, phase := range summary.Skipped {
			skipped = append(skipped, string(phase))
		}
		fields = append(fields, zap.Strings("phases_skipped", skipped))
	}
	if summary.Success() {
		log.Info("pipeline.run.finish", fields...)
	} else {
		log.Warn("pipeline.run.finish", fields...)
	}

	return summary, runErr
}

func (r *Runner) runPhase(ctx context.Context, phase domain.Phase) (domain.PhaseResult, error) {
	ctx = obslogger.ContextWithPhase(ctx, string(phase))
	ctx, span := r.tracer.Start(ctx, "pipeline.phase."+string(phase))
	defer span.End()
	log := obslogger.WithContext(ctx, r.log)
	log.Info("pipeline.phase.start")

	result := domain.PhaseResult{Phase: phase, StartedAt: r.clock.Now()}
	detail, success, err := r.execute(ctx, phase)
	result.FinishedAt = r.clock.Now()
	result.DurationMs = result.FinishedAt.Sub(result.StartedAt).Milliseconds()
	result.Success = success && err == nil
	if err != nil {
		result.Error = err.Error()
	}
	if raw, marshalErr := json.Marshal(detail); marshalErr == nil {
		result.Detail = raw
	}

	pm := obsmetrics.Pipeline()
	pm.ObservePhaseDuration(string(phase), result.FinishedAt.Sub(result.StartedAt))

	if !result.Success {
		pm.IncPhaseFailure(string(phase), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("pipeline.phase.failed", zap.Error(err), zap.Int64("duration_ms", result.DurationMs))
		} else {
			span.SetStatus(codes.Error, "validation failed")
			log.Warn("pipeline.phase.invalid", zap.Int64("duration_ms", result.DurationMs))
		}
		return result, err
	}

	log.Info("pipeline.phase.finish", zap.Int64("duration_ms", result.DurationMs))
	return result, nil
}

func (r *Runner) execute(ctx context.Context, phase domain.Phase) (any, bool, error) {
	pm := obsmetrics.Pipeline()
	switch phase {
	case domain.PhaseExtract:
		res, err := r.extract.Run(ctx)
		return res, res.Success, err
	case domain.PhaseStatus:
		res, err := r.reference.VerifyStatuses(ctx)
		return res, res.Success, err
	case domain.PhaseCalendar:
		res, err := r.reference.VerifyCalendar(ctx)
		return res, res.Success, err
	case domain.PhaseCustomer:
		res, err := r.dimension.MergeCustomers(ctx)
		recordMerge(pm, res)
		return res, res.Success, err
	case domain.PhaseProduct:
		res, err := r.dimension.MergeProducts(ctx)
		recordMerge(pm, res)
		return res, res.Success, err
	case domain.PhaseFacts:
		res, err := r.facts.Load(ctx)
		pm.AddFactRows(res.RowsLoaded)
		for reason, n := range res.Skips {
			pm.AddFactSkips(string(reason), n)
		}
		return res, res.Success, err
	default:
		return nil, false, fmt.Errorf("%w: %q", domain.ErrUnknownPhase, phase)
	}
}

func recordMerge(pm *obsmetrics.PipelineMetrics, res dimensiondomain.MergeResult) {
	pm.AddDimensionRows(res.Dimension, "inserted", res.Inserted)
	pm.AddDimensionRows(res.Dimension, "updated", res.Updated)
	pm.AddDimensionRows(res.Dimension, "unchanged", res.Unchanged)
}

func (r *Runner) persist(ctx context.Context, summary domain.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	// The run context may already be past its deadline.
	ctx = context.WithoutCancel(ctx)
	run := &domain.Run{
		ID:         r.genID.Generate(),
		RunID:      summary.RunID,
		Status:     summary.Status,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Summary:    raw,
	}
	if err := r.repo.Insert(ctx, r.db, run); err != nil {
		return fmt.Errorf("persist run %s: %w", summary.RunID, err)
	}
	return nil
}

// Latest returns the summary of the most recent run, or nil before the first run.
func (r *Runner) Latest(ctx context.Context) (*domain.Summary, error) {
	run, err := r.repo.FindLatest(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	var summary domain.Summary
	if err := json.Unmarshal(run.Summary, &summary); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", run.RunID, err)
	}
	return &summary, nil
}

// RunForever starts a run immediately and then on every schedule interval
// until ctx is cancelled.
func (r *Runner) RunForever(ctx context.Context) {
	interval := r.pipeline.Get().ScheduleInterval
	if interval <= 0 {
		interval = config.DefaultPipelineConfig().ScheduleInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, err := r.RunOnce(ctx)
		switch {
		case errors.Is(err, domain.ErrRunInProgress):
			r.log.Info("pipeline.schedule.busy")
		case err != nil:
			r.log.Warn("pipeline.schedule.run_failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
