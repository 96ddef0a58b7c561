package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/salesdw/pkg/db"
)

const (
	PhaseFailureReasonDeadlineExceeded     = "deadline_exceeded"
	PhaseFailureReasonDBLockTimeout        = "db_lock_timeout"
	PhaseFailureReasonSerializationFailure = "serialization_failure"
	PhaseFailureReasonUniqueViolation      = "unique_violation"
	PhaseFailureReasonDB                   = "db"
	PhaseFailureReasonValidation           = "validation"
	PhaseFailureReasonUnknown              = "unknown"
)

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PipelineMetrics captures run and phase health for the ELT pipeline.
type PipelineMetrics struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	phaseDuration *prometheus.HistogramVec
	phaseFailures *prometheus.CounterVec
	dimensionRows *prometheus.CounterVec
	factRows      prometheus.Counter
	factSkips     *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

var (
	pipelineMetricsOnce sync.Once
	pipelineMetrics     *PipelineMetrics
)

// Pipeline returns the singleton pipeline metrics registry.
func Pipeline() *PipelineMetrics {
	return PipelineWithConfig(Config{})
}

// PipelineWithConfig returns the singleton pipeline metrics registry using config labels.
func PipelineWithConfig(cfg Config) *PipelineMetrics {
	pipelineMetricsOnce.Do(func() {
		pipelineMetrics = NewPipelineMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return pipelineMetrics
}

func NewPipelineMetrics(registerer prometheus.Registerer, cfg Config) *PipelineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "salesdw"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "salesdw_pipeline_runs_total",
		Help:        "Pipeline runs by final status.",
		ConstLabels: constLabels,
	}, []string{"status"})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "salesdw_pipeline_run_duration_seconds",
		Help:        "End to end pipeline run latency.",
		Buckets:     []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		ConstLabels: constLabels,
	})
	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "salesdw_pipeline_phase_duration_seconds",
		Help:        "Pipeline phase latency.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		ConstLabels: constLabels,
	}, []string{"phase"})
	phaseFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "salesdw_pipeline_phase_failures_total",
		Help:        "Pipeline phase failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"phase", "reason"})
	dimensionRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "salesdw_dimension_merge_rows_total",
		Help:        "SCD2 merge outcomes per dimension.",
		ConstLabels: constLabels,
	}, []string{"dimension", "outcome"})
	factRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "salesdw_fact_rows_loaded_total",
		Help:        "Fact rows loaded into fact_sales.",
		ConstLabels: constLabels,
	})
	factSkips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "salesdw_fact_rows_skipped_total",
		Help:        "Staged order details skipped by missing reference.",
		ConstLabels: constLabels,
	}, []string{"reason"})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "salesdw_pipeline_last_success_timestamp_seconds",
		Help:        "Unix time of the last successful pipeline run.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		runs,
		runDuration,
		phaseDuration,
		phaseFailures,
		dimensionRows,
		factRows,
		factSkips,
		lastSuccess,
	)

	return &PipelineMetrics{
		runs:          runs,
		runDuration:   runDuration,
		phaseDuration: phaseDuration,
		phaseFailures: phaseFailures,
		dimensionRows: dimensionRows,
		factRows:      factRows,
		factSkips:     factSkips,
		lastSuccess:   lastSuccess,
	}
}

// ObserveRun records a finished run.
func (m *PipelineMetrics) ObserveRun(status string, duration time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	if status == RunStatusSucceeded {
		m.lastSuccess.Set(float64(finishedAt.Unix()))
	}
}

// ObservePhaseDuration records pipeline phase latency in seconds.
func (m *PipelineMetrics) ObservePhaseDuration(phase string, duration time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// IncPhaseFailure counts a failed phase. A nil err means the phase reported a
// validation failure without raising.
func (m *PipelineMetrics) IncPhaseFailure(phase string, err error) {
	if m == nil {
		return
	}
	m.phaseFailures.WithLabelValues(phase, ClassifyPhaseFailure(err)).Inc()
}

// AddDimensionRows adds merge outcome counts for a dimension.
func (m *PipelineMetrics) AddDimensionRows(dimension, outcome string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.dimensionRows.WithLabelValues(dimension, outcome).Add(float64(count))
}

// AddFactRows adds loaded fact rows.
func (m *PipelineMetrics) AddFactRows(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.factRows.Add(float64(count))
}

// AddFactSkips adds skipped details for a reason.
func (m *PipelineMetrics) AddFactSkips(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.factSkips.WithLabelValues(reason).Add(float64(count))
}

// ClassifyPhaseFailure maps phase errors to low-cardinality reasons.
func ClassifyPhaseFailure(err error) string {
	if err == nil {
		return PhaseFailureReasonValidation
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return PhaseFailureReasonDeadlineExceeded
	}
	if db.HasPGCode(err, "55P03") {
		return PhaseFailureReasonDBLockTimeout
	}
	if db.HasPGCode(err, "40001") {
		return PhaseFailureReasonSerializationFailure
	}
	if db.IsDuplicateKeyErr(err) {
		return PhaseFailureReasonUniqueViolation
	}
	if db.IsStoreErr(err) {
		return PhaseFailureReasonDB
	}
	return PhaseFailureReasonUnknown
}
