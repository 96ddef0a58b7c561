package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/dbtest"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
	extractdomain "github.com/smallbiznis/salesdw/internal/extract/domain"
	factdomain "github.com/smallbiznis/salesdw/internal/fact/domain"
	"github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"github.com/smallbiznis/salesdw/internal/pipeline/repository"
	referencedomain "github.com/smallbiznis/salesdw/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type runnerMocks struct {
	extract   *MockExtractService
	reference *MockReferenceService
	dimension *MockDimensionService
	facts     *MockFactService
}

func newRunner(t *testing.T, cfg config.PipelineConfig) (*Runner, runnerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := runnerMocks{
		extract:   NewMockExtractService(ctrl),
		reference: NewMockReferenceService(ctrl),
		dimension: NewMockDimensionService(ctrl),
		facts:     NewMockFactService(ctrl),
	}
	runner := New(Params{
		DB:        dbtest.Open(t),
		Log:       zap.NewNop(),
		GenID:     dbtest.MustNode(t),
		Clock:     clock.NewFakeClock(time.Date(2025, time.May, 1, 2, 0, 0, 0, time.UTC)),
		Repo:      repository.Provide(),
		Pipeline:  config.NewStaticPipelineConfigHolder(cfg),
		Extract:   mocks.extract,
		Reference: mocks.reference,
		Dimension: mocks.dimension,
		Facts:     mocks.facts,
	})
	return runner, mocks
}

func TestRunOnceExecutesPhasesInOrder(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())
	ctx := context.Background()

	gomock.InOrder(
		m.extract.EXPECT().Run(gomock.Any()).Return(extractdomain.ExtractionResult{Customers: 2, Success: true}, nil),
		m.reference.EXPECT().VerifyStatuses(gomock.Any()).Return(referencedomain.VerifyResult{Dimension: "status", Success: true}, nil),
		m.reference.EXPECT().VerifyCalendar(gomock.Any()).Return(referencedomain.VerifyResult{Dimension: "calendar", Success: true}, nil),
		m.dimension.EXPECT().MergeCustomers(gomock.Any()).Return(dimensiondomain.MergeResult{Dimension: "customer", Processed: 2, Inserted: 2, Success: true}, nil),
		m.dimension.EXPECT().MergeProducts(gomock.Any()).Return(dimensiondomain.MergeResult{Dimension: "product", Success: true}, nil),
		m.facts.EXPECT().Load(gomock.Any()).Return(factdomain.LoadResult{RowsLoaded: 5, Success: true}, nil),
	)

	summary, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Success())
	assert.NotEmpty(t, summary.RunID)
	assert.Empty(t, summary.Skipped)
	require.Len(t, summary.Phases, len(domain.DefaultPhases))
	for i, phase := range domain.DefaultPhases {
		assert.Equal(t, phase, summary.Phases[i].Phase)
		assert.True(t, summary.Phases[i].Success)
	}

	var merge dimensiondomain.MergeResult
	require.NoError(t, json.Unmarshal(summary.Phases[3].Detail, &merge))
	assert.Equal(t, 2, merge.Inserted)

	latest, err := runner.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, summary.RunID, latest.RunID)
	assert.Equal(t, domain.RunStatusSucceeded, latest.Status)
	assert.Len(t, latest.Phases, 6)
}

func TestRunStopsAfterFailedVerification(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())

	gomock.InOrder(
		m.extract.EXPECT().Run(gomock.Any()).Return(extractdomain.ExtractionResult{Success: true}, nil),
		m.reference.EXPECT().VerifyStatuses(gomock.Any()).Return(referencedomain.VerifyResult{
			Dimension: "status",
			Missing:   []string{"Cancelled"},
		}, nil),
	)

	summary, err := runner.RunOnce(context.Background())
	require.NoError(t, err, "a validation failure is reported in the summary")
	assert.Equal(t, domain.RunStatusFailed, summary.Status)
	require.Len(t, summary.Phases, 2)
	assert.False(t, summary.Phases[1].Success)
	assert.Equal(t, []domain.Phase{domain.PhaseCalendar, domain.PhaseCustomer, domain.PhaseProduct, domain.PhaseFacts}, summary.Skipped)

	failed, ok := summary.FailedPhase()
	require.True(t, ok)
	assert.Equal(t, domain.PhaseStatus, failed.Phase)
}

func TestRunPersistenceFailureAbortsLaterPhases(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())
	boom := errors.New("connection refused")

	gomock.InOrder(
		m.extract.EXPECT().Run(gomock.Any()).Return(extractdomain.ExtractionResult{Success: true}, nil),
		m.reference.EXPECT().VerifyStatuses(gomock.Any()).Return(referencedomain.VerifyResult{Success: true}, nil),
		m.reference.EXPECT().VerifyCalendar(gomock.Any()).Return(referencedomain.VerifyResult{Success: true}, nil),
		m.dimension.EXPECT().MergeCustomers(gomock.Any()).Return(dimensiondomain.MergeResult{
			Dimension: "customer",
			Processed: 3,
			Updated:   1,
			Error:     boom.Error(),
		}, boom),
	)

	summary, err := runner.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.RunStatusFailed, summary.Status)
	require.Len(t, summary.Phases, 4)
	assert.Equal(t, "connection refused", summary.Phases[3].Error)
	assert.Equal(t, []domain.Phase{domain.PhaseProduct, domain.PhaseFacts}, summary.Skipped)

	latest, err := runner.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.RunStatusFailed, latest.Status)
}

func TestRunPhasesRunsOnlyRequestedPhases(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())

	m.reference.EXPECT().VerifyStatuses(gomock.Any()).Return(referencedomain.VerifyResult{Success: true}, nil)
	m.reference.EXPECT().VerifyCalendar(gomock.Any()).Return(referencedomain.VerifyResult{Success: true}, nil)

	summary, err := runner.RunPhases(context.Background(), []domain.Phase{domain.PhaseStatus, domain.PhaseCalendar})
	require.NoError(t, err)
	assert.True(t, summary.Success())
	assert.Len(t, summary.Phases, 2)
}

func TestRunPhasesRestoresRunOrder(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())

	gomock.InOrder(
		m.reference.EXPECT().VerifyStatuses(gomock.Any()).Return(referencedomain.VerifyResult{Success: true}, nil),
		m.dimension.EXPECT().MergeCustomers(gomock.Any()).Return(dimensiondomain.MergeResult{Success: true}, nil),
		m.facts.EXPECT().Load(gomock.Any()).Return(factdomain.LoadResult{Success: true}, nil),
	)

	summary, err := runner.RunPhases(context.Background(), []domain.Phase{domain.PhaseFacts, domain.PhaseCustomer, domain.PhaseStatus})
	require.NoError(t, err)
	require.Len(t, summary.Phases, 3)
	assert.Equal(t, domain.PhaseStatus, summary.Phases[0].Phase)
	assert.Equal(t, domain.PhaseFacts, summary.Phases[2].Phase)
}

func TestRunPhasesRejectsUnknownPhase(t *testing.T) {
	runner, _ := newRunner(t, config.DefaultPipelineConfig())

	_, err := runner.RunPhases(context.Background(), []domain.Phase{"publish"})
	assert.ErrorIs(t, err, domain.ErrUnknownPhase)
}

func TestRunOnceRejectsUnknownConfiguredPhase(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.Phases = []string{"extract", "publish"}
	runner, _ := newRunner(t, cfg)

	_, err := runner.RunOnce(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownPhase)
}

func TestRunRejectsOverlappingRun(t *testing.T) {
	runner, m := newRunner(t, config.DefaultPipelineConfig())
	started := make(chan struct{})
	release := make(chan struct{})

	m.extract.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) (extractdomain.ExtractionResult, error) {
		close(started)
		<-release
		return extractdomain.ExtractionResult{Success: true}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := runner.RunPhases(context.Background(), []domain.Phase{domain.PhaseExtract})
		done <- err
	}()

	<-started
	_, err := runner.RunPhases(context.Background(), []domain.Phase{domain.PhaseExtract})
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestLatestBeforeFirstRun(t *testing.T) {
	runner, _ := newRunner(t, config.DefaultPipelineConfig())

	latest, err := runner.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}
