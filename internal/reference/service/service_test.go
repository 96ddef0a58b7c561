package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/dbtest"
	"github.com/smallbiznis/salesdw/internal/reference/domain"
	"github.com/smallbiznis/salesdw/internal/reference/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T, now time.Time) (domain.Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestVerifyStatusesSucceedsWithExpectedSet(t *testing.T) {
	svc, db := newService(t, time.Now())
	dbtest.SeedStatuses(t, db)

	result, err := svc.VerifyStatuses(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.EqualValues(t, 4, result.RowCount)
	assert.Empty(t, result.Missing)
}

func TestVerifyStatusesReportsMissingNamesSorted(t *testing.T) {
	svc, db := newService(t, time.Now())
	rows := []domain.Status{
		{StatusKey: 1, StatusName: "Pending"},
		{StatusKey: 2, StatusName: "Returned"},
	}
	require.NoError(t, db.Create(&rows).Error)

	result, err := svc.VerifyStatuses(context.Background())
	require.NoError(t, err, "a failed check is a result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Cancelled", "Delivered", "Shipped"}, result.Missing)
	assert.Contains(t, result.Message, "Cancelled")

	var count int64
	require.NoError(t, db.Model(&domain.Status{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "verification never creates rows")
}

func TestVerifyStatusesNamesAreCaseSensitive(t *testing.T) {
	svc, db := newService(t, time.Now())
	rows := []domain.Status{
		{StatusKey: 1, StatusName: "pending"},
		{StatusKey: 2, StatusName: "Shipped"},
		{StatusKey: 3, StatusName: "Delivered"},
		{StatusKey: 4, StatusName: "Cancelled"},
	}
	require.NoError(t, db.Create(&rows).Error)

	result, err := svc.VerifyStatuses(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Pending"}, result.Missing)
}

func newConfiguredService(t *testing.T, expected ...string) (domain.Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	cfg := config.DefaultPipelineConfig()
	cfg.ExpectedStatuses = expected
	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Now()),
		Repo:     repository.Provide(),
		Pipeline: config.NewStaticPipelineConfigHolder(cfg),
	})
	return svc, db
}

func TestVerifyStatusesConfiguredSetCannotDropDefaults(t *testing.T) {
	svc, db := newConfiguredService(t, "Pending")
	rows := []domain.Status{{StatusKey: 1, StatusName: "Pending"}}
	require.NoError(t, db.Create(&rows).Error)

	result, err := svc.VerifyStatuses(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Cancelled", "Delivered", "Shipped"}, result.Missing)
}

func TestVerifyStatusesConfiguredSetAddsNames(t *testing.T) {
	svc, db := newConfiguredService(t, "Pending", "Returned")
	dbtest.SeedStatuses(t, db)

	result, err := svc.VerifyStatuses(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Returned"}, result.Missing)

	require.NoError(t, db.Create(&domain.Status{StatusKey: 5, StatusName: "Returned"}).Error)
	result, err = svc.VerifyStatuses(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestVerifyCalendarEmptyFails(t *testing.T) {
	svc, _ := newService(t, time.Now())

	result, err := svc.VerifyCalendar(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Zero(t, result.RowCount)
}

func TestVerifyCalendarTodayMissingOnlyWarns(t *testing.T) {
	svc, db := newService(t, time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))
	dbtest.SeedCalendar(t, db, dbtest.Date(2024, 1, 1), dbtest.Date(2024, 1, 2))

	result, err := svc.VerifyCalendar(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.EqualValues(t, 2, result.RowCount)
	assert.Contains(t, result.Message, "20250615")
}

func TestVerifyCalendarTodayPresent(t *testing.T) {
	svc, db := newService(t, time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC))
	dbtest.SeedCalendar(t, db, dbtest.Date(2025, 6, 15))

	result, err := svc.VerifyCalendar(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Message)
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, db := newService(t, time.Now())
	ctx := context.Background()

	first, err := svc.SeedStatuses(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, first.Inserted)
	again, err := svc.SeedStatuses(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, again.Inserted)

	cal, err := svc.SeedCalendar(ctx, dbtest.Date(2024, 12, 30), dbtest.Date(2025, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 4, cal.Requested)
	assert.EqualValues(t, 4, cal.Inserted)

	overlap, err := svc.SeedCalendar(ctx, dbtest.Date(2025, 1, 1), dbtest.Date(2025, 1, 3))
	require.NoError(t, err)
	assert.EqualValues(t, 1, overlap.Inserted)

	days, err := repository.Provide().ListCalendar(ctx, db)
	require.NoError(t, err)
	require.Len(t, days, 5)
	assert.Equal(t, 20241230, days[0].TimeKey)
	assert.Equal(t, 20250103, days[4].TimeKey)

	result, err := svc.VerifyStatuses(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSeedCalendarRejectsInvertedRange(t *testing.T) {
	svc, _ := newService(t, time.Now())

	_, err := svc.SeedCalendar(context.Background(), dbtest.Date(2025, 2, 1), dbtest.Date(2025, 1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
