package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/clock"
	"github.com/smallbiznis/salesdw/internal/dbtest"
	"github.com/smallbiznis/salesdw/internal/dimension/domain"
	"github.com/smallbiznis/salesdw/internal/dimension/repository"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	stagingrepository "github.com/smallbiznis/salesdw/internal/staging/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	staging stagingdomain.Repository
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{
		db:      db,
		node:    dbtest.MustNode(t),
		clock:   clock.NewFakeClock(time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)),
		staging: stagingrepository.Provide(),
	}
	f.svc = New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        f.node,
		Clock:        f.clock,
		StagingRepo:  f.staging,
		CustomerRepo: repository.ProvideCustomer(),
		ProductRepo:  repository.ProvideProduct(),
	}).(*Service)
	return f
}

func (f *fixture) restage(t *testing.T, customers []stagingdomain.Customer, products []stagingdomain.Product) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.staging.Truncate(ctx, f.db))
	for i := range customers {
		customers[i].ID = f.node.Generate()
		customers[i].LoadDate = f.clock.Now()
	}
	for i := range products {
		products[i].ID = f.node.Generate()
		products[i].LoadDate = f.clock.Now()
	}
	require.NoError(t, f.staging.InsertCustomers(ctx, f.db, customers, 0))
	require.NoError(t, f.staging.InsertProducts(ctx, f.db, products, 0))
}

func widget(price string) stagingdomain.Product {
	return stagingdomain.Product{
		ProductID:   7,
		ProductName: dbtest.Ptr("Widget"),
		Category:    dbtest.Ptr("Tools"),
		Price:       decimal.RequireFromString(price),
	}
}

func alice() stagingdomain.Customer {
	return stagingdomain.Customer{
		CustomerID: 1,
		FirstName:  dbtest.Ptr("Alice"),
		LastName:   dbtest.Ptr("Smith"),
		Email:      dbtest.Ptr("alice@example.com"),
		City:       dbtest.Ptr("Lima"),
		Country:    dbtest.Ptr("Peru"),
	}
}

func TestMergeProductsPriceChangeClosesPreviousVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day1 := clock.Today(f.clock)

	f.restage(t, nil, []stagingdomain.Product{widget("10.00")})
	first, err := f.svc.MergeProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MergeResult{Dimension: domain.DimensionProduct, Processed: 1, Inserted: 1, Success: true}, first)

	f.clock.AdvanceDays(1)
	day2 := clock.Today(f.clock)
	f.restage(t, nil, []stagingdomain.Product{widget("12.00")})
	second, err := f.svc.MergeProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MergeResult{Dimension: domain.DimensionProduct, Processed: 1, Updated: 1, Success: true}, second)

	history, err := repository.ProvideProduct().ListHistory(ctx, f.db, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)

	closed, open := history[0], history[1]
	assert.False(t, closed.IsCurrent)
	assert.True(t, closed.Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, closed.ValidFrom.Equal(day1))
	assert.True(t, closed.ValidTo.Equal(day2.AddDate(0, 0, -1)), "closed version ends the day before its successor")

	assert.True(t, open.IsCurrent)
	assert.True(t, open.Price.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, open.ValidFrom.Equal(day2))
	assert.True(t, open.ValidTo.Equal(domain.OpenValidTo))
	assert.NotEqual(t, closed.ProductKey, open.ProductKey)

	current, err := repository.ProvideProduct().ListCurrent(ctx, f.db)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, open.ProductKey, current[7].ProductKey)
	assert.True(t, current[7].Price.Equal(decimal.RequireFromString("12")))
}

func TestMergeCustomersIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bob := alice()
	bob.CustomerID = 2
	bob.FirstName = dbtest.Ptr("Bob")
	bob.Phone = nil
	f.restage(t, []stagingdomain.Customer{alice(), bob}, nil)

	first, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MergeResult{Dimension: domain.DimensionCustomer, Processed: 2, Unchanged: 2, Success: true}, second)

	var count int64
	require.NoError(t, f.db.Model(&domain.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestMergeCustomersSingleAttributeChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.restage(t, []stagingdomain.Customer{alice()}, nil)
	_, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)

	moved := alice()
	moved.City = dbtest.Ptr("Cusco")
	f.clock.AdvanceDays(3)
	f.restage(t, []stagingdomain.Customer{moved}, nil)

	result, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	current, err := repository.ProvideCustomer().FindCurrent(ctx, f.db, 1)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Cusco", *current.City)
	assert.Equal(t, "alice@example.com", *current.Email)
}

func TestMergeCustomersNullAwareComparison(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withoutPhone := alice()
	f.restage(t, []stagingdomain.Customer{withoutPhone}, nil)
	_, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)

	// null stays null: unchanged
	f.restage(t, []stagingdomain.Customer{alice()}, nil)
	result, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unchanged)

	// null becomes empty string: a new version
	emptyPhone := alice()
	emptyPhone.Phone = dbtest.Ptr("")
	f.restage(t, []stagingdomain.Customer{emptyPhone}, nil)
	result, err = f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	// comparison is case sensitive
	upper := emptyPhone
	upper.Email = dbtest.Ptr("ALICE@example.com")
	f.restage(t, []stagingdomain.Customer{upper}, nil)
	result, err = f.svc.MergeCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
}

func TestMergeProductsKeepsOneCurrentVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, price := range []string{"10.00", "11.00", "11.00", "9.50", "12.25"} {
		f.restage(t, nil, []stagingdomain.Product{widget(price)})
		_, err := f.svc.MergeProducts(ctx)
		require.NoError(t, err)
		f.clock.AdvanceDays(1)
	}

	history, err := repository.ProvideProduct().ListHistory(ctx, f.db, 7)
	require.NoError(t, err)
	require.Len(t, history, 4)

	open := 0
	for i, version := range history {
		if version.ValidTo.Equal(domain.OpenValidTo) {
			open++
			assert.True(t, version.IsCurrent)
			continue
		}
		assert.False(t, version.IsCurrent)
		next := history[i+1]
		assert.True(t, version.ValidTo.Equal(next.ValidFrom.AddDate(0, 0, -1)),
			"version %d ends %s, successor starts %s", i, version.ValidTo, next.ValidFrom)
	}
	assert.Equal(t, 1, open)
}

func TestMergeProductsUsesLatestStagedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	older := widget("10.00")
	older.ID = f.node.Generate()
	older.LoadDate = f.clock.Now().Add(-time.Hour)
	newer := widget("15.00")
	newer.ID = f.node.Generate()
	newer.LoadDate = f.clock.Now()
	require.NoError(t, f.staging.InsertProducts(ctx, f.db, []stagingdomain.Product{newer, older}, 0))

	result, err := f.svc.MergeProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	current, err := repository.ProvideProduct().FindCurrent(ctx, f.db, 7)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, current.Price.Equal(decimal.RequireFromString("15")))
}

func TestMergeProductsEmptyStaging(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.MergeProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MergeResult{Dimension: domain.DimensionProduct, Success: true}, result)
}

type failingCloseRepo struct {
	domain.CustomerRepository
	err error
}

func (r failingCloseRepo) Close(context.Context, *gorm.DB, snowflake.ID, time.Time) error {
	return r.err
}

func TestMergeCustomersPersistenceFailureStopsPass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.restage(t, []stagingdomain.Customer{alice()}, nil)
	_, err := f.svc.MergeCustomers(ctx)
	require.NoError(t, err)

	boom := errors.New("disk full")
	f.svc.customerRepo = failingCloseRepo{CustomerRepository: f.svc.customerRepo, err: boom}

	changed := alice()
	changed.Country = dbtest.Ptr("Chile")
	newcomer := alice()
	newcomer.CustomerID = 9
	f.restage(t, []stagingdomain.Customer{changed, newcomer}, nil)

	result, err := f.svc.MergeCustomers(ctx)
	require.ErrorIs(t, err, boom)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "disk full")
	assert.Equal(t, 1, result.Processed)

	// nothing from the failed pass was inserted
	var count int64
	require.NoError(t, f.db.Model(&domain.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type failingStagingRepo struct {
	stagingdomain.Repository
	err error
}

func (r failingStagingRepo) LatestCustomers(context.Context, *gorm.DB) ([]stagingdomain.Customer, error) {
	return nil, r.err
}

func (r failingStagingRepo) LatestProducts(context.Context, *gorm.DB) ([]stagingdomain.Product, error) {
	return nil, r.err
}

func TestMergeStagingReadFailureIsReported(t *testing.T) {
	f := newFixture(t)
	core, logs := observer.New(zap.InfoLevel)
	boom := errors.New("relation stg_customers does not exist")
	f.svc.log = zap.New(core)
	f.svc.stagingRepo = failingStagingRepo{Repository: f.staging, err: boom}

	result, err := f.svc.MergeCustomers(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, result.Success)
	assert.Equal(t, domain.DimensionCustomer, result.Dimension)
	assert.Contains(t, result.Error, "read staged customers")

	_, err = f.svc.MergeProducts(context.Background())
	require.ErrorIs(t, err, boom)

	failed := logs.FilterMessage("dimension.merge.failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, domain.DimensionCustomer, failed[0].ContextMap()["dimension"])
	assert.Equal(t, domain.DimensionProduct, failed[1].ContextMap()["dimension"])
}
