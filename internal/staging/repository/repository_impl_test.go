package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/dbtest"
	"github.com/smallbiznis/salesdw/internal/staging/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestCustomersPicksNewestLoadPerKey(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.MustNode(t)
	r := Provide()
	ctx := context.Background()

	day1 := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	rows := []domain.Customer{
		{ID: node.Generate(), CustomerID: 2, City: dbtest.Ptr("Paris"), LoadDate: day1},
		{ID: node.Generate(), CustomerID: 1, City: dbtest.Ptr("Lyon"), LoadDate: day1},
		{ID: node.Generate(), CustomerID: 1, City: dbtest.Ptr("Nice"), LoadDate: day2},
		// same load date as the previous row; the later insert wins
		{ID: node.Generate(), CustomerID: 1, City: dbtest.Ptr("Lille"), LoadDate: day2},
	}
	require.NoError(t, r.InsertCustomers(ctx, db, rows, 2))

	latest, err := r.LatestCustomers(ctx, db)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(1), latest[0].CustomerID)
	assert.Equal(t, "Lille", *latest[0].City)
	assert.Equal(t, int64(2), latest[1].CustomerID)
	assert.Equal(t, "Paris", *latest[1].City)
}

func TestLatestProductsKeepsPrice(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.MustNode(t)
	r := Provide()
	ctx := context.Background()

	day1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.InsertProducts(ctx, db, []domain.Product{
		{ID: node.Generate(), ProductID: 7, ProductName: dbtest.Ptr("Widget"), Price: decimal.RequireFromString("10.00"), LoadDate: day1},
		{ID: node.Generate(), ProductID: 7, ProductName: dbtest.Ptr("Widget"), Price: decimal.RequireFromString("12.00"), LoadDate: day1.Add(time.Hour)},
	}, 0))

	latest, err := r.LatestProducts(ctx, db)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.True(t, decimal.RequireFromString("12").Equal(latest[0].Price))
}

func TestTruncateClearsEveryStagingTable(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.MustNode(t)
	r := Provide()
	ctx := context.Background()
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.InsertCustomers(ctx, db, []domain.Customer{{ID: node.Generate(), CustomerID: 1, LoadDate: now}}, 0))
	require.NoError(t, r.InsertOrders(ctx, db, []domain.Order{{ID: node.Generate(), OrderID: 1, CustomerID: 1, OrderDate: now, Status: "Pending", LoadDate: now}}, 0))
	require.NoError(t, r.InsertOrderDetails(ctx, db, []domain.OrderDetail{{ID: node.Generate(), OrderID: 1, ProductID: 1, Quantity: 1, LoadDate: now}}, 0))

	require.NoError(t, r.Truncate(ctx, db))

	customers, err := r.LatestCustomers(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, customers)
	orders, err := r.ListOrders(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, orders)
	details, err := r.ListOrderDetails(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestInsertEmptyIsNoop(t *testing.T) {
	db := dbtest.Open(t)
	assert.NoError(t, Provide().InsertProducts(context.Background(), db, nil, 10))
}
