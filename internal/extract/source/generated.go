package source

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
)

var (
	productCategories = []string{"Electronics", "Clothing", "Food", "Books", "Sports"}
	productNames      = []string{
		"Laptop", "Mouse", "Keyboard", "Monitor", "Headphones",
		"T-Shirt", "Jeans", "Sneakers", "Jacket", "Hat",
		"Coffee", "Tea", "Sugar", "Rice", "Pasta",
		"Novel", "Magazine", "Comics", "Textbook", "Dictionary",
		"Soccer Ball", "Tennis Racket", "Basketball", "Yoga Mat", "Dumbbells",
	}
)

const maxGeneratedCustomerID = 5000

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// GeneratedProducts stands in for the product API when no URL is configured.
// The same seed always yields the same catalogue.
type GeneratedProducts struct {
	Count int
	Seed  int64
}

func (s GeneratedProducts) Name() string { return "generated:products" }

func (s GeneratedProducts) Extract(ctx context.Context, loadDate time.Time) ([]stagingdomain.Product, error) {
	r := newRand(s.Seed)
	products := make([]stagingdomain.Product, 0, s.Count)
	for i := 1; i <= s.Count; i++ {
		name := productNames[i%len(productNames)]
		category := productCategories[i%len(productCategories)]
		price := decimal.NewFromFloat(r.Float64()*500 + 10).Round(2)
		products = append(products, stagingdomain.Product{
			ProductID:   int64(i),
			ProductName: &name,
			Category:    &category,
			Price:       price,
			Stock:       r.IntN(1000),
			LoadDate:    loadDate,
		})
	}
	return products, ctx.Err()
}

// GeneratedOrders stands in for the order database. Order ids run 1..Count,
// dates fall within Year and statuses are drawn from Statuses.
type GeneratedOrders struct {
	Count    int
	Seed     int64
	Year     int
	Statuses []string
}

func (s GeneratedOrders) Name() string { return "generated:orders" }

func (s GeneratedOrders) Extract(ctx context.Context, loadDate time.Time) ([]stagingdomain.Order, error) {
	r := newRand(s.Seed)
	start := time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24

	orders := make([]stagingdomain.Order, 0, s.Count)
	for i := 1; i <= s.Count; i++ {
		status := ""
		if len(s.Statuses) > 0 {
			status = s.Statuses[r.IntN(len(s.Statuses))]
		}
		orders = append(orders, stagingdomain.Order{
			OrderID:    int64(i),
			CustomerID: int64(r.IntN(maxGeneratedCustomerID) + 1),
			OrderDate:  start.AddDate(0, 0, r.IntN(int(days))),
			Status:     status,
			LoadDate:   loadDate,
		})
	}
	return orders, ctx.Err()
}
