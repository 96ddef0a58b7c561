package service

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/fact/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
)

type TransformOptions struct {
	NewKey   func() snowflake.ID
	LoadDate time.Time
	// RejectNonPositiveQuantity skips lines whose quantity is zero or negative.
	RejectNonPositiveQuantity bool
	// Progress, when set, is called after every detail with the running count.
	Progress func(processed int)
}

// CollapseOrders keeps the first header seen for each order id.
func CollapseOrders(orders []stagingdomain.Order) map[int64]domain.OrderHeader {
	headers := make(map[int64]domain.OrderHeader, len(orders))
	for _, o := range orders {
		if _, ok := headers[o.OrderID]; ok {
			continue
		}
		headers[o.OrderID] = domain.OrderHeader{
			CustomerID: o.CustomerID,
			OrderDate:  o.OrderDate,
			Status:     o.Status,
		}
	}
	return headers
}

// Transform resolves every staged detail against snap. A detail either becomes
// one fact row or is counted under exactly one skip reason.
func Transform(snap domain.Snapshot, orders []stagingdomain.Order, details []stagingdomain.OrderDetail, opts TransformOptions) ([]domain.Sales, domain.TransformResult) {
	result := domain.TransformResult{Skips: make(map[domain.SkipReason]int, len(domain.SkipReasons))}
	headers := CollapseOrders(orders)
	rows := make([]domain.Sales, 0, len(details))

	for _, d := range details {
		result.Processed++

		row, reason := resolve(snap, headers, d, opts)
		if reason != "" {
			result.Skips[reason]++
		} else {
			rows = append(rows, row)
			result.Emitted++
		}

		if opts.Progress != nil {
			opts.Progress(result.Processed)
		}
	}

	return rows, result
}

func resolve(snap domain.Snapshot, headers map[int64]domain.OrderHeader, d stagingdomain.OrderDetail, opts TransformOptions) (domain.Sales, domain.SkipReason) {
	header, ok := headers[d.OrderID]
	if !ok {
		return domain.Sales{}, domain.SkipNoOrder
	}
	customerKey, ok := snap.Customers[header.CustomerID]
	if !ok {
		return domain.Sales{}, domain.SkipNoCustomer
	}
	product, ok := snap.Products[d.ProductID]
	if !ok {
		return domain.Sales{}, domain.SkipNoProduct
	}
	timeKey, ok := snap.Calendar[dateKey(header.OrderDate)]
	if !ok {
		return domain.Sales{}, domain.SkipNoTime
	}
	statusKey, ok := snap.Statuses[header.Status]
	if !ok || header.Status == "" {
		return domain.Sales{}, domain.SkipNoStatus
	}
	if opts.RejectNonPositiveQuantity && d.Quantity <= 0 {
		return domain.Sales{}, domain.SkipInvalidQuantity
	}

	// Priced from the product dimension; the staged line total is ignored.
	unitPrice := product.Price
	row := domain.Sales{
		CustomerKey: customerKey,
		ProductKey:  product.ProductKey,
		TimeKey:     timeKey,
		StatusKey:   statusKey,
		OrderID:     d.OrderID,
		Quantity:    d.Quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))),
		LoadDate:    opts.LoadDate,
	}
	if opts.NewKey != nil {
		row.SalesKey = opts.NewKey()
	}
	return row, ""
}

func dateKey(t time.Time) string {
	return t.UTC().Format(domain.DateKeyLayout)
}
