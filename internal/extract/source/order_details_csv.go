package source

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/extract/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/zap"
)

// OrderDetailsCSV reads order lines from a CSV file. An unreadable or missing
// file yields no lines and a warning; the run continues without facts.
type OrderDetailsCSV struct {
	path string
	log  *zap.Logger
}

func NewOrderDetailsCSV(path string, log *zap.Logger) *OrderDetailsCSV {
	return &OrderDetailsCSV{path: path, log: log.Named("extract.order_details")}
}

func (s *OrderDetailsCSV) Name() string { return "csv:" + s.path }

func (s *OrderDetailsCSV) Extract(ctx context.Context, loadDate time.Time) ([]stagingdomain.OrderDetail, error) {
	table, err := readCSV(s.path)
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			s.log.Warn("extract.order_details.missing", zap.String("path", s.path))
		} else {
			s.log.Warn("extract.order_details.unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return []stagingdomain.OrderDetail{}, nil
	}

	details := make([]stagingdomain.OrderDetail, 0, len(table.rows))
	skipped := 0
	for _, row := range table.rows {
		record := row.fields
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		detail, ok := parseOrderDetail(table, record)
		if !ok {
			skipped++
			s.log.Warn("extract.order_details.invalid_row", zap.Int("line", row.line))
			continue
		}
		detail.LoadDate = loadDate
		details = append(details, detail)
	}

	s.log.Info("extract.order_details.read",
		zap.String("path", s.path),
		zap.Int("count", len(details)),
		zap.Int("skipped", skipped),
	)
	return details, nil
}

func parseOrderDetail(table *csvTable, record []string) (stagingdomain.OrderDetail, bool) {
	orderID, err := strconv.ParseInt(table.value(record, "OrderID"), 10, 64)
	if err != nil {
		return stagingdomain.OrderDetail{}, false
	}
	productID, err := strconv.ParseInt(table.value(record, "ProductID"), 10, 64)
	if err != nil {
		return stagingdomain.OrderDetail{}, false
	}
	quantity, err := strconv.Atoi(table.value(record, "Quantity"))
	if err != nil {
		return stagingdomain.OrderDetail{}, false
	}
	total := decimal.Zero
	if raw := table.value(record, "TotalPrice"); raw != "" {
		total, err = decimal.NewFromString(raw)
		if err != nil {
			return stagingdomain.OrderDetail{}, false
		}
	}
	return stagingdomain.OrderDetail{
		OrderID:    orderID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: total,
	}, true
}
