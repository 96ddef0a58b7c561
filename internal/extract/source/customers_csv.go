package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/smallbiznis/salesdw/internal/extract/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/zap"
)

// CustomersCSV reads customers from a CSV file with a header row. A missing
// file is an error.
type CustomersCSV struct {
	path string
	log  *zap.Logger
}

func NewCustomersCSV(path string, log *zap.Logger) *CustomersCSV {
	return &CustomersCSV{path: path, log: log.Named("extract.customers")}
}

func (s *CustomersCSV) Name() string { return "csv:" + s.path }

func (s *CustomersCSV) Extract(ctx context.Context, loadDate time.Time) ([]stagingdomain.Customer, error) {
	table, err := readCSV(s.path)
	if err != nil {
		return nil, err
	}

	customers := make([]stagingdomain.Customer, 0, len(table.rows))
	skipped := 0
	for _, row := range table.rows {
		record := row.fields
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(table.value(record, "CustomerID"), 10, 64)
		if err != nil {
			skipped++
			s.log.Warn("extract.customers.invalid_row",
				zap.Int("line", row.line),
				zap.Error(fmt.Errorf("%w: customer id: %v", domain.ErrInvalidRecord, err)),
			)
			continue
		}
		customers = append(customers, stagingdomain.Customer{
			CustomerID: id,
			FirstName:  table.text(record, "FirstName"),
			LastName:   table.text(record, "LastName"),
			Email:      table.text(record, "Email"),
			Phone:      table.text(record, "Phone"),
			City:       table.text(record, "City"),
			Country:    table.text(record, "Country"),
			LoadDate:   loadDate,
		})
	}

	s.log.Info("extract.customers.read",
		zap.String("path", s.path),
		zap.Int("count", len(customers)),
		zap.Int("skipped", skipped),
	)
	return customers, nil
}
