package source

import (
	"strings"

	"github.com/smallbiznis/salesdw/internal/config"
	"github.com/smallbiznis/salesdw/internal/extract/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.uber.org/zap"
)

// NewFactory returns the default source wiring: CSV files for customers and
// order lines, the product API when a URL is set, and generated orders.
func NewFactory(log *zap.Logger) domain.SourceFactory {
	return func(cfg config.PipelineConfig) domain.Sources {
		src := cfg.Sources

		var products domain.Source[stagingdomain.Product] = GeneratedProducts{Count: src.ProductCount, Seed: src.Seed}
		if url := strings.TrimSpace(src.ProductsAPIURL); url != "" {
			products = NewProductsAPI(url, src.ProductsAPITimeout, log)
		}

		return domain.Sources{
			Customers: NewCustomersCSV(src.CustomersCSV, log),
			Products:  products,
			Orders: GeneratedOrders{
				Count:    src.OrderCount,
				Seed:     src.Seed,
				Year:     src.OrderYear,
				Statuses: cfg.ExpectedStatuses,
			},
			OrderDetails: NewOrderDetailsCSV(src.OrderDetailsCSV, log),
		}
	}
}
