package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/salesdw/internal/extract/domain"
	stagingdomain "github.com/smallbiznis/salesdw/internal/staging/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	defaultAPITimeout = 10 * time.Second
	maxErrorBody      = 512
)

type apiProduct struct {
	ProductID   int64           `json:"product_id"`
	ProductName *string         `json:"product_name"`
	Category    *string         `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// ProductsAPI fetches the product catalogue as a JSON array from a REST endpoint.
type ProductsAPI struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

func NewProductsAPI(url string, timeout time.Duration, log *zap.Logger) *ProductsAPI {
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}
	return &ProductsAPI{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("extract.products"),
	}
}

func (s *ProductsAPI) Name() string { return "api:" + s.url }

func (s *ProductsAPI) Extract(ctx context.Context, loadDate time.Time) ([]stagingdomain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s returned %d: %s", domain.ErrSourceUnavailable, s.url, resp.StatusCode, string(body))
	}

	var payload []apiProduct
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]stagingdomain.Product, 0, len(payload))
	for _, item := range payload {
		products = append(products, stagingdomain.Product{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    item.Category,
			Price:       item.Price.Round(2),
			Stock:       item.Stock,
			LoadDate:    loadDate,
		})
	}

	s.log.Info("extract.products.fetched",
		zap.String("url", s.url),
		zap.String("request_id", requestID),
		zap.Int("count", len(products)),
	)
	return products, nil
}
