package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	dimensiondomain "github.com/smallbiznis/salesdw/internal/dimension/domain"
)

// Sales is one fact row at order x product-line grain.
type Sales struct {
	SalesKey    snowflake.ID    `gorm:"column:sales_key;primaryKey" json:"sales_key"`
	CustomerKey snowflake.ID    `gorm:"column:customer_key;not null;index" json:"customer_key"`
	ProductKey  snowflake.ID    `gorm:"column:product_key;not null;index" json:"product_key"`
	TimeKey     int             `gorm:"column:time_key;not null;index" json:"time_key"`
	StatusKey   int64           `gorm:"column:status_key;not null" json:"status_key"`
	OrderID     int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(18,2);not null" json:"total_price"`
	LoadDate    time.Time       `gorm:"column:load_date;not null" json:"load_date"`
}

func (Sales) TableName() string { return "fact_sales" }

type SkipReason string

const (
	SkipNoOrder         SkipReason = "no-order"
	SkipNoCustomer      SkipReason = "no-customer"
	SkipNoProduct       SkipReason = "no-product"
	SkipNoTime          SkipReason = "no-time"
	SkipNoStatus        SkipReason = "no-status"
	SkipInvalidQuantity SkipReason = "invalid-quantity"
)

// SkipReasons lists every reason in evaluation order.
var SkipReasons = []SkipReason{
	SkipNoOrder,
	SkipNoCustomer,
	SkipNoProduct,
	SkipNoTime,
	SkipNoStatus,
	SkipInvalidQuantity,
}

// DateKeyLayout formats the calendar lookup key of a snapshot.
const DateKeyLayout = "2006-01-02"

// Snapshot holds the dimension lookups a transform resolves against. It is
// taken once per load and never refreshed.
type Snapshot struct {
	Customers map[int64]snowflake.ID
	Products  map[int64]dimensiondomain.CurrentProduct
	Calendar  map[string]int
	Statuses  map[string]int64
}

// OrderHeader is the collapsed view of a staged order.
type OrderHeader struct {
	CustomerID int64
	OrderDate  time.Time
	Status     string
}

// TransformResult accounts for every detail a transform processed.
type TransformResult struct {
	Processed int                `json:"processed"`
	Emitted   int                `json:"emitted"`
	Skips     map[SkipReason]int `json:"skips"`
}

// Skipped returns the total of every skip category.
func (r TransformResult) Skipped() int {
	total := 0
	for _, n := range r.Skips {
		total += n
	}
	return total
}

type LoadResult struct {
	RowsLoaded int                `json:"rows_loaded"`
	Processed  int                `json:"processed"`
	Skips      map[SkipReason]int `json:"skips"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
}
