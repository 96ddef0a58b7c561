package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// OpenValidTo marks a version that has not been superseded.
var OpenValidTo = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

const (
	DimensionCustomer = "customer"
	DimensionProduct  = "product"
)

// Customer is one SCD2 version of a customer. Versions are appended; the only
// mutation a version ever sees is its closure.
type Customer struct {
	CustomerKey snowflake.ID `gorm:"column:customer_key;primaryKey" json:"customer_key"`
	CustomerID  int64        `gorm:"column:customer_id;not null;index:idx_dim_customer_current,priority:1" json:"customer_id"`
	FirstName   *string      `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName    *string      `gorm:"column:last_name" json:"last_name,omitempty"`
	Email       *string      `gorm:"column:email" json:"email,omitempty"`
	Phone       *string      `gorm:"column:phone" json:"phone,omitempty"`
	City        *string      `gorm:"column:city" json:"city,omitempty"`
	Country     *string      `gorm:"column:country" json:"country,omitempty"`
	ValidFrom   time.Time    `gorm:"column:valid_from;type:date;not null" json:"valid_from"`
	ValidTo     time.Time    `gorm:"column:valid_to;type:date;not null;index:idx_dim_customer_current,priority:2" json:"valid_to"`
	IsCurrent   bool         `gorm:"column:is_current;not null" json:"is_current"`
}

func (Customer) TableName() string { return "dim_customer" }

type Product struct {
	ProductKey  snowflake.ID    `gorm:"column:product_key;primaryKey" json:"product_key"`
	ProductID   int64           `gorm:"column:product_id;not null;index:idx_dim_product_current,priority:1" json:"product_id"`
	ProductName *string         `gorm:"column:product_name" json:"product_name,omitempty"`
	Category    *string         `gorm:"column:category" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null" json:"price"`
	ValidFrom   time.Time       `gorm:"column:valid_from;type:date;not null" json:"valid_from"`
	ValidTo     time.Time       `gorm:"column:valid_to;type:date;not null;index:idx_dim_product_current,priority:2" json:"valid_to"`
	IsCurrent   bool            `gorm:"column:is_current;not null" json:"is_current"`
}

func (Product) TableName() string { return "dim_product" }

// CurrentProduct is the slice of a current product version the fact engine joins on.
type CurrentProduct struct {
	ProductKey snowflake.ID
	Price      decimal.Decimal
}

// MergeResult reports one SCD2 merge pass.
type MergeResult struct {
	Dimension string `json:"dimension"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
