package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer is one extracted customer record. Several rows may share a
// CustomerID when the source is re-extracted.
type Customer struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID int64        `gorm:"column:customer_id;not null;index" json:"customer_id"`
	FirstName  *string      `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName   *string      `gorm:"column:last_name" json:"last_name,omitempty"`
	Email      *string      `gorm:"column:email" json:"email,omitempty"`
	Phone      *string      `gorm:"column:phone" json:"phone,omitempty"`
	City       *string      `gorm:"column:city" json:"city,omitempty"`
	Country    *string      `gorm:"column:country" json:"country,omitempty"`
	LoadDate   time.Time    `gorm:"column:load_date;not null" json:"load_date"`
}

func (Customer) TableName() string { return "stg_customers" }

type Product struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	ProductID   int64           `gorm:"column:product_id;not null;index" json:"product_id"`
	ProductName *string         `gorm:"column:product_name" json:"product_name,omitempty"`
	Category    *string         `gorm:"column:category" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	LoadDate    time.Time       `gorm:"column:load_date;not null" json:"load_date"`
}

func (Product) TableName() string { return "stg_products" }

type Order struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID    int64        `gorm:"column:order_id;not null;index" json:"order_id"`
	CustomerID int64        `gorm:"column:customer_id;not null" json:"customer_id"`
	OrderDate  time.Time    `gorm:"column:order_date;type:date;not null" json:"order_date"`
	Status     string       `gorm:"column:status;not null;default:''" json:"status"`
	LoadDate   time.Time    `gorm:"column:load_date;not null" json:"load_date"`
}

func (Order) TableName() string { return "stg_orders" }

// OrderDetail is one order line. TotalPrice is the transactional amount as
// recorded by the source; facts price lines from the product dimension instead.
type OrderDetail struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderID    int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID  int64           `gorm:"column:product_id;not null" json:"product_id"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(18,2);not null" json:"total_price"`
	LoadDate   time.Time       `gorm:"column:load_date;not null" json:"load_date"`
}

func (OrderDetail) TableName() string { return "stg_order_details" }
