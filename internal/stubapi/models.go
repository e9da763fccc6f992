package stubapi

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	statusCreated   = "created"
	statusPaid      = "paid"
	statusCancelled = "cancelled"
)

type orderRow struct {
	ID              string          `gorm:"type:varchar(36);primaryKey"`
	OrderNumber     string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	Owner           string          `gorm:"type:varchar(255)"`
	Items           datatypes.JSON  `gorm:"not null"`
	ShippingAddress datatypes.JSON  `gorm:"not null"`
	PaymentMethod   string          `gorm:"type:varchar(16);not null"`
	ItemsPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(16);not null"`
	IsPaid          bool            `gorm:"not null"`
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (orderRow) TableName() string { return "stub_orders" }

type sessionRow struct {
	ID            string          `gorm:"type:varchar(64);primaryKey"`
	OrderID       string          `gorm:"type:varchar(36);index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"type:varchar(8);not null"`
	Status        string          `gorm:"type:varchar(16);not null"`
	PaymentStatus string          `gorm:"type:varchar(16);not null"`
	SuccessURL    string          `gorm:"type:varchar(512)"`
	CancelURL     string          `gorm:"type:varchar(512)"`
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (sessionRow) TableName() string { return "stub_payment_sessions" }

// orderEvent records every order status change.
type orderEvent struct {
	ID         string `gorm:"type:varchar(36);primaryKey"`
	OrderID    string `gorm:"type:varchar(36);index;not null"`
	Action     string `gorm:"type:varchar(16);not null"`
	FromStatus string `gorm:"type:varchar(16);not null"`
	ToStatus   string `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time
}

func (orderEvent) TableName() string { return "stub_order_events" }
