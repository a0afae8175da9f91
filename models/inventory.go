package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ModelName    string          `gorm:"not null;index" json:"modelName"`
	Brand        Brand           `gorm:"type:varchar(20);not null;index" json:"brand"`
	Type         string          `gorm:"type:varchar(50)" json:"type"`
	Tonnage      string          `gorm:"type:varchar(50)" json:"tonnage"`
	StarRating   string          `gorm:"type:varchar(50)" json:"starRating"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	SoldQuantity int             `gorm:"not null;default:0" json:"soldQuantity"`
	OurPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"ourPrice"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"salePrice"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Available is stock on hand that has not been sold
func (i *InventoryItem) Available() int {
	return i.Quantity - i.SoldQuantity
}

type StockReason string

const (
	StockCreated StockReason = "created"
	StockUpdated StockReason = "updated"
	StockDeleted StockReason = "deleted"
)

// StockMovement is the append-only history of inventory level changes.
// Rows outlive the item they describe.
type StockMovement struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"itemId"`
	ModelName     string         `json:"modelName"`
	Reason        StockReason    `gorm:"type:varchar(20);not null" json:"reason"`
	QuantityDelta int            `json:"quantityDelta"`
	SoldDelta     int            `json:"soldDelta"`
	Quantity      int            `json:"quantity"`
	SoldQuantity  int            `json:"soldQuantity"`
	Changes       datatypes.JSON `json:"changes,omitempty"`
	RecordedBy    string         `json:"recordedBy"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
