package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an append-only ledger entry against a job
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"jobId"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:'Transfer'" json:"paymentMethod"`
	Notes         string          `gorm:"type:text" json:"notes"`
	RecordedBy    string          `json:"recordedBy"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
