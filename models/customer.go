package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string  `gorm:"not null;index" json:"name"`
	Email        string  `gorm:"not null" json:"email"`
	Phone        string  `json:"phone"`
	Address      string  `gorm:"type:text" json:"address"`
	DrawingURL   *string `json:"drawingUrl"`
	QuotationURL *string `json:"quotationUrl"`

	Jobs []Job `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
