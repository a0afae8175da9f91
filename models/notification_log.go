// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationLog records one delivery attempt on one channel
type NotificationLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"jobId"`
	Kind         string         `gorm:"type:varchar(30)" json:"kind"`    // phase_progress, payment_request, ...
	Channel      string         `gorm:"type:varchar(20)" json:"channel"` // email, sms, log
	Recipient    string         `json:"recipient"`
	Subject      string         `json:"subject"`
	Status       string         `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string         `gorm:"type:text" json:"errorMessage,omitempty"`
	Payload      datatypes.JSON `json:"payload"`
	SentAt       time.Time      `gorm:"index" json:"sentAt"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
