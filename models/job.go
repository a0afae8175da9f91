package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job is one installation or service visit for a customer. Status is only
// written by the phase completion path; TotalCost is frozen at creation.
type Job struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	JobType    JobType   `gorm:"type:varchar(20);index;not null" json:"jobType"`
	StartDate  time.Time `gorm:"type:date" json:"startDate"`
	Technician string    `gorm:"index" json:"technician"`

	Status        JobStatus     `gorm:"type:varchar(20);not null;default:'Ongoing'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"paymentStatus"`

	CopperPipingCost   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"copperPipingCost"`
	OutdoorFittingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"outdoorFittingCost"`
	CommissioningCost  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"commissioningCost"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalCost"`

	Phases   []JobPhase `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Payments []Payment  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// MilestoneAmount is the cost billed when the given milestone phase completes
func (j *Job) MilestoneAmount(m Milestone) decimal.Decimal {
	switch m {
	case MilestoneCopperPiping:
		return j.CopperPipingCost
	case MilestoneOutdoorFitting:
		return j.OutdoorFittingCost
	case MilestoneCommissioning:
		return j.CommissioningCost
	}
	return decimal.Zero
}
