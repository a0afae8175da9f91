package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobPhase is one checklist step of a job. PhaseName is copied from the
// template when the job is created and never re-synced.
type JobPhase struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_job_phase_order,priority:1" json:"jobId"`
	PhaseName   string     `gorm:"not null" json:"phaseName"`
	Order       int        `gorm:"column:phase_order;not null;uniqueIndex:idx_job_phase_order,priority:2" json:"order"`
	IsCompleted bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (p *JobPhase) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// SetCompleted moves the phase between its two states and reports whether
// anything changed. Completing an already completed phase keeps the original
// CompletedAt. Reverting clears it; nothing exposes that path yet.
func (p *JobPhase) SetCompleted(completed bool, now time.Time) bool {
	if completed == p.IsCompleted {
		return false
	}
	p.IsCompleted = completed
	if completed {
		at := now
		p.CompletedAt = &at
	} else {
		p.CompletedAt = nil
	}
	return true
}

// CurrentPhase returns the name of the lowest-order incomplete phase, or nil
// when every phase is done. phases need not be sorted.
func CurrentPhase(phases []JobPhase) *string {
	var current *JobPhase
	for i := range phases {
		p := &phases[i]
		if p.IsCompleted {
			continue
		}
		if current == nil || p.Order < current.Order {
			current = p
		}
	}
	if current == nil {
		return nil
	}
	name := current.PhaseName
	return &name
}

// BuildPhases instantiates the template for a job type, 1-based and dense.
func BuildPhases(jobID uuid.UUID, t JobType) []JobPhase {
	names := TemplateFor(t)
	phases := make([]JobPhase, len(names))
	for i, name := range names {
		phases[i] = JobPhase{
			ID:        uuid.New(),
			JobID:     jobID,
			PhaseName: name,
			Order:     i + 1,
		}
	}
	return phases
}
