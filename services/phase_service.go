package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hvacops-backend/models"
)

// PhaseService marks phases complete and keeps the job status in step with them
type PhaseService struct {
	db       *gorm.DB
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewPhaseService(db *gorm.DB, notifier Notifier, log *logrus.Logger) *PhaseService {
	return &PhaseService{db: db, notifier: notifier, log: log, now: time.Now}
}

type CompletionResult struct {
	JobID        uuid.UUID        `json:"jobId"`
	JobStatus    models.JobStatus `json:"jobStatus"`
	CurrentPhase *string          `json:"currentPhase"`
}

// CompletePhase marks one phase done, recomputes the job status from a fresh
// count of its phases and queues a customer notification after commit.
// Completing an already completed phase keeps its completedAt and sends
// nothing.
func (s *PhaseService) CompletePhase(ctx context.Context, caller Caller, phaseID uuid.UUID) (*CompletionResult, error) {
	var (
		result CompletionResult
		note   *Notification
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// completions on the same job serialize on this lock; the phase row
		// itself is only read once the caller may touch the job
		var job models.Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "jobs"}}).
			Joins("JOIN job_phases ON job_phases.job_id = jobs.id").
			Where("job_phases.id = ?", phaseID).
			First(&job).Error
		if err != nil {
			return notFound("phase", err)
		}
		if err := authorizeJob(caller, &job); err != nil {
			return err
		}

		var phase models.JobPhase
		if err := tx.First(&phase, "id = ? AND job_id = ?", phaseID, job.ID).Error; err != nil {
			return notFound("phase", err)
		}
		changed := phase.SetCompleted(true, s.now())
		if changed {
			if err := savePhaseState(tx, &phase); err != nil {
				return err
			}
		}

		total, completed, err := phaseCounts(tx, job.ID)
		if err != nil {
			return err
		}
		status := models.StatusFor(total, completed)
		if err := tx.Model(&models.Job{}).Where("id = ?", job.ID).Update("status", status).Error; err != nil {
			return err
		}

		current, err := currentPhase(tx, job.ID)
		if err != nil {
			return err
		}
		result = CompletionResult{JobID: job.ID, JobStatus: status, CurrentPhase: current}

		if !changed {
			return nil
		}
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", job.CustomerID).Error; err != nil {
			return notFound("customer", err)
		}
		job.Status = status
		n := phaseNotification(&job, &customer, phase.PhaseName, status == models.JobStatusCompleted)
		note = &n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if note != nil {
		s.log.WithFields(logrus.Fields{
			"job_id": result.JobID,
			"phase":  note.PhaseName,
			"kind":   note.Kind,
			"status": result.JobStatus,
		}).Info("phase completed")
		s.notifier.Notify(*note)
	}
	return &result, nil
}

func savePhaseState(tx *gorm.DB, phase *models.JobPhase) error {
	return tx.Model(&models.JobPhase{}).Where("id = ?", phase.ID).Updates(map[string]any{
		"is_completed": phase.IsCompleted,
		"completed_at": phase.CompletedAt,
	}).Error
}
