// services/reminder_service.go
package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hvacops-backend/models"
)

// ReminderService nudges customers about balances left on completed jobs
type ReminderService struct {
	db       *gorm.DB
	notifier Notifier
	log      *logrus.Logger
	cron     *cron.Cron
}

func NewReminderService(db *gorm.DB, notifier Notifier, log *logrus.Logger) *ReminderService {
	return &ReminderService{db: db, notifier: notifier, log: log}
}

// StartScheduler runs SendBalanceReminders on the given cron schedule
func (s *ReminderService) StartScheduler(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.SendBalanceReminders(context.Background()); err != nil {
			s.log.WithError(err).Error("balance reminder run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.log.WithField("schedule", schedule).Info("Reminder scheduler started")
	return nil
}

// Stop waits for a running reminder pass to finish
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

type outstandingJob struct {
	models.Job
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	TotalPaid     decimal.Decimal
}

// SendBalanceReminders queues one reminder per completed job with money still
// owed on the ledger and returns how many were queued.
func (s *ReminderService) SendBalanceReminders(ctx context.Context) (int, error) {
	var rows []outstandingJob
	err := s.db.WithContext(ctx).Table("jobs").
		Select(`jobs.*, customers.name AS customer_name, customers.email AS customer_email,
			customers.phone AS customer_phone,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.job_id = jobs.id) AS total_paid`).
		Joins("JOIN customers ON customers.id = jobs.customer_id").
		Where("jobs.status = ?", models.JobStatusCompleted).
		Order("jobs.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range rows {
		due := balance(r.TotalCost, r.TotalPaid)
		if !due.IsPositive() {
			continue
		}
		s.notifier.Notify(Notification{
			Kind:          KindBalanceReminder,
			JobID:         r.ID,
			JobType:       r.JobType,
			Technician:    r.Technician,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			CustomerPhone: r.CustomerPhone,
			PaymentStatus: r.PaymentStatus,
			AmountDue:     due,
		})
		sent++
	}

	s.log.WithFields(logrus.Fields{"checked": len(rows), "queued": sent}).Info("Balance reminder processing completed")
	return sent, nil
}
