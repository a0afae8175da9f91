package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hvacops-backend/models"
)

// PaymentService is the append-only ledger of money received against jobs
type PaymentService struct {
	db  *gorm.DB
	log *logrus.Logger
	now func() time.Time
}

func NewPaymentService(db *gorm.DB, log *logrus.Logger) *PaymentService {
	return &PaymentService{db: db, log: log, now: time.Now}
}

type RecordPaymentInput struct {
	Amount decimal.Decimal
	Method models.PaymentMethod
	Notes  string
}

// Record appends a payment. It never touches the job's manual payment status.
func (s *PaymentService) Record(ctx context.Context, caller Caller, jobID uuid.UUID, in RecordPaymentInput) (*models.Payment, error) {
	if err := authorizeFinances(caller, "record payments"); err != nil {
		return nil, err
	}

	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if in.Method == "" {
		in.Method = models.PaymentMethodTransfer
	}
	if !in.Method.Valid() {
		return nil, validationError("invalid paymentMethod %q", in.Method)
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Job{}, "id = ?", jobID).Error; err != nil {
		return nil, notFound("job", err)
	}

	payment := models.Payment{
		JobID:         jobID,
		Amount:        amount,
		PaymentMethod: in.Method,
		Notes:         in.Notes,
		RecordedBy:    caller.Email,
		CreatedAt:     s.now(),
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"job_id":      jobID,
		"amount":      amount.StringFixed(2),
		"method":      in.Method,
		"recorded_by": caller.Email,
	}).Info("payment recorded")
	return &payment, nil
}

// List returns a job's payments, newest first
func (s *PaymentService) List(ctx context.Context, caller Caller, jobID uuid.UUID) ([]models.Payment, error) {
	if err := authorizeFinances(caller, "view payments"); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Job{}, "id = ?", jobID).Error; err != nil {
		return nil, notFound("job", err)
	}

	var payments []models.Payment
	if err := db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// TotalPaid sums every payment recorded against the job
func (s *PaymentService) TotalPaid(ctx context.Context, jobID uuid.UUID) (decimal.Decimal, error) {
	return totalPaid(s.db.WithContext(ctx), jobID)
}

// BalanceFor is max(0, totalCost - totalPaid)
func (s *PaymentService) BalanceFor(ctx context.Context, jobID uuid.UUID) (decimal.Decimal, error) {
	db := s.db.WithContext(ctx)

	var job models.Job
	if err := db.Select("id", "total_cost").First(&job, "id = ?", jobID).Error; err != nil {
		return decimal.Zero, notFound("job", err)
	}
	paid, err := totalPaid(db, jobID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance(job.TotalCost, paid), nil
}
