package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hvacops-backend/models"
	"hvacops-backend/utils"
)

// JobService creates jobs with their phase checklist and serves role-scoped reads
type JobService struct {
	db  *gorm.DB
	log *logrus.Logger
	now func() time.Time
}

func NewJobService(db *gorm.DB, log *logrus.Logger) *JobService {
	return &JobService{db: db, log: log, now: time.Now}
}

type CostBreakdown struct {
	CopperPiping   decimal.Decimal
	OutdoorFitting decimal.Decimal
	Commissioning  decimal.Decimal
}

type CreateJobInput struct {
	CustomerID    uuid.UUID
	JobType       models.JobType
	Technician    string
	StartDate     time.Time
	PaymentStatus models.PaymentStatus
	Costs         CostBreakdown
}

// JobDetail is the job view plus its phases in order
type JobDetail struct {
	Job    JobView           `json:"job"`
	Phases []models.JobPhase `json:"phases"`
}

// Create persists the job and its full phase set in one transaction
func (s *JobService) Create(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	if !in.JobType.Valid() {
		return nil, validationError("invalid jobType %q", in.JobType)
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	if !in.PaymentStatus.Valid() {
		return nil, validationError("invalid paymentStatus %q", in.PaymentStatus)
	}

	costs := in.Costs
	if in.JobType == models.JobTypeService {
		// only the final-phase charge applies to service visits
		costs.CopperPiping = decimal.Zero
		costs.OutdoorFitting = decimal.Zero
	}
	for _, c := range []decimal.Decimal{costs.CopperPiping, costs.OutdoorFitting, costs.Commissioning} {
		if c.IsNegative() {
			return nil, validationError("costs cannot be negative")
		}
	}

	startDate := in.StartDate
	if startDate.IsZero() {
		startDate = s.now()
	}

	job := models.Job{
		ID:                 uuid.New(),
		CustomerID:         in.CustomerID,
		JobType:            in.JobType,
		StartDate:          startDate,
		Technician:         utils.NormalizeEmail(in.Technician),
		Status:             models.JobStatusOngoing,
		PaymentStatus:      in.PaymentStatus,
		CopperPipingCost:   costs.CopperPiping.Round(2),
		OutdoorFittingCost: costs.OutdoorFitting.Round(2),
		CommissioningCost:  costs.Commissioning.Round(2),
	}
	job.TotalCost = job.CopperPipingCost.Add(job.OutdoorFittingCost).Add(job.CommissioningCost)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Customer{}, "id = ?", in.CustomerID).Error; err != nil {
			return notFound("customer", err)
		}
		if err := tx.Omit(clause.Associations).Create(&job).Error; err != nil {
			return err
		}
		phases := models.BuildPhases(job.ID, job.JobType)
		if err := tx.Create(&phases).Error; err != nil {
			return err
		}
		job.Phases = phases
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"phases":   len(job.Phases),
	}).Info("job created")
	return &job, nil
}

// Get returns the job detail the caller may see. Technicians get a
// forbidden error, not a not-found, for jobs assigned to someone else.
func (s *JobService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*JobDetail, error) {
	db := s.db.WithContext(ctx)

	var job models.Job
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound("job", err)
	}
	if err := authorizeJob(caller, &job); err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := db.First(&customer, "id = ?", job.CustomerID).Error; err != nil {
		return nil, notFound("customer", err)
	}

	var phases []models.JobPhase
	if err := db.Where("job_id = ?", id).Order("phase_order ASC").Find(&phases).Error; err != nil {
		return nil, err
	}

	var completed int64
	for _, p := range phases {
		if p.IsCompleted {
			completed++
		}
	}
	if derived := models.StatusFor(int64(len(phases)), completed); derived != job.Status {
		s.log.WithFields(logrus.Fields{"job_id": job.ID, "stored": job.Status, "derived": derived}).
			Warn("stored job status disagrees with phases")
		job.Status = derived
	}

	paid := decimal.Zero
	if caller.IsAdmin() {
		var err error
		if paid, err = totalPaid(db, job.ID); err != nil {
			return nil, err
		}
	}

	return &JobDetail{
		Job:    projectJob(caller, &job, &customer, models.CurrentPhase(phases), paid),
		Phases: phases,
	}, nil
}

type jobRow struct {
	models.Job
	CustomerName string
	TotalPaid    decimal.Decimal
	CurrentPhase *string
}

// List returns jobs newest first. Technicians only see jobs assigned to them.
func (s *JobService) List(ctx context.Context, caller Caller, search string) ([]JobView, error) {
	if !caller.IsAdmin() && !caller.IsTechnician() {
		return nil, forbidden("unknown role")
	}

	q := s.db.WithContext(ctx).Table("jobs").
		Select(`jobs.*, customers.name AS customer_name,
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.job_id = jobs.id) AS total_paid,
			(SELECT jp.phase_name FROM job_phases jp WHERE jp.job_id = jobs.id AND jp.is_completed = ?
				ORDER BY jp.phase_order ASC LIMIT 1) AS current_phase`, false).
		Joins("JOIN customers ON customers.id = jobs.customer_id")

	if caller.IsTechnician() {
		q = q.Where("LOWER(jobs.technician) = ?", caller.Email)
	}
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(customers.name) LIKE ? OR LOWER(jobs.technician) LIKE ? OR LOWER(jobs.job_type) LIKE ?)", term, term, term)
	}

	var rows []jobRow
	if err := q.Order("jobs.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]JobView, len(rows))
	for i := range rows {
		r := &rows[i]
		customer := models.Customer{ID: r.CustomerID, Name: r.CustomerName}
		views[i] = projectJob(caller, &r.Job, &customer, r.CurrentPhase, r.TotalPaid)
	}
	return views, nil
}

// DeriveCurrentPhase recomputes the first incomplete phase by order
func (s *JobService) DeriveCurrentPhase(ctx context.Context, jobID uuid.UUID) (*string, error) {
	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Job{}, "id = ?", jobID).Error; err != nil {
		return nil, notFound("job", err)
	}
	return currentPhase(db, jobID)
}

// DeriveStatus recomputes the job status from its phases
func (s *JobService) DeriveStatus(ctx context.Context, jobID uuid.UUID) (models.JobStatus, error) {
	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Job{}, "id = ?", jobID).Error; err != nil {
		return "", notFound("job", err)
	}
	total, completed, err := phaseCounts(db, jobID)
	if err != nil {
		return "", err
	}
	return models.StatusFor(total, completed), nil
}

// UpdatePaymentStatus overwrites the manual payment status. It is not checked
// against the payment ledger.
func (s *JobService) UpdatePaymentStatus(ctx context.Context, caller Caller, id uuid.UUID, status models.PaymentStatus) error {
	if err := authorizeFinances(caller, "update payment status"); err != nil {
		return err
	}
	if !status.Valid() {
		return validationError("invalid paymentStatus %q", status)
	}

	res := s.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("job", gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a job with its phases and payments
func (s *JobService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return forbidden("Only admins can delete jobs.")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Job{}, "id = ?", id).Error; err != nil {
			return notFound("job", err)
		}
		return deleteJobs(tx, []uuid.UUID{id})
	})
}

func deleteJobs(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("job_id IN ?", ids).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id IN ?", ids).Delete(&models.JobPhase{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Job{}).Error
}

func phaseCounts(tx *gorm.DB, jobID uuid.UUID) (total, completed int64, err error) {
	if err = tx.Model(&models.JobPhase{}).Where("job_id = ?", jobID).Count(&total).Error; err != nil {
		return
	}
	err = tx.Model(&models.JobPhase{}).Where("job_id = ? AND is_completed = ?", jobID, true).Count(&completed).Error
	return
}

func currentPhase(tx *gorm.DB, jobID uuid.UUID) (*string, error) {
	var phase models.JobPhase
	err := tx.Where("job_id = ? AND is_completed = ?", jobID, false).Order("phase_order ASC").Take(&phase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &phase.PhaseName, nil
}

func totalPaid(tx *gorm.DB, jobID uuid.UUID) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := tx.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Where("job_id = ?", jobID).Row().Scan(&paid)
	return paid, err
}
