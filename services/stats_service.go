package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hvacops-backend/models"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Stats are dashboard counters. Admin-only fields stay nil for technicians.
type Stats struct {
	TotalJobs          int64            `json:"totalJobs"`
	ActiveJobs         int64            `json:"activeJobs"`
	CompletedJobs      int64            `json:"completedJobs"`
	Customers          *int64           `json:"customers,omitempty"`
	OutstandingBalance *decimal.Decimal `json:"outstandingBalance,omitempty"`
}

type jobTotals struct {
	TotalCost decimal.Decimal
	TotalPaid decimal.Decimal
}

func (s *StatsService) For(ctx context.Context, caller Caller) (*Stats, error) {
	if !caller.IsAdmin() && !caller.IsTechnician() {
		return nil, forbidden("unknown role")
	}
	db := s.db.WithContext(ctx)

	scope := func() *gorm.DB {
		q := db.Model(&models.Job{})
		if caller.IsTechnician() {
			q = q.Where("LOWER(technician) = ?", caller.Email)
		}
		return q
	}

	var stats Stats
	if err := scope().Where("status = ?", models.JobStatusOngoing).Count(&stats.ActiveJobs).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", models.JobStatusCompleted).Count(&stats.CompletedJobs).Error; err != nil {
		return nil, err
	}
	stats.TotalJobs = stats.ActiveJobs + stats.CompletedJobs

	if !caller.IsAdmin() {
		return &stats, nil
	}

	var customers int64
	if err := db.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		return nil, err
	}

	var rows []jobTotals
	err := db.Table("jobs").
		Select("jobs.total_cost, (SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.job_id = jobs.id) AS total_paid").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	outstanding := decimal.Zero
	for _, r := range rows {
		outstanding = outstanding.Add(balance(r.TotalCost, r.TotalPaid))
	}

	stats.Customers = &customers
	stats.OutstandingBalance = &outstanding
	return &stats, nil
}
