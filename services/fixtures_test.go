package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hvacops-backend/config"
	"hvacops-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var (
	adminCaller      = Caller{UserID: uuid.New(), Email: "admin@satguru.test", Role: models.RoleAdmin}
	superAdminCaller = Caller{UserID: uuid.New(), Email: "root@satguru.test", Role: models.RoleSuperAdmin}
)

func technician(email string) Caller {
	return NewCaller(uuid.New(), email, "technician")
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

type testEnv struct {
	db       *gorm.DB
	notifier *recordingNotifier
	jobs     *JobService
	phases   *PhaseService
	payments *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	log := quietLogger()
	n := &recordingNotifier{}
	return &testEnv{
		db:       db,
		notifier: n,
		jobs:     NewJobService(db, log),
		phases:   NewPhaseService(db, n, log),
		payments: NewPaymentService(db, log),
	}
}

func (e *testEnv) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c := models.Customer{Name: name, Email: "customer@example.com", Phone: "+919876543210"}
	require.NoError(t, e.db.Create(&c).Error)
	return &c
}

func (e *testEnv) installationJob(t *testing.T, technician string) *models.Job {
	t.Helper()
	c := e.customer(t, "Asha Mehta")
	job, err := e.jobs.Create(context.Background(), CreateJobInput{
		CustomerID: c.ID,
		JobType:    models.JobTypeInstallation,
		Technician: technician,
		Costs: CostBreakdown{
			CopperPiping:   decimal.NewFromInt(1000),
			OutdoorFitting: decimal.NewFromInt(2000),
			Commissioning:  decimal.NewFromInt(500),
		},
	})
	require.NoError(t, err)
	return job
}

func (e *testEnv) phasesOf(t *testing.T, jobID uuid.UUID) []models.JobPhase {
	t.Helper()
	var phases []models.JobPhase
	require.NoError(t, e.db.Where("job_id = ?", jobID).Order("phase_order ASC").Find(&phases).Error)
	return phases
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
