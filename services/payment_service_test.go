package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacops-backend/models"
)

func TestBalanceNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	_, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(1500)})
	require.NoError(t, err)
	_, err = env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(2000)})
	require.NoError(t, err)

	due, err := env.payments.BalanceFor(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, due.IsZero())

	// overpayment still reports zero
	_, err = env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(250)})
	require.NoError(t, err)
	due, err = env.payments.BalanceFor(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, due.IsZero())

	paid, err := env.payments.TotalPaid(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, paid.Equal(dec(3750)))
}

func TestBalanceFollowsLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	due, err := env.payments.BalanceFor(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, due.Equal(dec(3500)))

	_, err = env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: decimal.RequireFromString("999.50")})
	require.NoError(t, err)
	due, err = env.payments.BalanceFor(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, due.Equal(decimal.RequireFromString("2500.50")), due.String())

	_, err = env.payments.BalanceFor(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordPaymentAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	_, err := env.payments.Record(ctx, technician("tech@satguru.test"), job.ID, RecordPaymentInput{Amount: dec(100)})
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(100)})
	require.NoError(t, err)
	assert.Equal(t, adminCaller.Email, p.RecordedBy)
	assert.Equal(t, models.PaymentMethodTransfer, p.PaymentMethod)

	_, err = env.payments.Record(ctx, superAdminCaller, job.ID, RecordPaymentInput{Amount: dec(100), Method: models.PaymentMethodCash})
	assert.NoError(t, err)

	_, err = env.payments.List(ctx, technician("tech@satguru.test"), job.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRecordPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	for _, amount := range []decimal.Decimal{dec(0), dec(-10), decimal.RequireFromString("0.001")} {
		_, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: amount})
		assert.ErrorIs(t, err, ErrValidation, amount.String())
	}

	_, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(10), Method: "Cheque"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.payments.Record(ctx, adminCaller, uuid.New(), RecordPaymentInput{Amount: dec(10)})
	assert.ErrorIs(t, err, ErrNotFound)

	// recording money leaves the manual status alone
	var stored models.Job
	require.NoError(t, env.db.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestListPaymentsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, amount := range []int64{100, 200, 300} {
		at := base.Add(time.Duration(i) * time.Hour)
		env.payments.now = func() time.Time { return at }
		_, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(amount)})
		require.NoError(t, err)
	}

	payments, err := env.payments.List(ctx, adminCaller, job.ID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.True(t, payments[0].Amount.Equal(dec(300)))
	assert.True(t, payments[2].Amount.Equal(dec(100)))
}
