package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hvacops-backend/models"
)

func TestStatsByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := env.installationJob(t, "tech@satguru.test")
	env.installationJob(t, "other@satguru.test")
	require.NoError(t, env.db.Model(&models.Job{}).Where("id = ?", mine.ID).
		Update("status", models.JobStatusCompleted).Error)
	_, err := env.payments.Record(ctx, adminCaller, mine.ID, RecordPaymentInput{Amount: dec(3000)})
	require.NoError(t, err)

	svc := NewStatsService(env.db)

	techStats, err := svc.For(ctx, technician("Tech@Satguru.test"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), techStats.TotalJobs)
	assert.Equal(t, int64(1), techStats.CompletedJobs)
	assert.Nil(t, techStats.Customers)
	assert.Nil(t, techStats.OutstandingBalance)

	adminStats, err := svc.For(ctx, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, int64(2), adminStats.TotalJobs)
	assert.Equal(t, int64(1), adminStats.ActiveJobs)
	require.NotNil(t, adminStats.Customers)
	assert.Equal(t, int64(2), *adminStats.Customers)
	assert.True(t, adminStats.OutstandingBalance.Equal(dec(4000)), adminStats.OutstandingBalance.String())
}

func TestExportJobsWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")

	export := NewExportService(env.jobs)
	var buf bytes.Buffer
	assert.ErrorIs(t, export.WriteJobs(ctx, technician("tech@satguru.test"), &buf), ErrForbidden)

	require.NoError(t, export.WriteJobs(ctx, adminCaller, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, job.ID.String(), rows[1][0])
	assert.Equal(t, "Asha Mehta", rows[1][1])
	assert.Equal(t, "Drain pipe", rows[1][6])
	assert.Equal(t, "3500", rows[1][8])
}
