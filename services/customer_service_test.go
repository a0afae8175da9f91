package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacops-backend/models"
)

func TestCustomerCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db, quietLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, CustomerInput{Name: "Asha", Email: "x@example.com", Phone: "abc"})
	assert.ErrorIs(t, err, ErrValidation)

	drawing := "uploads/drawing-1.pdf"
	c, err := svc.Create(ctx, CustomerInput{
		Name:       "Asha Mehta",
		Email:      " Asha@Example.com ",
		Phone:      "+91 98765 43210",
		DrawingURL: &drawing,
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", c.Email)
	require.NotNil(t, c.DrawingURL)

	_, err = svc.Create(ctx, CustomerInput{Name: "Ravi Kumar", Email: "ravi@example.com"})
	require.NoError(t, err)

	found, err := svc.List(ctx, "ASHA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, c.ID, found[0].ID)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	address := "12 MG Road"
	updated, err := svc.Update(ctx, c.ID, CustomerPatch{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, address, updated.Address)
	assert.Equal(t, "Asha Mehta", updated.Name)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	job := env.installationJob(t, "tech@satguru.test")
	_, err := env.payments.Record(ctx, adminCaller, job.ID, RecordPaymentInput{Amount: dec(500)})
	require.NoError(t, err)

	svc := NewCustomerService(env.db, quietLogger())
	require.NoError(t, svc.Delete(ctx, job.CustomerID))
	assert.ErrorIs(t, svc.Delete(ctx, job.CustomerID), ErrNotFound)

	for _, model := range []any{&models.Job{}, &models.JobPhase{}, &models.Payment{}} {
		var n int64
		require.NoError(t, env.db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
}
