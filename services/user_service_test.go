package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacops-backend/models"
	"hvacops-backend/utils"
)

func TestUserLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, quietLogger(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Create(ctx, "tech@satguru.test", "secret1", "owner")
	assert.ErrorIs(t, err, ErrValidation)

	tech, err := svc.Create(ctx, "Tech@Satguru.test", "secret1", "TECHNICIAN")
	require.NoError(t, err)
	assert.Equal(t, "tech@satguru.test", tech.Email)
	assert.Equal(t, models.RoleTechnician, tech.Role)

	_, err = svc.Create(ctx, "TECH@satguru.test", "secret2", "admin")
	assert.ErrorIs(t, err, ErrConflict)

	token, user, err := svc.Login(ctx, "  TECH@satguru.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, tech.ID, user.ID)
	assert.NotNil(t, user.LastLogin)

	claims, err := utils.ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "technician", claims.Role)
	assert.Equal(t, tech.ID.String(), claims.ID)

	_, _, err = svc.Login(ctx, "tech@satguru.test", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Login(ctx, "nobody@satguru.test", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	emails, err := svc.Technicians(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tech@satguru.test"}, emails)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, quietLogger(), "test-secret", time.Hour)
	ctx := context.Background()

	root, err := svc.Create(ctx, "root@satguru.test", "secret1", "superadmin")
	require.NoError(t, err)
	other, err := svc.Create(ctx, "admin@satguru.test", "secret1", "admin")
	require.NoError(t, err)

	self := Caller{UserID: root.ID, Email: root.Email, Role: models.RoleSuperAdmin}
	assert.ErrorIs(t, svc.Delete(ctx, self, root.ID), ErrValidation)

	require.NoError(t, svc.Delete(ctx, self, other.ID))
	assert.ErrorIs(t, svc.Delete(ctx, self, other.ID), ErrNotFound)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
