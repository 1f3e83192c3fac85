package services

import (
	"context"
	"testing"

	"drivehire/internal/models"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateSettingsVersioning(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, logger.NewNop())
	ctx := context.Background()
	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	first, err := svc.UpdateSettings(ctx, admin, &UpdateSettingsRequest{
		CommissionPercentage: 12.5,
		PerKMRate:            150,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, admin.ID, first.CreatedBy)

	second, err := svc.UpdateSettings(ctx, admin, &UpdateSettingsRequest{
		CommissionPercentage: 15,
		PerKMRate:            180,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	// Old versions stay readable for settlement snapshots.
	historical, err := repo.GetByVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.5, historical.CommissionPercentage)

	current, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version)
	assert.Equal(t, 15.0, current.CommissionPercentage)
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsRepo(), logger.NewNop())
	ctx := context.Background()
	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	_, err := svc.UpdateSettings(ctx, admin, &UpdateSettingsRequest{CommissionPercentage: 120, PerKMRate: 100})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))

	_, err = svc.UpdateSettings(ctx, admin, &UpdateSettingsRequest{CommissionPercentage: 10, PerKMRate: -5})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))

	client := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleClient}
	_, err = svc.UpdateSettings(ctx, client, &UpdateSettingsRequest{CommissionPercentage: 10, PerKMRate: 100})
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))
}

func TestEnsureDefaults(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx, 10, 100))

	seeded, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, seeded.Version)
	assert.Equal(t, 10.0, seeded.CommissionPercentage)

	// A second boot finds the seed and leaves it alone.
	require.NoError(t, svc.EnsureDefaults(ctx, 99, 999))
	current, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, current.CommissionPercentage)
}
