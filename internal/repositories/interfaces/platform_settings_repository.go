package interfaces

import (
	"context"

	"drivehire/internal/models"
)

type PlatformSettingsRepository interface {
	// Current returns the highest-version settings document.
	Current(ctx context.Context) (*models.PlatformSettings, error)

	// GetByVersion retrieves a historical settings snapshot.
	GetByVersion(ctx context.Context, version int) (*models.PlatformSettings, error)

	// Create inserts a new settings version. The unique index on
	// version rejects concurrent writers picking the same number.
	Create(ctx context.Context, settings *models.PlatformSettings) error
}
