package services

import (
	"context"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"
)

// SettingsService manages the versioned platform configuration. Updates
// never mutate an existing version; they insert the next one, so every
// settlement's snapshot stays reproducible.
type SettingsService interface {
	GetCurrent(ctx context.Context) (*models.PlatformSettings, error)
	UpdateSettings(ctx context.Context, actor models.Actor, req *UpdateSettingsRequest) (*models.PlatformSettings, error)

	// EnsureDefaults seeds version 1 on first boot.
	EnsureDefaults(ctx context.Context, commissionPercentage, perKMRate float64) error
}

type UpdateSettingsRequest struct {
	CommissionPercentage float64 `json:"commission_percentage" binding:"required"`
	PerKMRate            float64 `json:"per_km_rate" binding:"required"`
}

type settingsService struct {
	settingsRepo interfaces.PlatformSettingsRepository
	logger       *logger.Logger
}

func NewSettingsService(settingsRepo interfaces.PlatformSettingsRepository, logger *logger.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

func (s *settingsService) GetCurrent(ctx context.Context) (*models.PlatformSettings, error) {
	return s.settingsRepo.Current(ctx)
}

func (s *settingsService) UpdateSettings(ctx context.Context, actor models.Actor, req *UpdateSettingsRequest) (*models.PlatformSettings, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}
	if req.CommissionPercentage < 0 || req.CommissionPercentage > 100 {
		return nil, utils.NewValidationError("commission percentage must be between 0 and 100")
	}
	if req.PerKMRate < 0 {
		return nil, utils.NewValidationError("per-km rate cannot be negative")
	}

	current, err := s.settingsRepo.Current(ctx)
	version := 1
	if err == nil {
		version = current.Version + 1
	} else if !utils.IsKind(err, utils.ErrorKindNotFound) {
		return nil, err
	}

	next := &models.PlatformSettings{
		Version:              version,
		CommissionPercentage: req.CommissionPercentage,
		PerKMRate:            req.PerKMRate,
		Currency:             utils.DefaultCurrency,
		CreatedBy:            actor.ID,
	}

	if err := s.settingsRepo.Create(ctx, next); err != nil {
		if utils.IsKind(err, utils.ErrorKindConflict) {
			return nil, utils.NewConflictError("settings were updated concurrently, retry")
		}
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"version":    version,
		"commission": req.CommissionPercentage,
		"per_km":     req.PerKMRate,
	}).Info("Platform settings updated")

	return next, nil
}

func (s *settingsService) EnsureDefaults(ctx context.Context, commissionPercentage, perKMRate float64) error {
	_, err := s.settingsRepo.Current(ctx)
	if err == nil {
		return nil
	}
	if !utils.IsKind(err, utils.ErrorKindNotFound) {
		return err
	}

	seed := &models.PlatformSettings{
		Version:              1,
		CommissionPercentage: commissionPercentage,
		PerKMRate:            perKMRate,
		Currency:             utils.DefaultCurrency,
	}
	if createErr := s.settingsRepo.Create(ctx, seed); createErr != nil {
		if utils.IsKind(createErr, utils.ErrorKindConflict) {
			return nil // another instance seeded first
		}
		return createErr
	}

	s.logger.Info("Seeded default platform settings")
	return nil
}
