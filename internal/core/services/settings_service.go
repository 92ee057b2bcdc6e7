package services

import (
	"context"
	"errors"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// SettingsService manages per-user preferences
type SettingsService struct {
	settings repositories.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings repositories.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// UpdateSettingsInput for updating user settings
type UpdateSettingsInput struct {
	NotifyOnApproval  *bool
	NotifyOnRejection *bool
	MonthlyStatement  *bool
	Language          *string
	Theme             *string
}

// Get returns a user's settings, defaults if none stored yet
func (s *SettingsService) Get(ctx context.Context, userID uint) (*models.UserSettings, error) {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserSettings{
				UserID:            userID,
				NotifyOnApproval:  true,
				NotifyOnRejection: true,
				Language:          "en",
				Theme:             "light",
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

// Update applies partial settings changes for a user
func (s *SettingsService) Update(ctx context.Context, userID uint, input UpdateSettingsInput) (*models.UserSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.NotifyOnApproval != nil {
		settings.NotifyOnApproval = *input.NotifyOnApproval
	}
	if input.NotifyOnRejection != nil {
		settings.NotifyOnRejection = *input.NotifyOnRejection
	}
	if input.MonthlyStatement != nil {
		settings.MonthlyStatement = *input.MonthlyStatement
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}
	if input.Theme != nil {
		settings.Theme = *input.Theme
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
