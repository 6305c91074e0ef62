// internal/service/settings/settings.go
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mobiwash-service/internal/domain/settings"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type SettingRepo interface {
	Upsert(ctx context.Context, s *settings.Setting) error
	FindByKey(ctx context.Context, key string) (*settings.Setting, error)
	List(ctx context.Context, category string) ([]settings.Setting, error)
	Delete(ctx context.Context, key string) error
}

type SettingsService struct {
	settingRepo SettingRepo
	logger      *zap.Logger
}

func NewSettingsService(settingRepo SettingRepo, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// UpsertSetting creates or replaces the setting under its key.
func (s *SettingsService) UpsertSetting(ctx context.Context, req *settings.UpsertSettingRequest) (*settings.Setting, error) {
	setting := &settings.Setting{
		Key:         req.Key,
		Category:    req.Category,
		Name:        req.Name,
		Value:       req.Value,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
	}

	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		s.logger.Error("failed to upsert setting", zap.String("key", req.Key), zap.Error(err))
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}

	s.logger.Info("setting saved", zap.String("key", setting.Key))
	return setting, nil
}

// GetSetting retrieves a setting by key
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*settings.Setting, error) {
	return s.settingRepo.FindByKey(ctx, key)
}

// ListSettings lists settings, optionally in one category.
func (s *SettingsService) ListSettings(ctx context.Context, category string) ([]settings.Setting, error) {
	return s.settingRepo.List(ctx, category)
}

// DeleteSetting removes a setting by key.
func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	if err := s.settingRepo.Delete(ctx, key); err != nil {
		return err
	}

	s.logger.Info("setting deleted", zap.String("key", key))
	return nil
}

// TaxConfig decodes the "tax" setting. A missing setting means no tax.
func (s *SettingsService) TaxConfig(ctx context.Context) (*settings.TaxConfig, error) {
	setting, err := s.settingRepo.FindByKey(ctx, settings.KeyTax)
	if errors.Is(err, xerrors.ErrNotFound) {
		return &settings.TaxConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(setting.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tax setting: %w", err)
	}

	var cfg settings.TaxConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode tax setting: %w", err)
	}
	if cfg.RatePercent < 0 || cfg.RatePercent > 100 {
		return nil, fmt.Errorf("%w: tax rate %d out of range", xerrors.ErrInvalidInput, cfg.RatePercent)
	}

	return &cfg, nil
}
