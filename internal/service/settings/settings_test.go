package settings

import (
	"context"
	"errors"
	"testing"

	"mobiwash-service/internal/domain/settings"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeSettingRepo struct {
	settings map[string]*settings.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[string]*settings.Setting)}
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, s *settings.Setting) error {
	f.settings[s.Key] = s
	return nil
}

func (f *fakeSettingRepo) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	if s, ok := f.settings[key]; ok {
		return s, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeSettingRepo) List(ctx context.Context, category string) ([]settings.Setting, error) {
	var out []settings.Setting
	for _, s := range f.settings {
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, key string) error {
	if _, ok := f.settings[key]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.settings, key)
	return nil
}

func TestTaxConfigDefaultsToZero(t *testing.T) {
	svc := NewSettingsService(newFakeSettingRepo(), zap.NewNop())

	cfg, err := svc.TaxConfig(context.Background())
	if err != nil {
		t.Fatalf("TaxConfig: %v", err)
	}
	if cfg.RatePercent != 0 {
		t.Errorf("rate = %d, want 0 when unset", cfg.RatePercent)
	}
}

func TestTaxConfigDecodesSetting(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewSettingsService(repo, zap.NewNop())

	_, err := svc.UpsertSetting(context.Background(), &settings.UpsertSettingRequest{
		Key:      settings.KeyTax,
		Category: "billing",
		Name:     "Tax",
		Value:    map[string]interface{}{"rate_percent": 16},
	})
	if err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	cfg, err := svc.TaxConfig(context.Background())
	if err != nil {
		t.Fatalf("TaxConfig: %v", err)
	}
	if cfg.RatePercent != 16 {
		t.Errorf("rate = %d, want 16", cfg.RatePercent)
	}
}

func TestTaxConfigRejectsOutOfRangeRate(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewSettingsService(repo, zap.NewNop())

	if _, err := svc.UpsertSetting(context.Background(), &settings.UpsertSettingRequest{
		Key:      settings.KeyTax,
		Category: "billing",
		Name:     "Tax",
		Value:    map[string]interface{}{"rate_percent": 250},
	}); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	if _, err := svc.TaxConfig(context.Background()); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListSettingsByCategory(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewSettingsService(repo, zap.NewNop())

	for _, req := range []*settings.UpsertSettingRequest{
		{Key: "business_info", Category: "general", Name: "Business", Value: map[string]interface{}{"name": "MobiWash"}},
		{Key: settings.KeyTax, Category: "billing", Name: "Tax", Value: map[string]interface{}{"rate_percent": 16}},
	} {
		if _, err := svc.UpsertSetting(context.Background(), req); err != nil {
			t.Fatalf("UpsertSetting(%s): %v", req.Key, err)
		}
	}

	got, err := svc.ListSettings(context.Background(), "billing")
	if err != nil {
		t.Fatalf("ListSettings: %v", err)
	}
	if len(got) != 1 || got[0].Key != settings.KeyTax {
		t.Errorf("filtered list = %+v", got)
	}
}
