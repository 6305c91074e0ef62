// internal/service/catalog/catalog.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"mobiwash-service/internal/domain/catalog"

	"go.uber.org/zap"
)

type ServiceRepo interface {
	Create(ctx context.Context, s *catalog.Service) error
	FindByID(ctx context.Context, id int64) (*catalog.Service, error)
	List(ctx context.Context, filters *catalog.ServiceListFilters) ([]catalog.Service, error)
	Update(ctx context.Context, id int64, s *catalog.Service) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type CatalogService struct {
	serviceRepo ServiceRepo
	logger      *zap.Logger
}

func NewCatalogService(serviceRepo ServiceRepo, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// CreateService creates a new catalog service
func (s *CatalogService) CreateService(ctx context.Context, req *catalog.CreateServiceRequest) (*catalog.Service, error) {
	svc := &catalog.Service{
		Name:        req.Name,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Price:       req.Price,
		Active:      true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		s.logger.Error("failed to create service", zap.Error(err))
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.Info("service created",
		zap.Int64("service_id", svc.ID),
		zap.String("name", svc.Name),
	)

	return svc, nil
}

// GetService retrieves a service by ID
func (s *CatalogService) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	return s.serviceRepo.FindByID(ctx, id)
}

// ListServices lists the catalog. The public booking form passes
// ActiveOnly; the admin view sees everything.
func (s *CatalogService) ListServices(ctx context.Context, filters *catalog.ServiceListFilters) ([]catalog.Service, error) {
	return s.serviceRepo.List(ctx, filters)
}

// UpdateService applies a partial update to a service.
func (s *CatalogService) UpdateService(ctx context.Context, id int64, req *catalog.UpdateServiceRequest) (*catalog.Service, error) {
	svc, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.serviceRepo.Update(ctx, id, svc); err != nil {
		s.logger.Error("failed to update service", zap.Int64("service_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return svc, nil
}

// SetActive toggles a service in or out of the public booking form.
func (s *CatalogService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.serviceRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Info("service visibility changed",
		zap.Int64("service_id", id),
		zap.Bool("active", active),
	)

	return nil
}

// DeleteService removes a service. The repository rejects the delete when
// any booking still references the service; callers should deactivate
// instead in that case.
func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("service deleted", zap.Int64("service_id", id))
	return nil
}
