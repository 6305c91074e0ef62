// internal/service/technician/technician.go
package technician

import (
	"context"
	"database/sql"
	"fmt"

	"mobiwash-service/internal/domain/technician"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type TechnicianRepo interface {
	Create(ctx context.Context, t *technician.Technician) error
	FindByID(ctx context.Context, id int64) (*technician.Technician, error)
	List(ctx context.Context, activeOnly bool) ([]technician.Technician, error)
	Update(ctx context.Context, id int64, t *technician.Technician) error
	Delete(ctx context.Context, id int64) error
}

type TechnicianService struct {
	technicianRepo TechnicianRepo
	logger         *zap.Logger
}

func NewTechnicianService(technicianRepo TechnicianRepo, logger *zap.Logger) *TechnicianService {
	return &TechnicianService{
		technicianRepo: technicianRepo,
		logger:         logger,
	}
}

// CreateTechnician creates a new technician
func (s *TechnicianService) CreateTechnician(ctx context.Context, req *technician.CreateTechnicianRequest) (*technician.Technician, error) {
	t := &technician.Technician{
		FullName: req.FullName,
		Email:    sql.NullString{String: req.Email, Valid: req.Email != ""},
		Phone:    sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Active:   true,
		Skills:   pq.StringArray(req.Skills),
	}

	if err := s.technicianRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create technician", zap.Error(err))
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}

	s.logger.Info("technician created",
		zap.Int64("technician_id", t.ID),
		zap.String("name", t.FullName),
	)

	return t, nil
}

// GetTechnician retrieves a technician by ID
func (s *TechnicianService) GetTechnician(ctx context.Context, id int64) (*technician.Technician, error) {
	return s.technicianRepo.FindByID(ctx, id)
}

// ListTechnicians lists technicians, optionally active only.
func (s *TechnicianService) ListTechnicians(ctx context.Context, activeOnly bool) ([]technician.Technician, error) {
	return s.technicianRepo.List(ctx, activeOnly)
}

// UpdateTechnician applies a partial update to a technician.
func (s *TechnicianService) UpdateTechnician(ctx context.Context, id int64, req *technician.UpdateTechnicianRequest) (*technician.Technician, error) {
	t, err := s.technicianRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		t.FullName = *req.FullName
	}
	if req.Email != nil {
		t.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.Phone != nil {
		t.Phone = sql.NullString{String: *req.Phone, Valid: *req.Phone != ""}
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if req.Skills != nil {
		t.Skills = pq.StringArray(req.Skills)
	}

	if err := s.technicianRepo.Update(ctx, id, t); err != nil {
		s.logger.Error("failed to update technician", zap.Int64("technician_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update technician: %w", err)
	}

	return t, nil
}

// DeleteTechnician removes a technician; their jobs are unassigned, not
// deleted.
func (s *TechnicianService) DeleteTechnician(ctx context.Context, id int64) error {
	if err := s.technicianRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("technician deleted", zap.Int64("technician_id", id))
	return nil
}
