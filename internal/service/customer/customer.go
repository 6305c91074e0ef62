// internal/service/customer/customer.go
package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mobiwash-service/internal/domain/customer"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type CustomerRepo interface {
	Create(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*customer.Customer, error)
	List(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.CustomerWithStats, int64, error)
	Stats(ctx context.Context, id int64) (*customer.CustomerStats, error)
	Update(ctx context.Context, id int64, c *customer.Customer) error
	HasBookings(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerService struct {
	customerRepo CustomerRepo
	logger       *zap.Logger
}

func NewCustomerService(customerRepo CustomerRepo, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	if err := s.validatePhoneNumber(req.Phone); err != nil {
		return nil, err
	}

	c := &customer.Customer{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    sql.NullString{String: req.Email, Valid: req.Email != ""},
		Location: sql.NullString{String: req.Location, Valid: req.Location != ""},
		Notes:    sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.String("phone", c.Phone),
	)

	return c, nil
}

// GetOrCreateByPhone finds the customer owning a phone number or creates a
// minimal record. Public booking submissions route through this so repeat
// customers accumulate history under one record.
func (s *CustomerService) GetOrCreateByPhone(ctx context.Context, name, phone string) (*customer.Customer, error) {
	if err := s.validatePhoneNumber(phone); err != nil {
		return nil, err
	}

	c, err := s.customerRepo.FindByPhone(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	c = &customer.Customer{
		FullName: name,
		Phone:    phone,
	}
	if c.FullName == "" {
		c.FullName = "Walk-in customer"
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer auto-created from booking",
		zap.Int64("customer_id", c.ID),
		zap.String("phone", c.Phone),
	)

	return c, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// GetCustomerStats aggregates a customer's booking history.
func (s *CustomerService) GetCustomerStats(ctx context.Context, id int64) (*customer.CustomerStats, error) {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.customerRepo.Stats(ctx, id)
}

// ListCustomers lists customers with booking aggregates.
func (s *CustomerService) ListCustomers(ctx context.Context, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	customers, total, err := s.customerRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &customer.CustomerListResponse{
		Customers:  customers,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize)),
	}, nil
}

// UpdateCustomer applies a partial update to a customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		c.FullName = *req.FullName
	}
	if req.Phone != nil {
		if err := s.validatePhoneNumber(*req.Phone); err != nil {
			return nil, err
		}
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.Location != nil {
		c.Location = sql.NullString{String: *req.Location, Valid: *req.Location != ""}
	}
	if req.Notes != nil {
		c.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}

	if err := s.customerRepo.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update customer", zap.Int64("customer_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return c, nil
}

// DeleteCustomer removes a customer without booking history. Customers with
// bookings are rejected so financial records keep their owner.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	has, err := s.customerRepo.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return xerrors.ErrHasDependencies
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}

func (s *CustomerService) validatePhoneNumber(phone string) error {
	cleaned := strings.TrimSpace(phone)
	if len(cleaned) < 7 || len(cleaned) > 20 {
		return fmt.Errorf("%w: phone number must be 7-20 characters", xerrors.ErrInvalidInput)
	}

	for i, r := range cleaned {
		if r >= '0' && r <= '9' {
			continue
		}
		if i == 0 && r == '+' {
			continue
		}
		if r == ' ' || r == '-' {
			continue
		}
		return fmt.Errorf("%w: phone number contains invalid character %q", xerrors.ErrInvalidInput, r)
	}

	return nil
}
