package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// CustomerRequest represents a customer create/update request
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CustomerService manages the customer directory
type CustomerService struct {
	store  CustomerStore
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store, logger: util.GetLogger()}
}

// ListCustomers returns live customers, optionally filtered by a
// name or phone search term.
func (s *CustomerService) ListCustomers(ctx context.Context, searchTerm string) ([]models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "service.ListCustomers")
	defer span.End()
	return s.store.SearchCustomers(ctx, searchTerm)
}

// GetCustomer returns a single customer
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomerByID(ctx, id)
}

// CreateCustomer adds a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest, byUserID *int64) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "service.CreateCustomer")
	defer span.End()

	customer := &models.Customer{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedBy: byUserID,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// UpdateCustomer overwrites a customer's details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest, byUserID *int64) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "service.UpdateCustomer")
	defer span.End()

	customer, err := s.store.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Notes = req.Notes
	customer.UpdatedBy = byUserID
	customer.UpdatedAt = &now

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Orders referencing the
// customer keep working; populate reports the tombstone.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64, byUserID *int64) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "service.DeleteCustomer")
	defer span.End()
	return s.store.SoftDeleteCustomer(ctx, id, byUserID)
}
