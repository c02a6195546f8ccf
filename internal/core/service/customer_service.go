package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

const maxListLimit = 100

// CustomerService owns the record store: every create, replacement, and
// deletion of a customer record flows through it.
type CustomerService struct {
	repo   ports.CustomerRepository
	logger zerolog.Logger
	now    func() time.Time // overridable in tests
}

func NewCustomerService(repo ports.CustomerRepository, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CreateCustomer assigns a fresh identifier and timestamps, then persists the
// record. The identifier is immutable from here on.
func (s *CustomerService) CreateCustomer(ctx context.Context, input ports.CustomerInput) (*domain.Customer, error) {
	if !input.ContractTier.IsValid() {
		return nil, domain.ErrInvalidContractTier
	}

	now := s.now()
	c := customerFromInput(input)
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Insert(ctx, c); err != nil {
		s.logger.Error().Err(err).Msg("failed to create customer")
		return nil, err
	}

	metrics.CustomersCreatedTotal.WithLabelValues(string(c.ContractTier)).Inc()
	s.logger.Info().Str("customer_id", c.ID).Str("tier", string(c.ContractTier)).Msg("customer created")
	return c, nil
}

// ReplaceCustomer performs a full-record replacement. Identifier and creation
// timestamp carry over from the stored record; the update timestamp is
// refreshed and never moves backwards.
func (s *CustomerService) ReplaceCustomer(ctx context.Context, id string, input ports.CustomerInput, callerID string) (*domain.Customer, error) {
	if !input.ContractTier.IsValid() {
		return nil, domain.ErrInvalidContractTier
	}

	prev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c := customerFromInput(input)
	c.ID = prev.ID
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = s.now()
	if c.UpdatedAt.Before(prev.UpdatedAt) {
		c.UpdatedAt = prev.UpdatedAt
	}

	if err := s.repo.Replace(ctx, c, callerID); err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("failed to replace customer")
		return nil, err
	}

	s.logger.Info().Str("customer_id", id).Msg("customer updated")
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// ListCustomers loads the full collection, applies the filter engine and a
// stable sort in memory, then paginates.
func (s *CustomerService) ListCustomers(ctx context.Context, input ports.ListCustomersInput) (*ports.ListCustomersResult, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list customers")
		return nil, err
	}

	filtered := FilterCustomers(all, input.Predicates)
	ordered := SortCustomers(filtered, input.SortKey, input.SortDir)

	total := int64(len(ordered))

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	start := (page - 1) * limit
	if start > len(ordered) {
		start = len(ordered)
	}
	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &ports.ListCustomersResult{
		Items:      ordered[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteCustomer removes the record permanently. There is no soft delete.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string, callerID string) error {
	if err := s.repo.Delete(ctx, id, callerID); err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("failed to delete customer")
		return err
	}
	metrics.CustomersDeletedTotal.Inc()
	s.logger.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

func customerFromInput(input ports.CustomerInput) *domain.Customer {
	c := &domain.Customer{
		Name:           input.Name,
		PostalCode:     domain.NormalizePostalCode(input.PostalCode),
		Address:        input.Address,
		Phone:          input.Phone,
		Email:          input.Email,
		ContractTier:   input.ContractTier,
		RemovalAreaSqm: input.RemovalAreaSqm,
		ContractStart:  input.ContractStart,
		ContractEnd:    input.ContractEnd,
		BillingAmount:  input.BillingAmount,
	}
	if input.Coordinates != nil {
		c.Coordinates = &domain.Coordinates{Lat: input.Coordinates.Lat, Lng: input.Coordinates.Lng}
	}
	return c
}
