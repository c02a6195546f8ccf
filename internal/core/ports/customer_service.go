package ports

import (
	"context"
	"time"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

// CustomerInput carries all user-editable fields of a customer record.
// Identifier and timestamps are owned by the service, never by the caller.
type CustomerInput struct {
	Name           string
	PostalCode     string
	Address        string
	Phone          string
	Email          string
	ContractTier   domain.ContractTier
	RemovalAreaSqm float64
	ContractStart  time.Time
	ContractEnd    time.Time
	BillingAmount  float64
	Coordinates    *domain.Coordinates
}

// ListCustomersInput carries all parameters for the list endpoint.
type ListCustomersInput struct {
	Predicates Predicates
	SortKey    SortKey
	SortDir    SortDirection
	Page       int
	Limit      int
}

// Predicates is a sparse set of field-level filter conditions. Empty values
// impose no constraint. All supplied conditions must hold (logical AND).
type Predicates struct {
	Name         string              // substring, case-insensitive
	Address      string              // substring, case-insensitive
	Phone        string              // substring, case-insensitive
	PostalCode   string              // substring, case-insensitive
	ContractTier domain.ContractTier // exact match, "" = any
}

// SortKey selects one customer field to order by. The set is closed: each
// key carries a fixed, type-correct comparator in the service layer.
type SortKey string

const (
	SortByName          SortKey = "name"
	SortByPostalCode    SortKey = "postal_code"
	SortByAddress       SortKey = "address"
	SortByPhone         SortKey = "phone"
	SortByEmail         SortKey = "email"
	SortByContractTier  SortKey = "contract_tier"
	SortByRemovalArea   SortKey = "removal_area_sqm"
	SortByBillingAmount SortKey = "billing_amount"
	SortByContractStart SortKey = "contract_start"
	SortByContractEnd   SortKey = "contract_end"
	SortByCreatedAt     SortKey = "created_at"
	SortByUpdatedAt     SortKey = "updated_at"
)

// SortDirection orders ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListCustomersResult is returned by ListCustomers.
type ListCustomersResult struct {
	Items      []domain.Customer
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CustomerService defines use-case operations on the record store.
type CustomerService interface {
	// CreateCustomer assigns a fresh identifier and store-owned timestamps.
	CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	// ReplaceCustomer performs a full-record replacement. The identifier and
	// creation timestamp are preserved; the update timestamp never decreases.
	ReplaceCustomer(ctx context.Context, id string, input CustomerInput, callerID string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, input ListCustomersInput) (*ListCustomersResult, error)
	DeleteCustomer(ctx context.Context, id string, callerID string) error
}
