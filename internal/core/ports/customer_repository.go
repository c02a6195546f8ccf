package ports

import (
	"context"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

// CustomerRepository defines persistence operations for customer records.
//
// Replace and Delete accept the caller's user id because the access policy
// ported from the hosted database nominally scopes those operations to the
// record owner. See the Mongo implementation for what the policy actually
// enforces.
type CustomerRepository interface {
	Insert(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	// FindAll returns the full record collection. Filtering and ordering are
	// performed in memory by the service layer.
	FindAll(ctx context.Context) ([]domain.Customer, error)
	Replace(ctx context.Context, c *domain.Customer, callerID string) error
	Delete(ctx context.Context, id string, callerID string) error
}
