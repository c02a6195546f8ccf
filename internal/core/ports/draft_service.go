package ports

import (
	"context"
	"time"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

// DraftState is the lifecycle state of a form draft.
type DraftState string

const (
	DraftEditing   DraftState = "editing"
	DraftResolving DraftState = "resolving_address"
	DraftCommitted DraftState = "committed"
)

// DraftPatch carries a sparse field update for a draft. Nil pointers leave
// the corresponding field untouched. PostalCode and Address are handled
// specially by the service because they trigger lookup side effects.
type DraftPatch struct {
	Name           *string
	PostalCode     *string
	Address        *string
	Phone          *string
	Email          *string
	ContractTier   *domain.ContractTier
	RemovalAreaSqm *float64
	ContractStart  *time.Time
	ContractEnd    *time.Time
	BillingAmount  *float64
}

// DraftView is the read model of a draft handed back to the transport layer.
type DraftView struct {
	ID          string
	CustomerID  string // empty for a new-record draft
	State       DraftState
	Fields      CustomerInput
	Coordinates *domain.Coordinates
	CreatedAt   time.Time
}

// GeocodeJob is a fire-and-forget coordinate refresh queued after an address
// edit. Token is the draft generation captured at enqueue time; the result is
// discarded when the draft has moved on since.
type GeocodeJob struct {
	DraftID string
	Address string
	Token   uint64
}

// RefreshQueue accepts geocode refresh jobs for asynchronous execution.
type RefreshQueue interface {
	Enqueue(job GeocodeJob)
}

// DraftService manages form drafts: the mutable in-progress copy of a record
// between the first edit and commit.
type DraftService interface {
	// StartDraft opens a draft, either blank or pre-filled from an existing
	// customer when customerID is non-empty.
	StartDraft(ctx context.Context, customerID string) (*DraftView, error)
	// UpdateDraft applies a sparse patch. A postal code reaching exactly
	// seven digits triggers one address lookup; an address longer than five
	// characters triggers a best-effort coordinate refresh.
	UpdateDraft(ctx context.Context, draftID string, patch DraftPatch) (*DraftView, error)
	// SubmitDraft resolves coordinates for the current address (failures keep
	// the prior value) and commits the record to the store.
	SubmitDraft(ctx context.Context, draftID string, callerID string) (*domain.Customer, error)
	// CancelDraft discards the draft with no persisted side effects.
	CancelDraft(ctx context.Context, draftID string) error
	// ApplyGeocode executes one queued coordinate refresh. Called by the
	// refresh queue workers, never by the transport layer.
	ApplyGeocode(ctx context.Context, job GeocodeJob)
}
