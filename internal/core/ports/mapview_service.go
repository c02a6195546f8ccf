package ports

import (
	"context"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

// MapQuery selects which customers appear on the map. Text matches name or
// address (substring, case-insensitive); the range bounds are inclusive and
// nil means unbounded. All active conditions are AND-ed.
type MapQuery struct {
	Text       string
	Tier       domain.ContractTier // "" = any
	AreaMin    *float64
	AreaMax    *float64
	BillingMin *float64
	BillingMax *float64
}

// Marker is the map collaborator's visual representation of one geocoded
// customer. Customers without coordinates never produce a marker.
type Marker struct {
	CustomerID string
	Name       string
	Address    string
	Position   domain.Coordinates
}

// Bounds is a viewport rectangle enclosing a set of markers.
type Bounds struct {
	SouthWest domain.Coordinates
	NorthEast domain.Coordinates
}

// SyncResult describes how the rendering collaborator must reconcile its
// markers: place Added, remove Removed, and fit Viewport when non-nil.
type SyncResult struct {
	Added    []Marker
	Removed  []string // customer ids whose markers must be removed
	Markers  []Marker // full current set, in record order
	Viewport *Bounds  // nil when no marker remains
}

// PopupResult reports the popup state change after a marker click.
type PopupResult struct {
	Opened   Marker
	ClosedID string // previously open popup, empty if none was open
}

// MapViewService reconciles the filtered record set against per-owner map
// state and plans multi-stop routes.
type MapViewService interface {
	// Sync recomputes the display subset for query and diffs it against the
	// owner's previously rendered markers.
	Sync(ctx context.Context, ownerID string, query MapQuery) (*SyncResult, error)
	// OpenPopup opens the popup for one marker, closing any other first.
	OpenPopup(ctx context.Context, ownerID string, customerID string) (*PopupResult, error)
	// PlanRoute routes through the selected markers in order. It requires at
	// least two selections; on collaborator failure the previously computed
	// route is kept and returned alongside the error.
	PlanRoute(ctx context.Context, ownerID string, customerIDs []string) (*Route, error)
}
