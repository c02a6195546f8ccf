package ports

import (
	"context"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
)

// Geocoder resolves a free-text address to zero or one coordinate pair.
// A (nil, nil) return means "no result"; callers do not distinguish a miss
// from a transport failure and never retry.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinates, error)
}

// PostalAddress is the structured result of a postal-code lookup. The three
// components concatenate into a displayable address (prefecture + city + town).
type PostalAddress struct {
	Prefecture string
	City       string
	Town       string
}

// String returns the concatenated display form.
func (a PostalAddress) String() string {
	return a.Prefecture + a.City + a.Town
}

// PostalLookup resolves a normalized 7-digit postal code to zero or one
// structured address. Same miss/failure collapse as Geocoder.
type PostalLookup interface {
	LookupAddress(ctx context.Context, postalCode string) (*PostalAddress, error)
}

// Route is a driving route returned by the routing collaborator.
type Route struct {
	// StopOrder maps input stop index -> visit order after the collaborator's
	// waypoint optimizer has run. First and last stops are fixed.
	StopOrder       []int
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        string // encoded polyline
}

// RoutePlanner computes a driving route over an ordered list of at least two
// stops. The first stop is the origin, the last the destination, and every
// intermediate stop is a waypoint the collaborator may reorder.
type RoutePlanner interface {
	PlanRoute(ctx context.Context, stops []domain.Coordinates) (*Route, error)
}
