package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// mapView is one owner's rendered map state: the marker set currently on
// screen, the single open popup, and the last successfully planned route.
type mapView struct {
	markers     map[string]ports.Marker
	openPopupID string
	route       *ports.Route
}

// MapViewService reconciles the filtered record set against per-owner map
// marker state and delegates route planning to the routing collaborator.
type MapViewService struct {
	mu    sync.Mutex
	views map[string]*mapView

	repo    ports.CustomerRepository
	planner ports.RoutePlanner
	logger  zerolog.Logger
}

func NewMapViewService(repo ports.CustomerRepository, planner ports.RoutePlanner, logger zerolog.Logger) *MapViewService {
	return &MapViewService{
		views:   make(map[string]*mapView),
		repo:    repo,
		planner: planner,
		logger:  logger,
	}
}

// Sync recomputes the display subset for query and diffs it against the
// owner's previous marker set. Records lacking coordinates never produce a
// marker, whatever the filter state.
func (s *MapViewService) Sync(ctx context.Context, ownerID string, query ports.MapQuery) (*ports.SyncResult, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load customers for map sync")
		return nil, err
	}

	current := make([]ports.Marker, 0, len(records))
	currentIDs := make(map[string]struct{}, len(records))
	for _, c := range records {
		if !matchesMapQuery(c, query) {
			continue
		}
		if c.Coordinates == nil {
			continue
		}
		m := ports.Marker{
			CustomerID: c.ID,
			Name:       c.Name,
			Address:    c.Address,
			Position:   *c.Coordinates,
		}
		current = append(current, m)
		currentIDs[c.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[ownerID]
	if !ok {
		view = &mapView{markers: make(map[string]ports.Marker)}
		s.views[ownerID] = view
	}

	result := &ports.SyncResult{Markers: current}
	for _, m := range current {
		if _, exists := view.markers[m.CustomerID]; !exists {
			result.Added = append(result.Added, m)
		}
	}
	for id := range view.markers {
		if _, keep := currentIDs[id]; !keep {
			result.Removed = append(result.Removed, id)
		}
	}
	sort.Strings(result.Removed)

	view.markers = make(map[string]ports.Marker, len(current))
	for _, m := range current {
		view.markers[m.CustomerID] = m
	}
	if _, stillVisible := view.markers[view.openPopupID]; !stillVisible {
		view.openPopupID = ""
	}

	if len(current) > 0 {
		result.Viewport = boundsOf(current)
	}

	return result, nil
}

// OpenPopup opens the popup for one marker after closing any other, so at
// most one popup is ever open per view.
func (s *MapViewService) OpenPopup(_ context.Context, ownerID string, customerID string) (*ports.PopupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[ownerID]
	if !ok {
		return nil, domain.ErrMapViewNotFound
	}
	marker, ok := view.markers[customerID]
	if !ok {
		return nil, domain.ErrMarkerNotFound
	}

	closed := ""
	if view.openPopupID != "" && view.openPopupID != customerID {
		closed = view.openPopupID
	}
	view.openPopupID = customerID

	return &ports.PopupResult{Opened: marker, ClosedID: closed}, nil
}

// PlanRoute routes through the selected markers in selection order. The
// routing collaborator may reorder intermediate waypoints. On failure the
// previously planned route stays in place and is returned with the error;
// the call is never retried.
func (s *MapViewService) PlanRoute(ctx context.Context, ownerID string, customerIDs []string) (*ports.Route, error) {
	s.mu.Lock()
	view, ok := s.views[ownerID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrMapViewNotFound
	}

	stops := make([]domain.Coordinates, 0, len(customerIDs))
	for _, id := range customerIDs {
		m, ok := view.markers[id]
		if !ok {
			s.mu.Unlock()
			return nil, domain.ErrMarkerNotFound
		}
		stops = append(stops, m.Position)
	}
	prev := view.route
	s.mu.Unlock()

	if len(stops) < 2 {
		return prev, domain.ErrTooFewStops
	}

	route, err := s.planner.PlanRoute(ctx, stops)
	if err != nil || route == nil {
		metrics.RoutePlansTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Int("stops", len(stops)).Msg("route planning failed, keeping previous route")
		return prev, err
	}

	s.mu.Lock()
	view.route = route
	s.mu.Unlock()

	metrics.RoutePlansTotal.WithLabelValues("ok").Inc()
	return route, nil
}

func matchesMapQuery(c domain.Customer, q ports.MapQuery) bool {
	if q.Text != "" {
		text := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(c.Name), text) &&
			!strings.Contains(strings.ToLower(c.Address), text) {
			return false
		}
	}
	if q.Tier != "" && c.ContractTier != q.Tier {
		return false
	}
	if q.AreaMin != nil && c.RemovalAreaSqm < *q.AreaMin {
		return false
	}
	if q.AreaMax != nil && c.RemovalAreaSqm > *q.AreaMax {
		return false
	}
	if q.BillingMin != nil && c.BillingAmount < *q.BillingMin {
		return false
	}
	if q.BillingMax != nil && c.BillingAmount > *q.BillingMax {
		return false
	}
	return true
}

// boundsOf computes the smallest rectangle enclosing all markers.
func boundsOf(markers []ports.Marker) *ports.Bounds {
	b := &ports.Bounds{
		SouthWest: markers[0].Position,
		NorthEast: markers[0].Position,
	}
	for _, m := range markers[1:] {
		if m.Position.Lat < b.SouthWest.Lat {
			b.SouthWest.Lat = m.Position.Lat
		}
		if m.Position.Lng < b.SouthWest.Lng {
			b.SouthWest.Lng = m.Position.Lng
		}
		if m.Position.Lat > b.NorthEast.Lat {
			b.NorthEast.Lat = m.Position.Lat
		}
		if m.Position.Lng > b.NorthEast.Lng {
			b.NorthEast.Lng = m.Position.Lng
		}
	}
	return b
}
