package handler

import (
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// --- Domain/service results → HTTP responses ---

func toCustomerResponse(c *domain.Customer) customerResponse {
	r := customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		PostalCode:     c.PostalCode,
		Address:        c.Address,
		Phone:          c.Phone,
		Email:          c.Email,
		ContractTier:   string(c.ContractTier),
		RemovalAreaSqm: c.RemovalAreaSqm,
		ContractStart:  c.ContractStart,
		ContractEnd:    c.ContractEnd,
		BillingAmount:  c.BillingAmount,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
	if c.Coordinates != nil {
		r.Coordinates = &coordinatesResponse{Lat: c.Coordinates.Lat, Lng: c.Coordinates.Lng}
	}
	return r
}

func toListResponse(res *ports.ListCustomersResult) listCustomersResponse {
	items := make([]customerResponse, len(res.Items))
	for i := range res.Items {
		items[i] = toCustomerResponse(&res.Items[i])
	}
	return listCustomersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	}
}

func toDraftResponse(v *ports.DraftView) draftResponse {
	r := draftResponse{
		ID:             v.ID,
		CustomerID:     v.CustomerID,
		State:          string(v.State),
		Name:           v.Fields.Name,
		PostalCode:     v.Fields.PostalCode,
		Address:        v.Fields.Address,
		Phone:          v.Fields.Phone,
		Email:          v.Fields.Email,
		ContractTier:   string(v.Fields.ContractTier),
		RemovalAreaSqm: v.Fields.RemovalAreaSqm,
		ContractStart:  v.Fields.ContractStart,
		ContractEnd:    v.Fields.ContractEnd,
		BillingAmount:  v.Fields.BillingAmount,
		CreatedAt:      v.CreatedAt.UTC(),
	}
	if v.Coordinates != nil {
		r.Coordinates = &coordinatesResponse{Lat: v.Coordinates.Lat, Lng: v.Coordinates.Lng}
	}
	return r
}

// --- HTTP requests → service inputs ---

func toDraftPatch(req updateDraftRequest) ports.DraftPatch {
	patch := ports.DraftPatch{
		Name:           req.Name,
		PostalCode:     req.PostalCode,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		RemovalAreaSqm: req.RemovalAreaSqm,
		ContractStart:  req.ContractStart,
		ContractEnd:    req.ContractEnd,
		BillingAmount:  req.BillingAmount,
	}
	if req.ContractTier != nil {
		tier := domain.ContractTier(*req.ContractTier)
		patch.ContractTier = &tier
	}
	return patch
}

func toMarkerResponse(m ports.Marker) markerResponse {
	return markerResponse{
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Address:    m.Address,
		Position:   coordinatesResponse{Lat: m.Position.Lat, Lng: m.Position.Lng},
	}
}

func toMarkerResponses(ms []ports.Marker) []markerResponse {
	out := make([]markerResponse, len(ms))
	for i, m := range ms {
		out[i] = toMarkerResponse(m)
	}
	return out
}

func toSyncResponse(res *ports.SyncResult) mapSyncResponse {
	r := mapSyncResponse{
		Markers: toMarkerResponses(res.Markers),
		Added:   toMarkerResponses(res.Added),
		Removed: res.Removed,
	}
	if r.Removed == nil {
		r.Removed = []string{}
	}
	if res.Viewport != nil {
		r.Viewport = &boundsResponse{
			SouthWest: coordinatesResponse{Lat: res.Viewport.SouthWest.Lat, Lng: res.Viewport.SouthWest.Lng},
			NorthEast: coordinatesResponse{Lat: res.Viewport.NorthEast.Lat, Lng: res.Viewport.NorthEast.Lng},
		}
	}
	return r
}

func toRouteResponse(r *ports.Route) routeResponse {
	return routeResponse{
		StopOrder:       r.StopOrder,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Geometry:        r.Geometry,
	}
}
