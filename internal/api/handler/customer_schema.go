package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Response types ---
//
// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type customerResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	PostalCode     string               `json:"postal_code"`
	Address        string               `json:"address"`
	Phone          string               `json:"phone,omitempty"`
	Email          string               `json:"email,omitempty"`
	ContractTier   string               `json:"contract_tier"`
	RemovalAreaSqm float64              `json:"removal_area_sqm"`
	ContractStart  time.Time            `json:"contract_start"`
	ContractEnd    time.Time            `json:"contract_end"`
	BillingAmount  float64              `json:"billing_amount"`
	Coordinates    *coordinatesResponse `json:"coordinates,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listCustomersResponse struct {
	Data       []customerResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Draft types ---

type startDraftRequest struct {
	// CustomerID pre-fills the draft from an existing record when set.
	CustomerID string `json:"customer_id,omitempty"`
}

type updateDraftRequest struct {
	Name           *string    `json:"name,omitempty"`
	PostalCode     *string    `json:"postal_code,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Email          *string    `json:"email,omitempty"`
	ContractTier   *string    `json:"contract_tier,omitempty" validate:"omitempty,oneof=basic premium custom"`
	RemovalAreaSqm *float64   `json:"removal_area_sqm,omitempty" validate:"omitempty,gte=0"`
	ContractStart  *time.Time `json:"contract_start,omitempty"`
	ContractEnd    *time.Time `json:"contract_end,omitempty"`
	BillingAmount  *float64   `json:"billing_amount,omitempty" validate:"omitempty,gte=0"`
}

type draftResponse struct {
	ID             string               `json:"id"`
	CustomerID     string               `json:"customer_id,omitempty"`
	State          string               `json:"state"`
	Name           string               `json:"name"`
	PostalCode     string               `json:"postal_code"`
	Address        string               `json:"address"`
	Phone          string               `json:"phone,omitempty"`
	Email          string               `json:"email,omitempty"`
	ContractTier   string               `json:"contract_tier"`
	RemovalAreaSqm float64              `json:"removal_area_sqm"`
	ContractStart  time.Time            `json:"contract_start"`
	ContractEnd    time.Time            `json:"contract_end"`
	BillingAmount  float64              `json:"billing_amount"`
	Coordinates    *coordinatesResponse `json:"coordinates,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// --- Map types ---

type markerResponse struct {
	CustomerID string              `json:"customer_id"`
	Name       string              `json:"name"`
	Address    string              `json:"address"`
	Position   coordinatesResponse `json:"position"`
}

type boundsResponse struct {
	SouthWest coordinatesResponse `json:"south_west"`
	NorthEast coordinatesResponse `json:"north_east"`
}

type mapSyncResponse struct {
	Markers  []markerResponse `json:"markers"`
	Added    []markerResponse `json:"added"`
	Removed  []string         `json:"removed"`
	Viewport *boundsResponse  `json:"viewport,omitempty"`
}

type popupResponse struct {
	Opened   markerResponse `json:"opened"`
	ClosedID string         `json:"closed_id,omitempty"`
}

type planRouteRequest struct {
	CustomerIDs []string `json:"customer_ids" validate:"required,min=2"`
}

type routeResponse struct {
	StopOrder       []int   `json:"stop_order"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        string  `json:"geometry,omitempty"`
}
