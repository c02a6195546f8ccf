package domain

import (
	"errors"
	"strings"
	"time"
)

// ContractTier classifies a customer's snow-removal contract.
type ContractTier string

const (
	TierBasic   ContractTier = "basic"
	TierPremium ContractTier = "premium"
	TierCustom  ContractTier = "custom"
)

// IsValid reports whether t is one of the three known tiers.
func (t ContractTier) IsValid() bool {
	switch t {
	case TierBasic, TierPremium, TierCustom:
		return true
	}
	return false
}

var ErrCustomerNotFound = errors.New("customer not found")
var ErrDraftNotFound = errors.New("draft not found")
var ErrDraftCommitted = errors.New("draft already committed")
var ErrInvalidContractTier = errors.New("invalid contract tier")
var ErrTooFewStops = errors.New("route requires at least two stops")
var ErrMapViewNotFound = errors.New("map view not found")
var ErrMarkerNotFound = errors.New("marker not found")
var ErrForbidden = errors.New("access forbidden")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Customer is the core aggregate root: one contract-holding client of the
// snow-removal business. Coordinates is nil until the address has been
// geocoded successfully; lat and lng are always set together.
type Customer struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	Name           string       `json:"name" bson:"name"`
	PostalCode     string       `json:"postal_code" bson:"postal_code"`
	Address        string       `json:"address" bson:"address"`
	Phone          string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Email          string       `json:"email,omitempty" bson:"email,omitempty"`
	ContractTier   ContractTier `json:"contract_tier" bson:"contract_tier"`
	RemovalAreaSqm float64      `json:"removal_area_sqm" bson:"removal_area_sqm"`
	ContractStart  time.Time    `json:"contract_start" bson:"contract_start"`
	ContractEnd    time.Time    `json:"contract_end" bson:"contract_end"`
	BillingAmount  float64      `json:"billing_amount" bson:"billing_amount"`
	Coordinates    *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updated_at"`
}

// postalCodeLength is the length of a complete Japanese postal code.
const postalCodeLength = 7

// NormalizePostalCode strips every non-digit rune, so "123-4567" and
// "１２３-４５６７"-style separators both collapse to "1234567".
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCompletePostalCode reports whether code is a fully entered,
// already-normalized postal code.
func IsCompletePostalCode(code string) bool {
	return len(code) == postalCodeLength
}
