package service

import (
	"sort"
	"strings"
	"time"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

// FilterCustomers returns the subset of records satisfying every supplied
// predicate. Empty predicate values impose no constraint. The input slice is
// never mutated; the result is a fresh slice preserving input order.
func FilterCustomers(records []domain.Customer, p ports.Predicates) []domain.Customer {
	out := make([]domain.Customer, 0, len(records))
	for _, c := range records {
		if !matchesPredicates(c, p) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesPredicates(c domain.Customer, p ports.Predicates) bool {
	if !containsFold(c.Name, p.Name) {
		return false
	}
	if !containsFold(c.Address, p.Address) {
		return false
	}
	if !containsFold(c.Phone, p.Phone) {
		return false
	}
	if !containsFold(c.PostalCode, p.PostalCode) {
		return false
	}
	if p.ContractTier != "" && c.ContractTier != p.ContractTier {
		return false
	}
	return true
}

// containsFold reports whether s contains substr case-insensitively.
// An empty substr always matches (predicate absent).
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// comparators is the closed set of per-field three-way comparisons. Each sort
// key has a fixed, type-correct ordering: byte-wise strings.Compare for text
// fields, numeric comparison for amounts and areas, and chronological
// comparison for dates. Mixing kinds under one generic less-than is
// deliberately impossible here.
var comparators = map[ports.SortKey]func(a, b domain.Customer) int{
	ports.SortByName:          func(a, b domain.Customer) int { return strings.Compare(a.Name, b.Name) },
	ports.SortByPostalCode:    func(a, b domain.Customer) int { return strings.Compare(a.PostalCode, b.PostalCode) },
	ports.SortByAddress:       func(a, b domain.Customer) int { return strings.Compare(a.Address, b.Address) },
	ports.SortByPhone:         func(a, b domain.Customer) int { return strings.Compare(a.Phone, b.Phone) },
	ports.SortByEmail:         func(a, b domain.Customer) int { return strings.Compare(a.Email, b.Email) },
	ports.SortByContractTier:  func(a, b domain.Customer) int { return strings.Compare(string(a.ContractTier), string(b.ContractTier)) },
	ports.SortByRemovalArea:   func(a, b domain.Customer) int { return compareFloat(a.RemovalAreaSqm, b.RemovalAreaSqm) },
	ports.SortByBillingAmount: func(a, b domain.Customer) int { return compareFloat(a.BillingAmount, b.BillingAmount) },
	ports.SortByContractStart: func(a, b domain.Customer) int { return compareTime(a.ContractStart, b.ContractStart) },
	ports.SortByContractEnd:   func(a, b domain.Customer) int { return compareTime(a.ContractEnd, b.ContractEnd) },
	ports.SortByCreatedAt:     func(a, b domain.Customer) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	ports.SortByUpdatedAt:     func(a, b domain.Customer) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// SortCustomers orders records by key using a stable sort: records equal
// under the key keep their relative input order. An unknown key leaves the
// input order unchanged. The input slice is never mutated.
func SortCustomers(records []domain.Customer, key ports.SortKey, dir ports.SortDirection) []domain.Customer {
	out := make([]domain.Customer, len(records))
	copy(out, records)

	cmp, ok := comparators[key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == ports.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}
