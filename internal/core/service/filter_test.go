package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

func sampleCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: "a", Name: "A", Address: "Sapporo Chuo-ku", Phone: "011-111", PostalCode: "0600000", ContractTier: domain.TierBasic, BillingAmount: 5000},
		{ID: "b", Name: "B", Address: "Sapporo Kita-ku", Phone: "011-222", PostalCode: "0010000", ContractTier: domain.TierPremium, BillingAmount: 12000},
		{ID: "c", Name: "C", Address: "Otaru", Phone: "0134-333", PostalCode: "0470000", ContractTier: domain.TierPremium, BillingAmount: 8000},
	}
}

func ids(records []domain.Customer) []string {
	out := make([]string, len(records))
	for i, c := range records {
		out[i] = c.ID
	}
	return out
}

func TestFilterCustomers_TierExactMatch(t *testing.T) {
	records := []domain.Customer{
		{ID: "a", Name: "A", ContractTier: domain.TierBasic},
		{ID: "b", Name: "B", ContractTier: domain.TierPremium},
	}

	got := FilterCustomers(records, ports.Predicates{ContractTier: domain.TierPremium})
	if want := []string{"b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestFilterCustomers_AllPredicatesAnded(t *testing.T) {
	got := FilterCustomers(sampleCustomers(), ports.Predicates{
		Address:      "sapporo",
		ContractTier: domain.TierPremium,
	})
	if want := []string{"b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestFilterCustomers_EmptyPredicatesMatchAll(t *testing.T) {
	records := sampleCustomers()
	got := FilterCustomers(records, ports.Predicates{})
	if len(got) != len(records) {
		t.Fatalf("expected all %d records, got %d", len(records), len(got))
	}
}

func TestFilterCustomers_CaseInsensitiveSubstring(t *testing.T) {
	got := FilterCustomers(sampleCustomers(), ports.Predicates{Address: "OTARU"})
	if want := []string{"c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestFilterCustomers_Idempotent(t *testing.T) {
	p := ports.Predicates{Address: "sapporo"}
	once := FilterCustomers(sampleCustomers(), p)
	twice := FilterCustomers(once, p)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("filtering is not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterCustomers_DoesNotMutateInput(t *testing.T) {
	records := sampleCustomers()
	before := ids(records)
	_ = FilterCustomers(records, ports.Predicates{ContractTier: domain.TierPremium})
	if !reflect.DeepEqual(ids(records), before) {
		t.Fatalf("input slice was mutated")
	}
}

func TestSortCustomers_Stable(t *testing.T) {
	// Three records equal under the sort key keep their relative order.
	records := []domain.Customer{
		{ID: "x", Name: "same", BillingAmount: 3},
		{ID: "y", Name: "same", BillingAmount: 1},
		{ID: "z", Name: "same", BillingAmount: 2},
	}

	got := SortCustomers(records, ports.SortByName, ports.SortAsc)
	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("stable sort violated: got %v, want %v", ids(got), want)
	}
}

func TestSortCustomers_NumericKey(t *testing.T) {
	got := SortCustomers(sampleCustomers(), ports.SortByBillingAmount, ports.SortAsc)
	if want := []string{"a", "c", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}

	got = SortCustomers(sampleCustomers(), ports.SortByBillingAmount, ports.SortDesc)
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("desc: got %v, want %v", ids(got), want)
	}
}

func TestSortCustomers_DateKey(t *testing.T) {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.Customer{
		{ID: "late", ContractStart: base.AddDate(0, 1, 0)},
		{ID: "early", ContractStart: base},
	}

	got := SortCustomers(records, ports.SortByContractStart, ports.SortAsc)
	if want := []string{"early", "late"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestSortCustomers_UnknownKeyKeepsOrder(t *testing.T) {
	records := sampleCustomers()
	got := SortCustomers(records, ports.SortKey("bogus"), ports.SortAsc)
	if !reflect.DeepEqual(ids(got), ids(records)) {
		t.Fatalf("unknown key reordered records: %v", ids(got))
	}
}

func TestSortCustomers_DoesNotMutateInput(t *testing.T) {
	records := sampleCustomers()
	before := ids(records)
	_ = SortCustomers(records, ports.SortByBillingAmount, ports.SortDesc)
	if !reflect.DeepEqual(ids(records), before) {
		t.Fatalf("input slice was mutated")
	}
}
