package domain

import "testing"

func TestNormalizePostalCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123-4567", "1234567"},
		{"1234567", "1234567"},
		{"123 4567", "1234567"},
		{"〒123-4567", "1234567"},
		{"12-34", "1234"},
		{"", ""},
		{"abc", ""},
	}

	for _, tc := range cases {
		if got := NormalizePostalCode(tc.in); got != tc.want {
			t.Errorf("NormalizePostalCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsCompletePostalCode(t *testing.T) {
	if !IsCompletePostalCode("1234567") {
		t.Errorf("expected 7-digit code to be complete")
	}
	if IsCompletePostalCode("123456") {
		t.Errorf("expected 6-digit code to be incomplete")
	}
	if IsCompletePostalCode("12345678") {
		t.Errorf("expected 8-digit code to be incomplete")
	}
}

func TestContractTier_IsValid(t *testing.T) {
	for _, tier := range []ContractTier{TierBasic, TierPremium, TierCustom} {
		if !tier.IsValid() {
			t.Errorf("expected tier %q to be valid", tier)
		}
	}
	if ContractTier("gold").IsValid() {
		t.Errorf("expected unknown tier to be invalid")
	}
	if ContractTier("").IsValid() {
		t.Errorf("expected empty tier to be invalid")
	}
}
