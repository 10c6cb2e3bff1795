package domain

import (
	"reflect"
	"testing"
)

func TestParseEntityType(t *testing.T) {
	cases := []struct {
		in   string
		want EntityType
		ok   bool
	}{
		{"contacts", EntityContact, true},
		{"companies", EntityCompany, true},
		{"  Contacts ", EntityContact, true},
		{"COMPANIES", EntityCompany, true},
		{"contact", "", false},
		{"widgets", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseEntityType(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseEntityType(%q) = (%q, %v); want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestContact_DisplayName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Jon", "Smith", "Jon Smith"},
		{"  Jon ", " Smith ", "Jon Smith"},
		{"Jon", "", "Jon"},
		{"", "Smith", "Smith"},
		{"", "", ""},
	}
	for _, tc := range cases {
		c := Contact{FirstName: tc.first, LastName: tc.last}
		if got := c.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%q, %q) = %q; want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestDefaultMatchingConfig(t *testing.T) {
	cfg := DefaultMatchingConfig("t1", EntityCompany)
	if cfg.TenantID != "t1" || cfg.EntityType != EntityCompany {
		t.Fatalf("identity fields wrong: %+v", cfg)
	}
	if cfg.SimilarityThreshold != DefaultSimilarityThreshold || !cfg.AutoDetectionEnabled {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
}

func TestMergeRecord_TransferCounts(t *testing.T) {
	var m MergeRecord
	counts := map[string]int{"deals": 3, "notes": 1}
	if err := m.SetTransferCounts(counts); err != nil {
		t.Fatalf("SetTransferCounts: %v", err)
	}
	if got := m.TransferCountMap(); !reflect.DeepEqual(got, counts) {
		t.Fatalf("round trip = %v; want %v", got, counts)
	}

	// Empty and malformed payloads read as empty maps.
	m.TransferCounts = ""
	if got := m.TransferCountMap(); len(got) != 0 {
		t.Fatalf("empty payload = %v; want empty", got)
	}
	m.TransferCounts = "{nope"
	if got := m.TransferCountMap(); len(got) != 0 {
		t.Fatalf("malformed payload = %v; want empty", got)
	}
}
