package resolver

import (
	"testing"
)

func TestStoresForClinicInRegion(t *testing.T) {
	r := testResolver()

	stores := r.StoresForClinicInRegion("omt", "013")
	if len(stores) != 3 {
		t.Fatalf("expected 3 stores (one composite entry), got %d", len(stores))
	}
	// Catalog order, composite "s2/s3" expanded.
	for i, want := range []string{"s1", "s2", "s3"} {
		if stores[i].ID != want {
			t.Errorf("store %d = %s, want %s", i, stores[i].ID, want)
		}
	}
}

func TestStoresForClinicSentinelEntry(t *testing.T) {
	r := testResolver()

	// zenyum's Tokyo entry is the "-" placeholder: nothing visible.
	stores := r.StoresForClinicInRegion("zenyum", "013")
	if stores == nil {
		t.Fatal("store list must never be nil")
	}
	if len(stores) != 0 {
		t.Errorf("expected no visible stores, got %d", len(stores))
	}
}

func TestStoresForClinicEmptyOnAnyMiss(t *testing.T) {
	r := testResolver()

	cases := []struct {
		clinicCode string
		regionID   string
	}{
		{"nobody", "013"},  // clinic not in the view
		{"omt", "garbage"}, // unknown region
		{"", ""},           // degenerate input
	}
	for _, c := range cases {
		stores := r.StoresForClinicInRegion(c.clinicCode, c.regionID)
		if stores == nil {
			t.Errorf("StoresForClinicInRegion(%q, %q) returned nil", c.clinicCode, c.regionID)
		}
	}
}

func TestStoresForClinicHubRegionView(t *testing.T) {
	r := testResolver()

	// Ibaraki (008) maps to Tokyo, so the Tokyo store view gates visibility.
	stores := r.StoresForClinicInRegion("omt", "008")
	if len(stores) != 3 {
		t.Errorf("expected the Tokyo view through the hub mapping, got %d stores", len(stores))
	}
}

func TestStoresForClinicFullWidthCode(t *testing.T) {
	r := testResolver()

	stores := r.StoresForClinicInRegion("ｏｍｔ", "013")
	if len(stores) != 3 {
		t.Errorf("full-width clinic code must fold, got %d stores", len(stores))
	}
}

func TestStoresForRegion(t *testing.T) {
	r := testResolver()

	// Tokyo's ranked clinics are 1 (omt), 2 (zenyum), 3 (ws): omt contributes
	// s1..s3, zenyum's entry is the sentinel, ws has no entry.
	stores := r.StoresForRegion("013")
	if len(stores) != 3 {
		t.Fatalf("expected 3 stores, got %d", len(stores))
	}
}

func TestStoresForRegionNoView(t *testing.T) {
	r := testResolver()

	// Kanagawa has its own ranking but no store view and is not in the hub
	// table, so the view lookup misses entirely.
	stores := r.StoresForRegion("014")
	if stores == nil {
		t.Fatal("store list must never be nil")
	}
	if len(stores) != 0 {
		t.Errorf("expected no stores without a view, got %d", len(stores))
	}
}
