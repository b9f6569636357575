package handlers

import (
	"net/http"
	"net/url"
	"testing"
)

func TestServeRedirectQueryChannel(t *testing.T) {
	rec := doRequest(t, "/redirect?clinic_id=1&rank=2&region_id=013")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "https://omt.example/r2" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeRedirectRelayedFragment(t *testing.T) {
	// The intermediate page relays the fragment payload as ?params=<json>.
	payload := `{"clinic_id":"2","rank":"1","region_id":"027"}`
	rec := doRequest(t, "/redirect?params="+url.QueryEscape(payload))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "https://zenyum.example/r1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeRedirectStoredChannel(t *testing.T) {
	payload := `{"clinic_id":"1","rank":"1","region_id":"013"}`
	rec := doRequest(t, "/redirect?stored="+url.QueryEscape(payload))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "https://omt.example/r1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeRedirectRankFallback(t *testing.T) {
	// Rank 5 has no URL of its own; the rank-1 URL serves instead.
	rec := doRequest(t, "/redirect?clinic_id=1&rank=5")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://omt.example/r1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeRedirectManualFallback(t *testing.T) {
	// Nothing recoverable: a 200 with guidance, never an error page.
	rec := doRequest(t, "/redirect")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ManualFallbackResponse
	decodeBody(t, rec, &resp)
	if resp.Recovered {
		t.Error("expected recovered=false")
	}
}

func TestServeRedirectOfficialSiteFallback(t *testing.T) {
	// Clinic 4 has no target URLs: resolution fails and the official site is
	// offered as a manual link.
	rec := doRequest(t, "/redirect?clinic_id=4&rank=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ManualFallbackResponse
	decodeBody(t, rec, &resp)
	if resp.Recovered {
		t.Error("expected recovered=false")
	}
	if resp.URL != "https://kireiline.example" {
		t.Errorf("fallback URL = %q", resp.URL)
	}
}

func TestServeRedirectNoFallbackURL(t *testing.T) {
	// Clinic 3 has no target URLs and no official site either.
	rec := doRequest(t, "/redirect?clinic_id=3&rank=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ManualFallbackResponse
	decodeBody(t, rec, &resp)
	if resp.Recovered || resp.URL != "" {
		t.Errorf("expected empty fallback, got %+v", resp)
	}
}

func TestServeRedirectResolve(t *testing.T) {
	rec := doRequest(t, "/redirect/resolve?clinic_id=1&rank=2&region_id=013")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp RedirectResolution
	decodeBody(t, rec, &resp)
	if resp.URL != "https://omt.example/r2" || resp.Source != "query" {
		t.Errorf("unexpected resolution: %+v", resp)
	}
	if resp.Params.ClinicID != "1" || resp.Params.Rank != "2" {
		t.Errorf("params not echoed: %+v", resp.Params)
	}
}

func TestServeRedirectResolveErrors(t *testing.T) {
	for _, target := range []string{
		"/redirect/resolve",
		"/redirect/resolve?clinic_id=99&rank=1",
	} {
		rec := doRequest(t, target)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}
}
