package resolver

import (
	"reflect"
	"testing"
)

func TestClinicTextDirectKey(t *testing.T) {
	r := testResolver()

	if got := r.ClinicText("omt", "price", "fallback"); got != "300,000 yen" {
		t.Errorf("unexpected price text: %q", got)
	}
}

func TestClinicTextDefaultOnMiss(t *testing.T) {
	r := testResolver()

	cases := []struct {
		clinicCode string
		itemKey    string
	}{
		{"omt", "no such key"},
		{"unknown-clinic", "price"},
		{"ws", "price"}, // clinic exists but has no text entries
	}
	for _, c := range cases {
		if got := r.ClinicText(c.clinicCode, c.itemKey, "fallback"); got != "fallback" {
			t.Errorf("ClinicText(%q, %q) = %q, want fallback", c.clinicCode, c.itemKey, got)
		}
	}
}

func TestClinicTextComparisonIndirection(t *testing.T) {
	r := testResolver()

	// comparison1 -> "comparison header 1" -> "price"
	if got := r.ClinicText("omt", "comparison1", ""); got != "300,000 yen" {
		t.Errorf("comparison1 must resolve through the header configuration, got %q", got)
	}
	if got := r.ClinicText("omt", "comparison2", ""); got != "No attendance needed" {
		t.Errorf("comparison2 must resolve to POINT1, got %q", got)
	}
	// Unconfigured slot: the literal key is used and misses.
	if got := r.ClinicText("omt", "comparison7", "fallback"); got != "fallback" {
		t.Errorf("unconfigured comparison slot must fall back, got %q", got)
	}
	// Non-numeric suffix is not a comparison slot.
	if got := r.ClinicText("omt", "comparisonX", "fallback"); got != "fallback" {
		t.Errorf("comparisonX must be treated literally, got %q", got)
	}
}

func TestClinicTextFullWidthKey(t *testing.T) {
	r := testResolver()

	// Full-width letters fold to the same key as half-width.
	if got := r.ClinicText("omt", "ＰＯＩＮＴ１", ""); got != "No attendance needed" {
		t.Errorf("full-width key must fold to POINT1, got %q", got)
	}
}

func TestClinicTextCodeAlias(t *testing.T) {
	r := testResolver()

	// The display name itself works as a lookup code.
	if got := r.ClinicText("Oh my teeth", "price", ""); got != "300,000 yen" {
		t.Errorf("display-name lookup failed: %q", got)
	}
	// Catalog code not present in the alias table still resolves through the
	// clinic list.
	if got := r.ClinicText("kireil", "clinic name", ""); got != "Kireiline" {
		t.Errorf("catalog-code lookup failed: %q", got)
	}
}

func TestClinicRating(t *testing.T) {
	r := testResolver()

	if got := r.ClinicRating("omt", DefaultClinicRating); got != 4.8 {
		t.Errorf("expected 4.8, got %v", got)
	}
	// Unparseable rating falls back.
	if got := r.ClinicRating("zenyum", DefaultClinicRating); got != DefaultClinicRating {
		t.Errorf("expected default rating, got %v", got)
	}
	if got := r.ClinicRating("unknown", DefaultClinicRating); got != DefaultClinicRating {
		t.Errorf("expected default rating for unknown clinic, got %v", got)
	}
}

func TestClinicDisplayName(t *testing.T) {
	r := testResolver()

	if got := r.ClinicDisplayName("omt", "Oh my teeth"); got != "Oh my teeth Tokyo" {
		t.Errorf("unexpected display name: %q", got)
	}
	if got := r.ClinicDisplayName("zenyum", "Zenyum"); got != "Zenyum" {
		t.Errorf("expected catalog name fallback, got %q", got)
	}
}

func TestClinicLogoPath(t *testing.T) {
	r := testResolver()

	if got := r.ClinicLogoPath("omt"); got != "/img/omt.webp" {
		t.Errorf("expected configured logo path, got %q", got)
	}
	// No configured path: conventional location, with the kireil folder alias.
	if got := r.ClinicLogoPath("kireil"); got != "../common_data/images/clinics/kireiline/kireiline-logo.webp" {
		t.Errorf("unexpected fallback logo path: %q", got)
	}
	if got := r.ClinicLogoPath("zenyum"); got != "../common_data/images/clinics/zenyum/zenyum-logo.webp" {
		t.Errorf("unexpected fallback logo path: %q", got)
	}
}

func TestCommonTextPlaceholders(t *testing.T) {
	r := testResolver()

	got := r.CommonText("headline", "", map[string]string{"region": "Tokyo"})
	if got != "Top clinics in Tokyo" {
		t.Errorf("unexpected common text: %q", got)
	}

	if got := r.CommonText("missing", "default", nil); got != "default" {
		t.Errorf("expected default for missing key, got %q", got)
	}
}

func TestProcessDecoTags(t *testing.T) {
	in := "Get <deco>straight teeth</deco> fast"
	want := `Get <span class="deco-text">straight teeth</span> fast`

	if got := ProcessDecoTags(in); got != want {
		t.Errorf("ProcessDecoTags = %q, want %q", got, want)
	}
}

func TestProcessDecoTagsIdempotent(t *testing.T) {
	once := ProcessDecoTags("<deco>a</deco> and <deco>b</deco>")
	twice := ProcessDecoTags(once)
	if once != twice {
		t.Errorf("ProcessDecoTags not idempotent: %q vs %q", once, twice)
	}

	plain := "no markup here"
	if got := ProcessDecoTags(plain); got != plain {
		t.Errorf("text without tags must pass through unchanged, got %q", got)
	}
}

func TestClinicReviews(t *testing.T) {
	r := testResolver()

	reviews := r.ClinicReviews("omt")
	if len(reviews.Cost) != 1 {
		t.Fatalf("expected one cost review, got %d", len(reviews.Cost))
	}
	if reviews.Cost[0].Title != "Good value" {
		t.Errorf("unexpected review title: %q", reviews.Cost[0].Title)
	}
	// Tabs with no complete title+content pairs stay empty.
	if len(reviews.Access) != 0 || len(reviews.Staff) != 0 {
		t.Errorf("expected empty access/staff reviews, got %+v", reviews)
	}
}

func TestClinicDetail(t *testing.T) {
	r := testResolver()

	detail := r.ClinicDetail("1")
	want := map[string]string{
		"Price":         "From 300,000 yen",
		"Official site": "https://omt.example",
	}
	if !reflect.DeepEqual(detail, want) {
		t.Errorf("ClinicDetail = %v, want %v", detail, want)
	}

	if got := r.ClinicDetail("99"); len(got) != 0 {
		t.Errorf("unknown clinic must yield an empty detail map, got %v", got)
	}
}
