package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rankpage/clinicrank-api/catalogparser"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// Reserved keys in the clinic text table. "comparison header configuration"
// and "detail field mapping" hold indirection tables, not clinic copy.
const (
	keyHeaderConfig       = "comparison header configuration"
	keyDetailFieldMapping = "detail field mapping"
	keyTotalRating        = "total rating"
	keyClinicName         = "clinic name"
	keyLogoPath           = "logo image path"
	keyOfficialSiteURL    = "official site URL"
)

// DefaultClinicRating is served when a clinic has no parseable rating.
const DefaultClinicRating = 4.5

// codeAliases maps known clinic code variants (including historical
// misspellings and the display names themselves) to the display name used
// as the clinic text table key.
var codeAliases = map[string]string{
	"omt":            "Oh my teeth",
	"Oh my teeth":    "Oh my teeth",
	"zenyum":         "Zenyum",
	"Zenyum":         "Zenyum",
	"kireiline":      "Kireiline Ortho",
	"Kireiline Ortho": "Kireiline Ortho",
	"ws":             "WhiteSmile",
	"WhiteSmile":     "WhiteSmile",
	"invsalign":      "Invisalign",
	"Invisalign":     "Invisalign",
}

var decoTagPattern = regexp.MustCompile(`<deco>(.*?)</deco>`)

// ClinicText looks up one clinic text value by clinic code and item key,
// returning the caller's default when either the clinic or the key is
// absent. Generic comparison slot keys ("comparison1".."comparison9") are
// first indirected through the header configuration; an unconfigured slot
// key is used literally.
func (r *Resolver) ClinicText(clinicCode, itemKey, defaultValue string) string {
	actualKey := r.resolveComparisonKey(catalogparser.FoldKey(itemKey))

	clinicName := r.clinicNameForCode(clinicCode)
	if clinicName == "" {
		metrics.LookupMissTotal.WithLabelValues("clinic_text").Inc()
		return defaultValue
	}

	items, ok := r.catalog.ClinicTexts[catalogparser.FoldKey(clinicName)]
	if !ok {
		logging.Warn("No text entries for clinic", "clinic", clinicName)
		metrics.LookupMissTotal.WithLabelValues("clinic_text").Inc()
		return defaultValue
	}

	if value := items[actualKey]; value != "" {
		return value
	}

	if isImportantTextKey(actualKey) {
		logging.Warn("Important clinic text missing, using default",
			"clinic", clinicName, "key", actualKey, "default", defaultValue)
	}
	metrics.LookupMissTotal.WithLabelValues("clinic_text").Inc()
	return defaultValue
}

// resolveComparisonKey maps a generic "comparisonN" slot through the header
// configuration table to the concrete item key shown in that column.
func (r *Resolver) resolveComparisonKey(itemKey string) string {
	suffix, found := strings.CutPrefix(itemKey, "comparison")
	if !found || suffix == "" {
		return itemKey
	}
	if _, err := strconv.Atoi(suffix); err != nil {
		return itemKey
	}

	headerConfig, ok := r.catalog.ClinicTexts[keyHeaderConfig]
	if !ok {
		return itemKey
	}
	if concrete := headerConfig[catalogparser.FoldKey("comparison header "+suffix)]; concrete != "" {
		return catalogparser.FoldKey(concrete)
	}
	return itemKey
}

// clinicNameForCode resolves a clinic code to the display name keying the
// text table: first through the static alias table, then through the clinic
// list.
func (r *Resolver) clinicNameForCode(clinicCode string) string {
	folded := catalogparser.FoldKey(clinicCode)
	if name, ok := codeAliases[folded]; ok {
		return name
	}
	if clinic, ok := r.catalog.ClinicsByCode[folded]; ok {
		return clinic.Name
	}
	return ""
}

// isImportantTextKey marks keys whose absence is worth a diagnostic: pricing
// and selling-point copy directly affect conversion.
func isImportantTextKey(key string) bool {
	return strings.Contains(key, "POINT") ||
		key == "price" || key == "cost" || key == "popular plan"
}

// ClinicRating returns the clinic's overall rating parsed from its text
// table, or the default when missing or unparseable.
func (r *Resolver) ClinicRating(clinicCode string, defaultRating float64) float64 {
	raw := r.ClinicText(clinicCode, keyTotalRating, "")
	if raw == "" {
		return defaultRating
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || rating <= 0 {
		return defaultRating
	}
	return rating
}

// ClinicDisplayName returns the clinic's configured display name.
func (r *Resolver) ClinicDisplayName(clinicCode, defaultName string) string {
	return r.ClinicText(clinicCode, keyClinicName, defaultName)
}

// ClinicLogoPath returns the clinic's logo asset path, preferring the
// configured path and falling back to the conventional per-code location.
// The "kireil" code historically shipped its assets under "kireiline".
func (r *Resolver) ClinicLogoPath(clinicCode string) string {
	folder := clinicCode
	if clinicCode == "kireil" {
		folder = "kireiline"
	}
	fallback := fmt.Sprintf("../common_data/images/clinics/%s/%s-logo.webp", folder, folder)
	return r.ClinicText(clinicCode, keyLogoPath, fallback)
}

// CommonText returns a site-wide text value with {{placeholder}} patterns
// substituted from the given map.
func (r *Resolver) CommonText(itemKey, defaultValue string, placeholders map[string]string) string {
	text := defaultValue
	if value, ok := r.catalog.CommonTexts[itemKey]; ok && value != "" {
		text = value
	}
	for key, value := range placeholders {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}

// ProcessDecoTags rewrites the lightweight <deco>...</deco> inline markup to
// styled span markup. Text without deco tags passes through unchanged, which
// also makes the transform idempotent.
func ProcessDecoTags(text string) string {
	if !strings.Contains(text, "<deco>") {
		return text
	}
	return decoTagPattern.ReplaceAllString(text, `<span class="deco-text">$1</span>`)
}

// Review is one customer review entry.
type Review struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Reviews groups a clinic's reviews by the comparison tab they appear under.
type Reviews struct {
	Cost   []Review `json:"cost"`
	Access []Review `json:"access"`
	Staff  []Review `json:"staff"`
}

// ClinicReviews collects up to three reviews per tab from the clinic text
// table. Entries missing either title or content are skipped.
func (r *Resolver) ClinicReviews(clinicCode string) Reviews {
	collect := func(tab string) []Review {
		reviews := make([]Review, 0, 3)
		for i := 1; i <= 3; i++ {
			title := r.ClinicText(clinicCode, fmt.Sprintf("review %d title (%s)", i, tab), "")
			content := r.ClinicText(clinicCode, fmt.Sprintf("review %d content (%s)", i, tab), "")
			if title != "" && content != "" {
				reviews = append(reviews, Review{Title: title, Content: content})
			}
		}
		return reviews
	}

	return Reviews{
		Cost:   collect("cost"),
		Access: collect("access"),
		Staff:  collect("staff"),
	}
}

// ClinicDetail resolves the clinic's detail-section fields through the
// "detail field mapping" indirection: each semantic display label maps to a
// source field looked up with a "detail " prefix, except the official site
// URL which is stored unprefixed.
func (r *Resolver) ClinicDetail(clinicID string) map[string]string {
	clinic, ok := r.catalog.ClinicsByID[clinicID]
	if !ok {
		metrics.LookupMissTotal.WithLabelValues("clinic").Inc()
		return map[string]string{}
	}

	fieldMapping := r.catalog.ClinicTexts[keyDetailFieldMapping]
	detail := make(map[string]string, len(fieldMapping))
	for displayLabel, sourceKey := range fieldMapping {
		if sourceKey == keyOfficialSiteURL {
			detail[displayLabel] = r.ClinicText(clinic.Code, sourceKey, "")
			continue
		}
		detail[displayLabel] = r.ClinicText(clinic.Code, "detail "+sourceKey, "")
	}
	return detail
}
