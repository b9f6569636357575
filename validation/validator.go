// Package validation provides catalog integrity checks and request input
// validation for the ranking API.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rankpage/clinicrank-api/catalogparser"
	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/interfaces"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/resolver"
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Region ids and clinic codes: alphanumeric plus hyphen and underscore
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

	// Dangerous patterns as strings (strings.Contains is faster than regex
	// for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateCatalog checks the integrity conditions a catalog must satisfy to
// be servable. Every region resolution path ultimately lands on the Tokyo
// ranking, so a catalog without one cannot serve any region at all.
func (v *DataValidatorImpl) ValidateCatalog(catalog *entities.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalog is nil")
	}

	if len(catalog.Regions) == 0 {
		return fmt.Errorf("no regions found")
	}

	if len(catalog.Clinics) == 0 {
		return fmt.Errorf("no clinics found")
	}

	regionIDs := make(map[string]bool, len(catalog.Regions))
	for _, region := range catalog.Regions {
		if strings.TrimSpace(region.ID) == "" {
			return fmt.Errorf("region with empty id: %q", region.Name)
		}
		if regionIDs[region.ID] {
			return fmt.Errorf("duplicate region id found: %s", region.ID)
		}
		regionIDs[region.ID] = true
	}

	clinicIDs := make(map[string]bool, len(catalog.Clinics))
	for _, clinic := range catalog.Clinics {
		if strings.TrimSpace(clinic.ID) == "" {
			return fmt.Errorf("clinic with empty id: %q", clinic.Name)
		}
		if clinicIDs[clinic.ID] {
			return fmt.Errorf("duplicate clinic id found: %s", clinic.ID)
		}
		clinicIDs[clinic.ID] = true
	}

	if _, ok := catalog.RankingsByRegion[resolver.TokyoRegionID]; !ok {
		return fmt.Errorf("ranking for fallback region %s is missing", resolver.TokyoRegionID)
	}

	return nil
}

// ReportDataQuality collects advisory data issues. None of these block
// serving; they are logged so the source sheets can be corrected.
func (v *DataValidatorImpl) ReportDataQuality(catalog *entities.Catalog) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		RankedClinicsMissing: []string{},
		ViewStoreIDsMissing:  []string{},
		DuplicateStoreIDs:    []string{},
	}

	if catalog == nil {
		return report
	}

	// Check 1: ranking slots referencing clinics absent from the clinic list
	for _, ranking := range catalog.Rankings {
		for _, clinicID := range ranking.Ranks {
			if clinicID == "" || clinicID == "-" {
				continue
			}
			if _, ok := catalog.ClinicsByID[clinicID]; !ok {
				report.RankedClinicsMissing = appendUnique(report.RankedClinicsMissing, clinicID)
			}
		}
	}

	// Check 2: store view entries listing store ids with no matching store
	for _, view := range catalog.StoreViews {
		for _, composite := range view.ClinicStores {
			for _, ids := range composite {
				for _, id := range strings.Split(ids, "/") {
					id = strings.TrimSpace(id)
					if id == "" || id == "-" {
						continue
					}
					if _, ok := catalog.StoresByID[id]; !ok {
						report.ViewStoreIDsMissing = appendUnique(report.ViewStoreIDsMissing, id)
					}
				}
			}
		}
	}

	// Check 3: duplicate store ids
	storeIDCount := make(map[string]int, len(catalog.Stores))
	for _, store := range catalog.Stores {
		storeIDCount[store.ID]++
	}
	for id, count := range storeIDCount {
		if count > 1 {
			report.DuplicateStoreIDs = append(report.DuplicateStoreIDs, id)
		}
	}

	// Check 4: stores whose address matched no region name
	for _, store := range catalog.Stores {
		if store.RegionID == "" {
			report.StoresWithoutRegion++
		}
	}

	// Check 5: clinics with no clinic text entry
	for _, clinic := range catalog.Clinics {
		if _, ok := catalog.ClinicTexts[catalogparser.FoldKey(clinic.Name)]; !ok {
			report.ClinicsWithoutTexts++
		}
	}

	if len(report.DuplicateStoreIDs) > 0 {
		logging.Error("Duplicate store ids detected",
			"count", len(report.DuplicateStoreIDs),
			"duplicates", report.DuplicateStoreIDs,
		)
	}

	return report
}

// ValidateInput validates request input strings against injection payloads.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 100 {
		return fmt.Errorf("input too long: maximum 100 characters")
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !identifierRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, hyphens and underscores are allowed")
	}

	return nil
}

// ValidateRegionID checks a region id request parameter and returns its
// canonical zero-padded form. "0" and "000" are the nationwide pseudo-region
// and pass through as "000".
func (v *DataValidatorImpl) ValidateRegionID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("region id cannot be empty")
	}

	if len(trimmed) > 10 {
		return "", fmt.Errorf("region id too long")
	}

	// strconv.Atoi validates that input contains only digits
	if _, err := strconv.Atoi(trimmed); err != nil {
		return "", fmt.Errorf("region id contains invalid characters. Only numeric characters are allowed")
	}

	return catalogparser.CanonicalRegionID(trimmed), nil
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
