// Package interfaces defines the core abstractions of the ranking API so
// that the data container, parser, scheduler and validator can be injected
// and tested independently. The source this service replaces hung all of
// this off one global singleton; here every collaborator is constructed and
// passed explicitly.
package interfaces

import (
	"time"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
)

// DataStore is the contract for catalog storage: thread-safe access to the
// current catalog snapshot with atomic replacement on refresh.
type DataStore interface {
	GetCatalog() *entities.Catalog
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	// UpdateCatalog atomically swaps in a new snapshot.
	UpdateCatalog(catalog *entities.Catalog)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogParser loads the catalog document and text tables from their
// static sources.
type CatalogParser interface {
	LoadCatalog() (*entities.Catalog, error)
}

// Scheduler manages the periodic catalog reload and staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// DataQualityReport summarizes advisory data issues found in a catalog.
// None of these block serving; they are logged so the data sheets can be
// fixed.
type DataQualityReport struct {
	RankedClinicsMissing []string // clinic ids referenced by a ranking but absent from the clinic list
	ViewStoreIDsMissing  []string // store ids listed in a store view with no matching store
	DuplicateStoreIDs    []string
	StoresWithoutRegion  int // stores whose address matched no region name
	ClinicsWithoutTexts  int // clinics with no entry in the clinic text table
}

// DataValidator validates catalog integrity and request inputs.
type DataValidator interface {
	// ValidateCatalog returns an error for integrity failures that make the
	// catalog unservable (no regions, no clinics, missing Tokyo ranking).
	ValidateCatalog(catalog *entities.Catalog) error

	// ReportDataQuality collects the advisory issues.
	ReportDataQuality(catalog *entities.Catalog) *DataQualityReport

	// ValidateInput rejects request strings carrying injection payloads.
	ValidateInput(input string) error

	// ValidateRegionID checks a region id request parameter and returns its
	// canonical form.
	ValidateRegionID(input string) (string, error)
}

// HealthChecker reports system health.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}
