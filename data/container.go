// Package data provides thread-safe storage for the catalog snapshot. The
// whole catalog is held behind one atomic pointer so a scheduled reload
// swaps it in without readers ever observing a partially updated document.
package data

import (
	"sync/atomic"
	"time"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/interfaces"
	"github.com/rankpage/clinicrank-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the current catalog with atomic swap semantics.
type DataContainer struct {
	catalog         atomic.Value // *entities.Catalog
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container holding an empty catalog.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	empty := &entities.Catalog{
		CommonTexts: map[string]string{},
		ClinicTexts: map[string]map[string]string{},
	}
	empty.BuildIndexes()
	dc.catalog.Store(empty)
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetCatalog returns the current catalog snapshot. Never nil.
func (dc *DataContainer) GetCatalog() *entities.Catalog {
	if v := dc.catalog.Load(); v != nil {
		if catalog, ok := v.(*entities.Catalog); ok {
			return catalog
		}
	}

	logging.Warn("Catalog is empty or invalid")
	empty := &entities.Catalog{}
	empty.BuildIndexes()
	return empty
}

// GetLastUpdated returns the timestamp of the last catalog swap.
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true while a reload is in progress.
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime records the process start time.
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the recorded process start time.
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateCatalog atomically swaps in a new catalog snapshot.
func (dc *DataContainer) UpdateCatalog(catalog *entities.Catalog) {
	dc.catalog.Store(catalog)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload. Returns false when another
// reload is already running.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload.
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
