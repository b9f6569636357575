// Package scheduler reloads the catalog data files on a fixed schedule and
// monitors their staleness. The catalog is regenerated upstream around the
// reload times, so the service re-reads the files at 06:00 and 18:00 and
// swaps the result in atomically.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rankpage/clinicrank-api/interfaces"
	"github.com/rankpage/clinicrank-api/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler drives the periodic catalog reload with injected dependencies.
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.CatalogParser
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
	stopMon   chan struct{}
}

// NewScheduler creates a scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.CatalogParser, validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
		stopMon:   make(chan struct{}),
	}
}

// Start performs the initial synchronous load (fatal on error: serving
// without a catalog is pointless) and schedules reloads at 06:00 and 18:00.
func (s *Scheduler) Start() error {
	if err := s.reloadCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.reloadCatalog(); err != nil {
			// A failed reload keeps the previous catalog serving.
			logging.Error("Scheduled catalog reload failed, keeping previous catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog reloads", "error", err)
		return fmt.Errorf("failed to schedule catalog reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler and the staleness monitor.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopMon)
}

// reloadCatalog loads, validates and swaps in a fresh catalog.
func (s *Scheduler) reloadCatalog() error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Catalog reload already in progress, skipping")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting catalog reload")
	start := time.Now()

	catalog, err := s.parser.LoadCatalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := s.validator.ValidateCatalog(catalog); err != nil {
		return fmt.Errorf("catalog failed integrity validation: %w", err)
	}

	report := s.validator.ReportDataQuality(catalog)
	s.logQualityReport(report)

	s.dataStore.UpdateCatalog(catalog)

	logging.Info("Catalog reload completed",
		"duration", time.Since(start).String(),
		"regions", len(catalog.Regions),
		"clinics", len(catalog.Clinics),
		"stores", len(catalog.Stores),
		"rankings", len(catalog.Rankings),
	)
	return nil
}

// logQualityReport surfaces the advisory findings so broken sheet rows get
// fixed without taking the service down.
func (s *Scheduler) logQualityReport(report *interfaces.DataQualityReport) {
	if len(report.RankedClinicsMissing) > 0 {
		logging.Warn("Rankings reference unknown clinics",
			"count", len(report.RankedClinicsMissing),
			"clinic_ids", report.RankedClinicsMissing,
		)
	}
	if len(report.ViewStoreIDsMissing) > 0 {
		logging.Warn("Store views list unknown store ids",
			"count", len(report.ViewStoreIDsMissing),
			"store_ids", report.ViewStoreIDsMissing,
		)
	}
	if len(report.DuplicateStoreIDs) > 0 {
		logging.Warn("Duplicate store ids detected",
			"count", len(report.DuplicateStoreIDs),
			"store_ids", report.DuplicateStoreIDs,
		)
	}
	if report.StoresWithoutRegion > 0 {
		logging.Warn("Stores with no inferable region", "count", report.StoresWithoutRegion)
	}
	if report.ClinicsWithoutTexts > 0 {
		logging.Warn("Clinics without text entries", "count", report.ClinicsWithoutTexts)
	}
}

// startStalenessMonitoring warns when the catalog has missed both daily
// reload windows.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopMon:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Catalog has not been reloaded in over 25 hours",
						"last_update", lastUpdate.Format(time.RFC3339))
				}
			}
		}
	}()
}
