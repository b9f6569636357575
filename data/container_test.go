package data

import (
	"sync"
	"testing"
	"time"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
)

func TestNewDataContainer(t *testing.T) {
	dc := NewDataContainer()

	catalog := dc.GetCatalog()
	if catalog == nil {
		t.Fatal("expected non-nil catalog from a fresh container")
	}
	if len(catalog.Regions) != 0 {
		t.Errorf("expected empty catalog, got %d regions", len(catalog.Regions))
	}
	if catalog.RankingsByRegion == nil {
		t.Error("expected indexes built on the empty catalog")
	}
	if dc.IsUpdating() {
		t.Error("fresh container must not report an update in progress")
	}
	if !dc.GetLastUpdated().IsZero() {
		t.Error("fresh container must report zero last-updated time")
	}
}

func TestUpdateCatalog(t *testing.T) {
	dc := NewDataContainer()

	catalog := &entities.Catalog{
		Regions: []entities.Region{{ID: "013", Name: "Tokyo"}},
	}
	catalog.BuildIndexes()

	before := time.Now()
	dc.UpdateCatalog(catalog)

	got := dc.GetCatalog()
	if len(got.Regions) != 1 || got.Regions[0].ID != "013" {
		t.Errorf("expected swapped-in catalog, got %+v", got.Regions)
	}
	if dc.GetLastUpdated().Before(before) {
		t.Error("last-updated must advance on swap")
	}
}

func TestBeginEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("first BeginUpdate should succeed")
	}
	if dc.BeginUpdate() {
		t.Error("second BeginUpdate must fail while an update is running")
	}
	if !dc.IsUpdating() {
		t.Error("IsUpdating should be true between Begin and End")
	}

	dc.EndUpdate()
	if dc.IsUpdating() {
		t.Error("IsUpdating should be false after EndUpdate")
	}
	if !dc.BeginUpdate() {
		t.Error("BeginUpdate should succeed again after EndUpdate")
	}
}

func TestServerStartTime(t *testing.T) {
	dc := NewDataContainer()

	start := time.Now()
	dc.SetServerStartTime(start)
	if !dc.GetServerStartTime().Equal(start) {
		t.Error("server start time round-trip failed")
	}
}

func TestConcurrentAccess(t *testing.T) {
	dc := NewDataContainer()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			catalog := &entities.Catalog{
				Regions: []entities.Region{{ID: "013", Name: "Tokyo"}},
			}
			catalog.BuildIndexes()
			dc.UpdateCatalog(catalog)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if dc.GetCatalog() == nil {
					t.Error("GetCatalog returned nil during concurrent swap")
					return
				}
			}
		}()
	}
	wg.Wait()
}
