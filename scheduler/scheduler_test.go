package scheduler

import (
	"fmt"
	"testing"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/data"
	"github.com/rankpage/clinicrank-api/validation"
)

type stubParser struct {
	catalog *entities.Catalog
	err     error
	calls   int
}

func (p *stubParser) LoadCatalog() (*entities.Catalog, error) {
	p.calls++
	return p.catalog, p.err
}

func testCatalog() *entities.Catalog {
	catalog := &entities.Catalog{
		Regions: []entities.Region{{ID: "013", Name: "Tokyo"}},
		Clinics: []entities.Clinic{{ID: "1", Name: "Oh my teeth", Code: "omt"}},
		Rankings: []entities.Ranking{
			{RegionID: "013", Ranks: map[string]string{"no1": "1"}},
		},
		CommonTexts: map[string]string{},
		ClinicTexts: map[string]map[string]string{
			"Oh my teeth": {"clinic name": "Oh my teeth"},
		},
	}
	catalog.BuildIndexes()
	return catalog
}

func TestReloadCatalogSwapsData(t *testing.T) {
	dc := data.NewDataContainer()
	parser := &stubParser{catalog: testCatalog()}
	s := NewScheduler(dc, parser, validation.NewDataValidator())

	if err := s.reloadCatalog(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if parser.calls != 1 {
		t.Errorf("expected one parser call, got %d", parser.calls)
	}
	if len(dc.GetCatalog().Regions) != 1 {
		t.Error("expected reloaded catalog in the container")
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("expected last-updated timestamp after reload")
	}
}

func TestReloadCatalogKeepsOldDataOnLoadError(t *testing.T) {
	dc := data.NewDataContainer()
	good := testCatalog()
	dc.UpdateCatalog(good)

	parser := &stubParser{err: fmt.Errorf("disk gone")}
	s := NewScheduler(dc, parser, validation.NewDataValidator())

	if err := s.reloadCatalog(); err == nil {
		t.Fatal("expected reload error")
	}
	if len(dc.GetCatalog().Regions) != 1 {
		t.Error("previous catalog must keep serving after a failed reload")
	}
}

func TestReloadCatalogRejectsInvalidCatalog(t *testing.T) {
	dc := data.NewDataContainer()
	invalid := testCatalog()
	invalid.Rankings = nil
	invalid.BuildIndexes()

	s := NewScheduler(dc, &stubParser{catalog: invalid}, validation.NewDataValidator())

	if err := s.reloadCatalog(); err == nil {
		t.Fatal("expected validation error for catalog without Tokyo ranking")
	}
	if len(dc.GetCatalog().Regions) != 0 {
		t.Error("invalid catalog must not be swapped in")
	}
}

func TestReloadCatalogSkipsWhenUpdateInProgress(t *testing.T) {
	dc := data.NewDataContainer()
	parser := &stubParser{catalog: testCatalog()}
	s := NewScheduler(dc, parser, validation.NewDataValidator())

	if !dc.BeginUpdate() {
		t.Fatal("could not mark update in progress")
	}
	defer dc.EndUpdate()

	if err := s.reloadCatalog(); err != nil {
		t.Fatalf("concurrent reload must be a silent skip, got: %v", err)
	}
	if parser.calls != 0 {
		t.Error("parser must not run while another update is in progress")
	}
}
