package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/data"
)

func populatedContainer() *data.DataContainer {
	dc := data.NewDataContainer()
	catalog := &entities.Catalog{
		Regions:  []entities.Region{{ID: "013", Name: "Tokyo"}},
		Clinics:  []entities.Clinic{{ID: "1", Name: "Oh my teeth", Code: "omt"}},
		Rankings: []entities.Ranking{{RegionID: "013", Ranks: map[string]string{"no1": "1"}}},
	}
	catalog.BuildIndexes()
	dc.UpdateCatalog(catalog)
	return dc
}

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(populatedContainer())

	status, data, httpStatus := checker.HealthCheck()
	if status != "healthy" {
		t.Errorf("expected healthy, got %s", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("expected 200, got %d", httpStatus)
	}
	if data["regions"] != 1 || data["clinics"] != 1 {
		t.Errorf("unexpected counts in health data: %v", data)
	}
	if data["next_reload"] == "" {
		t.Error("expected next_reload to be set")
	}
}

func TestHealthCheckUnhealthyWithoutData(t *testing.T) {
	checker := NewHealthChecker(data.NewDataContainer())

	status, _, httpStatus := checker.HealthCheck()
	if status != "unhealthy" {
		t.Errorf("expected unhealthy for empty catalog, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", httpStatus)
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	checker := NewHealthChecker(data.NewDataContainer())

	next := checker.CalculateNextUpdate()
	if !next.After(time.Now()) {
		t.Error("next update must be in the future")
	}

	hour := next.Hour()
	if hour != 6 && hour != 18 {
		t.Errorf("next update must fall on a reload slot, got hour %d", hour)
	}
	if next.Minute() != 0 || next.Second() != 0 {
		t.Error("next update must be on the hour")
	}
}
