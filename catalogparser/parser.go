// Package catalogparser loads the compiled catalog document and the layered
// text tables from static JSON files into an entities.Catalog. The compiled
// document is mandatory; the text tables are optional overlays that degrade
// to empty maps when missing or unreadable.
package catalogparser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
)

const (
	compiledDataFile = "compiled-data.json"
	commonTextsFile  = "site-common-texts.json"
	clinicTextsFile  = "clinic-texts.json"
)

// Parser reads catalog data from a site data directory plus an optional
// shared common-data directory whose text table overrides the local one.
type Parser struct {
	dataDir       string
	commonDataDir string
}

// New creates a parser rooted at the given directories. commonDataDir may be
// empty when the site carries no shared overlay.
func New(dataDir, commonDataDir string) *Parser {
	return &Parser{dataDir: dataDir, commonDataDir: commonDataDir}
}

// compiledDocument mirrors the on-disk layout of compiled-data.json, which
// nests stores inside their clinics and keys rankings/storeViews by region.
type compiledDocument struct {
	Regions []entities.Region `json:"regions"`
	Clinics []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Code   string `json:"code"`
		Stores []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Address string `json:"address"`
			Zipcode string `json:"zipcode"`
			Access  string `json:"access"`
		} `json:"stores"`
	} `json:"clinics"`
	Rankings   map[string]map[string]string   `json:"rankings"`
	StoreViews map[string]map[string][]string `json:"storeViews"`
	Campaigns  []entities.Campaign            `json:"campaigns"`
}

// LoadCatalog reads and assembles the full catalog. An unreadable or
// unparseable compiled document is a fatal error; missing text tables are
// not.
func (p *Parser) LoadCatalog() (*entities.Catalog, error) {
	doc, err := p.loadCompiledDocument()
	if err != nil {
		return nil, err
	}

	catalog := &entities.Catalog{
		Regions:   make([]entities.Region, 0, len(doc.Regions)),
		Clinics:   make([]entities.Clinic, 0, len(doc.Clinics)),
		Campaigns: make([]entities.Campaign, 0, len(doc.Campaigns)),
	}

	for _, r := range doc.Regions {
		catalog.Regions = append(catalog.Regions, entities.Region{
			ID:   CanonicalRegionID(r.ID),
			Name: strings.TrimSpace(r.Name),
		})
	}

	// Flatten the nested stores while keeping the owning clinic's name on
	// each store record.
	for _, c := range doc.Clinics {
		clinic := entities.Clinic{
			ID:   strings.TrimSpace(c.ID),
			Name: strings.TrimSpace(c.Name),
			Code: FoldKey(c.Code),
		}
		catalog.Clinics = append(catalog.Clinics, clinic)

		for _, s := range c.Stores {
			catalog.Stores = append(catalog.Stores, entities.Store{
				ID:         strings.TrimSpace(s.ID),
				ClinicName: clinic.Name,
				StoreName:  strings.TrimSpace(s.Name),
				Address:    s.Address,
				Zipcode:    s.Zipcode,
				Access:     s.Access,
			})
		}
	}

	for regionID, ranks := range doc.Rankings {
		ranking := entities.Ranking{
			RegionID: CanonicalRegionID(regionID),
			Ranks:    make(map[string]string, len(ranks)),
		}
		for position, clinicID := range ranks {
			ranking.Ranks[position] = strings.TrimSpace(clinicID)
		}
		catalog.Rankings = append(catalog.Rankings, ranking)
	}

	for regionID, clinicStores := range doc.StoreViews {
		view := entities.StoreView{
			RegionID:     CanonicalRegionID(regionID),
			ClinicStores: make(map[string][]string, len(clinicStores)),
		}
		for key, ids := range clinicStores {
			view.ClinicStores[FoldKey(key)] = ids
		}
		catalog.StoreViews = append(catalog.StoreViews, view)
	}

	for _, camp := range doc.Campaigns {
		camp.RegionID = CanonicalRegionID(camp.RegionID)
		catalog.Campaigns = append(catalog.Campaigns, camp)
	}

	associateStoresWithRegions(catalog)

	catalog.CommonTexts = p.loadCommonTexts()
	catalog.ClinicTexts = p.loadClinicTexts()
	catalog.BuildIndexes()

	return catalog, nil
}

func (p *Parser) loadCompiledDocument() (*compiledDocument, error) {
	path := filepath.Join(p.dataDir, compiledDataFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc compiledDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

// associateStoresWithRegions backfills each store's RegionID by substring
// match of its address against region names, first match wins. When one
// region's name appears inside another region's addresses this can
// mis-assign; the source data has the same limitation and the match order
// is deliberately left as-is.
func associateStoresWithRegions(catalog *entities.Catalog) {
	for i := range catalog.Stores {
		for _, region := range catalog.Regions {
			if region.Name == "" {
				continue
			}
			if strings.Contains(catalog.Stores[i].Address, region.Name) {
				catalog.Stores[i].RegionID = region.ID
				break
			}
		}
	}
}
