package resolver

import (
	"testing"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
)

// testCatalog builds the fixture every resolver test runs against: five hub
// regions with rankings, one non-hub region with its own ranking, and a
// handful of clinics with text entries.
func testCatalog() *entities.Catalog {
	catalog := &entities.Catalog{
		Regions: []entities.Region{
			{ID: "001", Name: "Hokkaido"},
			{ID: "013", Name: "Tokyo"},
			{ID: "014", Name: "Kanagawa"},
			{ID: "023", Name: "Aichi"},
			{ID: "027", Name: "Osaka"},
			{ID: "028", Name: "Hyogo"},
			{ID: "040", Name: "Fukuoka"},
		},
		Clinics: []entities.Clinic{
			{ID: "1", Name: "Oh my teeth", Code: "omt"},
			{ID: "2", Name: "Zenyum", Code: "zenyum"},
			{ID: "3", Name: "WhiteSmile", Code: "ws"},
			{ID: "4", Name: "Invisalign", Code: "invsalign"},
			{ID: "5", Name: "Kireiline Ortho", Code: "kireil"},
		},
		Stores: []entities.Store{
			{ID: "s1", ClinicName: "Oh my teeth", StoreName: "Shibuya", Address: "Tokyo Shibuya 1-2-3", RegionID: "013"},
			{ID: "s2", ClinicName: "Oh my teeth", StoreName: "Shinjuku", Address: "Tokyo Shinjuku 4-5-6", RegionID: "013"},
			{ID: "s3", ClinicName: "Oh my teeth", StoreName: "Yokohama", Address: "Kanagawa Yokohama 7-8", RegionID: "014"},
			{ID: "s4", ClinicName: "Zenyum", StoreName: "Umeda", Address: "Osaka Umeda 9", RegionID: "027"},
		},
		Rankings: []entities.Ranking{
			{RegionID: "013", Ranks: map[string]string{
				"no1": "1", "no2": "2", "no3": "-", "no4": "3", "no5": "",
			}},
			{RegionID: "014", Ranks: map[string]string{"no1": "5", "no2": "1"}},
			{RegionID: "023", Ranks: map[string]string{"no1": "2"}},
			{RegionID: "027", Ranks: map[string]string{"no1": "3", "no2": "2"}},
			{RegionID: "028", Ranks: map[string]string{"no1": "1"}},
			{RegionID: "040", Ranks: map[string]string{"no1": "4"}},
		},
		StoreViews: []entities.StoreView{
			{RegionID: "013", ClinicStores: map[string][]string{
				"omt_stores":    {"s1", "s2/s3"},
				"zenyum_stores": {"-"},
			}},
			{RegionID: "027", ClinicStores: map[string][]string{
				"zenyum_stores": {"s4"},
			}},
		},
		Campaigns: []entities.Campaign{
			{ID: "c1", RegionID: "013", ClinicID: "1", Title: "Tokyo campaign"},
			{ID: "c2", RegionID: "000", ClinicID: "2", Title: "Nationwide campaign"},
		},
		CommonTexts: map[string]string{
			"headline": "Top clinics in {{region}}",
		},
		ClinicTexts: map[string]map[string]string{
			"comparison header configuration": {
				"comparison header 1": "price",
				"comparison header 2": "POINT1",
			},
			"detail field mapping": {
				"Price":         "price",
				"Official site": "official site URL",
			},
			"Oh my teeth": {
				"clinic name":        "Oh my teeth Tokyo",
				"total rating":       "4.8",
				"price":              "300,000 yen",
				"POINT1":             "No attendance needed",
				"push message":       "<deco>Fastest</deco> treatment",
				"logo image path":    "/img/omt.webp",
				"official site URL":  "https://omt.example",
				"target URL (rank 1)": "https://omt.example/r1",
				"target URL (rank 2)": "https://omt.example/r2",
				"detail price":       "From 300,000 yen",
				"review 1 title (cost)":   "Good value",
				"review 1 content (cost)": "Cheaper than expected",
			},
			"Zenyum": {
				"total rating":        "not-a-number",
				"target URL (rank 1)": "https://zenyum.example/r1",
			},
			"Kireiline Ortho": {
				"clinic name": "Kireiline",
			},
		},
	}
	catalog.BuildIndexes()
	return catalog
}

func testResolver() *Resolver {
	return New(testCatalog())
}

func TestCatalogAccessor(t *testing.T) {
	catalog := testCatalog()
	if New(catalog).Catalog() != catalog {
		t.Error("Catalog must return the snapshot the resolver was built on")
	}
}
