// Package entities defines the data model for the clinic ranking catalog:
// regions, clinics, stores, per-region rankings, store visibility views,
// campaigns and the layered text tables. All ids are opaque strings; numeric
// region ids are canonicalized to their zero-padded 3-digit form at ingestion
// so that later lookups never need loose string/number comparison.
package entities

// Region is a geographic catchment used to select which ranking and store
// set is shown. ID is the canonical zero-padded form ("013" for Tokyo).
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clinic is a ranked advertiser. Code is the stable short key used for all
// text and asset lookups; ID is the key used by rankings and store views.
type Clinic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Store is a physical location belonging to a clinic. RegionID is derived at
// load time by substring-matching the address against known region names.
type Store struct {
	ID         string `json:"id"`
	ClinicName string `json:"clinicName"`
	StoreName  string `json:"storeName"`
	Address    string `json:"address"`
	Zipcode    string `json:"zipcode"`
	Access     string `json:"access"`
	RegionID   string `json:"regionId"`
}

// Ranking assigns clinic ids to display positions "no1".."no5" for a region.
// A value of "-" or "" means the position is unranked and must be skipped.
type Ranking struct {
	RegionID string            `json:"regionId"`
	Ranks    map[string]string `json:"ranks"`
}

// StoreView is the authoritative per-region store visibility gate. Keys are
// "<clinicCode>_stores"; a single entry may encode several store ids joined
// by "/".
type StoreView struct {
	RegionID     string              `json:"regionId"`
	ClinicStores map[string][]string `json:"clinicStores"`
}

// Campaign is a regional promotion tied to one clinic.
type Campaign struct {
	ID          string `json:"id"`
	RegionID    string `json:"regionId"`
	ClinicID    string `json:"clinicId"`
	Title       string `json:"title"`
	HeaderText  string `json:"headerText"`
	LogoSrc     string `json:"logoSrc"`
	LogoAlt     string `json:"logoAlt"`
	Description string `json:"description"`
	CtaText     string `json:"ctaText"`
	CtaURL      string `json:"ctaUrl"`
	FooterText  string `json:"footerText"`
}

// Catalog is the full in-memory document a page view resolves against. It is
// built once by the parser and treated as immutable afterwards; refreshes
// swap in a whole new Catalog.
type Catalog struct {
	Regions    []Region    `json:"regions"`
	Clinics    []Clinic    `json:"clinics"`
	Stores     []Store     `json:"stores"`
	Rankings   []Ranking   `json:"rankings"`
	StoreViews []StoreView `json:"storeViews"`
	Campaigns  []Campaign  `json:"campaigns"`

	// CommonTexts is the site-wide text table: local site texts overlaid by
	// the optional shared table (shared keys win on conflict).
	CommonTexts map[string]string `json:"commonTexts"`

	// ClinicTexts maps clinic display name -> item key -> value. The reserved
	// entries "comparison header configuration" and "detail field mapping"
	// hold indirection tables rather than clinic copy.
	ClinicTexts map[string]map[string]string `json:"clinicTexts"`

	// Lookup indexes, built once after load.
	RankingsByRegion   map[string]Ranking   `json:"-"`
	StoreViewsByRegion map[string]StoreView `json:"-"`
	ClinicsByID        map[string]Clinic    `json:"-"`
	ClinicsByCode      map[string]Clinic    `json:"-"`
	StoresByID         map[string]Store     `json:"-"`
}

// BuildIndexes (re)builds the O(1) lookup maps from the slice data.
func (c *Catalog) BuildIndexes() {
	c.RankingsByRegion = make(map[string]Ranking, len(c.Rankings))
	for _, r := range c.Rankings {
		c.RankingsByRegion[r.RegionID] = r
	}

	c.StoreViewsByRegion = make(map[string]StoreView, len(c.StoreViews))
	for _, sv := range c.StoreViews {
		c.StoreViewsByRegion[sv.RegionID] = sv
	}

	c.ClinicsByID = make(map[string]Clinic, len(c.Clinics))
	c.ClinicsByCode = make(map[string]Clinic, len(c.Clinics))
	for _, cl := range c.Clinics {
		c.ClinicsByID[cl.ID] = cl
		if cl.Code != "" {
			c.ClinicsByCode[cl.Code] = cl
		}
	}

	c.StoresByID = make(map[string]Store, len(c.Stores))
	for _, s := range c.Stores {
		c.StoresByID[s.ID] = s
	}
}

// RegionByID returns the region whose canonical id matches any of the given
// candidate forms, in order.
func (c *Catalog) RegionByID(candidates ...string) (Region, bool) {
	for _, id := range candidates {
		for _, r := range c.Regions {
			if r.ID == id {
				return r, true
			}
		}
	}
	return Region{}, false
}
