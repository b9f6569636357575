package resolver

import (
	"strings"

	"github.com/rankpage/clinicrank-api/catalogparser"
	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// storeViewKeySuffix forms the per-clinic key in a store view.
const storeViewKeySuffix = "_stores"

// StoresForClinicInRegion returns the stores visible for one clinic in a
// region. The store view is the authoritative visibility gate: a store is
// included only when its id is listed under the clinic's key for the mapped
// region, regardless of the store's own inferred region. Returns an empty
// slice (never nil) on any miss.
func (r *Resolver) StoresForClinicInRegion(clinicCode, regionID string) []entities.Store {
	view, ok := r.storeViewForRegion(regionID)
	if !ok {
		return []entities.Store{}
	}

	key := catalogparser.FoldKey(clinicCode) + storeViewKeySuffix
	ids := expandStoreIDs(view.ClinicStores[key])
	if len(ids) == 0 {
		metrics.LookupMissTotal.WithLabelValues("store_view_clinic").Inc()
		return []entities.Store{}
	}

	return r.filterStoresByID(ids)
}

// StoresForRegion returns the union of stores visible for every ranked
// clinic in the region, in catalog order. Used for region-level store
// listings that are not tied to a single clinic.
func (r *Resolver) StoresForRegion(regionID string) []entities.Store {
	view, ok := r.storeViewForRegion(regionID)
	if !ok {
		return []entities.Store{}
	}

	ranking := r.RankingForRegion(regionID)

	var listed []string
	for _, entry := range RankedClinics(ranking) {
		clinic, ok := r.catalog.ClinicsByID[entry.ClinicID]
		if !ok {
			logging.Warn("Ranked clinic missing from catalog", "clinic_id", entry.ClinicID)
			continue
		}
		listed = append(listed, view.ClinicStores[clinic.Code+storeViewKeySuffix]...)
	}

	ids := expandStoreIDs(listed)
	if len(ids) == 0 {
		return []entities.Store{}
	}
	return r.filterStoresByID(ids)
}

// storeViewForRegion maps the region to its hub and fetches the store view,
// tolerating padded and unpadded stored forms.
func (r *Resolver) storeViewForRegion(regionID string) (entities.StoreView, bool) {
	mapped := r.MapRegionID(regionID)

	padded, unpadded := regionIDForms(mapped)
	for _, form := range []string{mapped, padded, unpadded} {
		if view, ok := r.catalog.StoreViewsByRegion[form]; ok {
			return view, true
		}
	}

	logging.Warn("No store view for region", "region_id", regionID, "mapped_region_id", mapped)
	metrics.LookupMissTotal.WithLabelValues("store_view").Inc()
	return entities.StoreView{}, false
}

// expandStoreIDs flattens slash-joined composite entries ("dio_009/dio_010")
// into individual store ids.
func expandStoreIDs(listed []string) []string {
	ids := make([]string, 0, len(listed))
	for _, entry := range listed {
		if entry == "" || entry == unrankedSentinel {
			continue
		}
		if strings.Contains(entry, "/") {
			ids = append(ids, strings.Split(entry, "/")...)
			continue
		}
		ids = append(ids, entry)
	}
	return ids
}

// filterStoresByID selects the listed stores from the global store list,
// preserving catalog order.
func (r *Resolver) filterStoresByID(ids []string) []entities.Store {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	stores := make([]entities.Store, 0, len(ids))
	for _, store := range r.catalog.Stores {
		if wanted[store.ID] {
			stores = append(stores, store)
		}
	}
	return stores
}
