package resolver

import (
	"fmt"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// unrankedSentinel marks a ranking position with no clinic assigned.
const unrankedSentinel = "-"

// maxRankPositions bounds the enumerated positions no1..no5.
const maxRankPositions = 5

// RankEntry is one resolved ranking slot: the numeric position and the id of
// the clinic occupying it.
type RankEntry struct {
	Position int    `json:"position"`
	ClinicID string `json:"clinicId"`
}

// RankingForRegion returns the ranking to display for a region id. The id is
// first mapped to a hub region; the nationwide pseudo-region and Hokkaido
// both resolve to the Tokyo ranking. When even the mapped region has no
// ranking the Tokyo ranking is served, and only a catalog that lost its
// Tokyo ranking (a data-integrity failure caught at load) yields an empty
// result.
func (r *Resolver) RankingForRegion(regionID string) entities.Ranking {
	mapped := r.MapRegionID(regionID)

	target := mapped
	if mapped == NationwideRegionID || mapped == HokkaidoRegionID {
		target = TokyoRegionID
	}

	padded, unpadded := regionIDForms(target)
	if ranking, ok := r.rankingByForms(target, padded, unpadded); ok {
		return ranking
	}

	logging.Warn("No ranking for mapped region, serving Tokyo ranking",
		"region_id", regionID, "mapped_region_id", target)
	metrics.LookupMissTotal.WithLabelValues("ranking").Inc()

	if ranking, ok := r.catalog.RankingsByRegion[TokyoRegionID]; ok {
		return ranking
	}

	// The load-time validator rejects catalogs without a Tokyo ranking, so
	// this is unreachable with validated data.
	logging.Error("Tokyo ranking missing from catalog, serving empty ranking")
	return entities.Ranking{RegionID: target, Ranks: map[string]string{}}
}

// RankedClinics enumerates a ranking's positions no1..no5 in ascending order,
// skipping unranked positions. The returned order is the display order.
func RankedClinics(ranking entities.Ranking) []RankEntry {
	entries := make([]RankEntry, 0, maxRankPositions)
	for position := 1; position <= maxRankPositions; position++ {
		clinicID := ranking.Ranks[fmt.Sprintf("no%d", position)]
		if clinicID == "" || clinicID == unrankedSentinel {
			continue
		}
		entries = append(entries, RankEntry{Position: position, ClinicID: clinicID})
	}
	return entries
}

// RankOfClinic returns the position a clinic holds in the region's resolved
// ranking, or 1 when the clinic is not ranked there (the top slot's outbound
// URL is the safest substitute).
func (r *Resolver) RankOfClinic(regionID, clinicID string) int {
	for _, entry := range RankedClinics(r.RankingForRegion(regionID)) {
		if entry.ClinicID == clinicID {
			return entry.Position
		}
	}
	return 1
}

func (r *Resolver) rankingByForms(forms ...string) (entities.Ranking, bool) {
	for _, form := range forms {
		if ranking, ok := r.catalog.RankingsByRegion[form]; ok {
			return ranking, true
		}
	}
	return entities.Ranking{}, false
}
