package resolver

import (
	"strconv"
	"strings"

	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// Well-known region ids. Tokyo is the hub of last resort: its ranking is
// guaranteed present in every catalog (enforced at load by validation).
const (
	NationwideRegionID = "000"
	HokkaidoRegionID   = "001"
	TokyoRegionID      = "013"
)

// hubFallbacks maps prefecture codes without their own ranking data to the
// geographically nearest hub region that has it.
var hubFallbacks = map[string]string{
	// Hokkaido / Tohoku
	"001": "013", // Hokkaido -> Tokyo
	"002": "013", // Aomori -> Tokyo
	"003": "013", // Iwate -> Tokyo
	"004": "013", // Miyagi -> Tokyo
	"005": "013", // Akita -> Tokyo
	"006": "013", // Yamagata -> Tokyo
	"007": "013", // Fukushima -> Tokyo

	// Kanto without own data
	"008": "013", // Ibaraki -> Tokyo
	"009": "013", // Tochigi -> Tokyo
	"010": "013", // Gunma -> Tokyo
	"015": "013", // Niigata -> Tokyo

	// Chubu
	"016": "023", // Toyama -> Aichi
	"017": "023", // Ishikawa -> Aichi
	"018": "023", // Fukui -> Aichi
	"019": "023", // Yamanashi -> Aichi
	"020": "023", // Nagano -> Aichi
	"021": "023", // Gifu -> Aichi
	"022": "023", // Shizuoka -> Aichi

	// Kansai
	"024": "027", // Mie -> Osaka
	"025": "027", // Shiga -> Osaka
	"026": "027", // Kyoto -> Osaka
	"029": "027", // Nara -> Osaka
	"030": "027", // Wakayama -> Osaka

	// Chugoku / Shikoku
	"031": "027", // Tottori -> Osaka
	"032": "027", // Shimane -> Osaka
	"033": "028", // Okayama -> Hyogo
	"034": "028", // Hiroshima -> Hyogo
	"035": "028", // Yamaguchi -> Hyogo
	"036": "027", // Tokushima -> Osaka
	"037": "027", // Kagawa -> Osaka
	"038": "027", // Ehime -> Osaka
	"039": "027", // Kochi -> Osaka

	// Kyushu / Okinawa
	"041": "040", // Saga -> Fukuoka
	"042": "040", // Nagasaki -> Fukuoka
	"043": "040", // Kumamoto -> Fukuoka
	"044": "040", // Oita -> Fukuoka
	"045": "040", // Miyazaki -> Fukuoka
	"046": "040", // Kagoshima -> Fukuoka
	"047": "040", // Okinawa -> Fukuoka
}

// regionIDForms returns the candidate forms of a region id in lookup order:
// the input itself, the zero-padded 3-digit form and the unpadded numeric
// form. Non-numeric input yields only the trimmed input.
func regionIDForms(regionID string) (padded, unpadded string) {
	trimmed := strings.TrimSpace(regionID)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return trimmed, trimmed
	}

	unpadded = strconv.Itoa(n)
	padded = unpadded
	for len(padded) < 3 {
		padded = "0" + padded
	}
	return padded, unpadded
}

// MapRegionID normalizes an arbitrary region id to a canonical region id
// that is guaranteed to carry ranking data. It is total and deterministic:
// every input string maps to some hub region.
//
// A region that exists and has its own ranking resolves to itself (in the
// ranking's stored form). The nationwide pseudo-region "000"/"0" stays
// "000"; regions without ranking data follow the static hub fallback table;
// anything else falls back to Tokyo.
func (r *Resolver) MapRegionID(regionID string) string {
	padded, unpadded := regionIDForms(regionID)

	if _, exists := r.catalog.RegionByID(strings.TrimSpace(regionID), padded, unpadded); exists {
		if ranking, ok := r.rankingByForms(strings.TrimSpace(regionID), padded, unpadded); ok {
			return ranking.RegionID
		}
		logging.Debug("Region has no own ranking data, mapping to a hub", "region_id", regionID)
	}

	if padded == NationwideRegionID || unpadded == "0" {
		return NationwideRegionID
	}

	if hub, ok := hubFallbacks[padded]; ok {
		metrics.RegionFallbackTotal.WithLabelValues("hub_table").Inc()
		return hub
	}

	logging.Warn("Unknown region id, falling back to Tokyo", "region_id", regionID)
	metrics.RegionFallbackTotal.WithLabelValues("unknown").Inc()
	return TokyoRegionID
}

// RegionName returns the display name for a region id, tolerating padded and
// unpadded forms; "" when unknown. The nationwide pseudo-region always
// resolves, even when absent from the catalog's region list.
func (r *Resolver) RegionName(regionID string) string {
	padded, unpadded := regionIDForms(regionID)

	if region, ok := r.catalog.RegionByID(strings.TrimSpace(regionID), padded, unpadded); ok {
		return region.Name
	}
	if padded == NationwideRegionID || unpadded == "0" {
		return "Nationwide"
	}
	return ""
}
