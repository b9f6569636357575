package resolver

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/metrics"
)

// Redirect parameter names shared with the static pages and the
// intermediate redirect page.
const (
	ParamClinicID = "clinic_id"
	ParamRank     = "rank"
	ParamRegionID = "region_id"

	// Tracking parameters passed through verbatim.
	ParamUTMCreative = "utm_creative"
	ParamGclid       = "gclid"

	// StoredParamsKey is the client-side key/value store entry the pages
	// persist before navigating, read back as the last-resort channel.
	StoredParamsKey = "redirectParams"

	// fragmentPayloadPrefix marks the JSON-encoded fragment channel.
	fragmentPayloadPrefix = "params="
)

// RedirectParams is the tracking triple carried across the redirect hop.
type RedirectParams struct {
	ClinicID string `json:"clinic_id"`
	Rank     string `json:"rank"`
	RegionID string `json:"region_id"`
}

// RankNumber parses the rank, defaulting to 1.
func (p RedirectParams) RankNumber() int {
	rank, err := strconv.Atoi(strings.TrimSpace(p.Rank))
	if err != nil || rank < 1 {
		return 1
	}
	return rank
}

// OutboundURL returns the clinic's configured outbound URL for a rank,
// falling back to the rank-1 URL when the slot has none; "" when the clinic
// has no outbound URL at all.
func (r *Resolver) OutboundURL(clinicCode string, rank int) string {
	if u := r.ClinicText(clinicCode, targetURLKey(rank), ""); u != "" {
		return u
	}
	if rank != 1 {
		return r.ClinicText(clinicCode, targetURLKey(1), "")
	}
	return ""
}

// OutboundURLForClinicID is OutboundURL keyed by clinic id instead of code.
func (r *Resolver) OutboundURLForClinicID(clinicID string, rank int) string {
	clinic, ok := r.catalog.ClinicsByID[clinicID]
	if !ok {
		metrics.LookupMissTotal.WithLabelValues("clinic").Inc()
		return ""
	}
	return r.OutboundURL(clinic.Code, rank)
}

func targetURLKey(rank int) string {
	return fmt.Sprintf("target URL (rank %d)", rank)
}

// BuildRedirectURL constructs the intermediate redirect-page URL for a
// clinic/rank/region triple. The triple travels in the query string AND,
// JSON-encoded, in the URL fragment: fragments are never sent to a server,
// so they survive intermediaries that strip query parameters. Tracking
// values in passthrough (utm_creative, gclid) are appended verbatim.
func (r *Resolver) BuildRedirectURL(redirectPage, clinicID string, rank int, regionID string, passthrough url.Values) string {
	if regionID == "" {
		regionID = TokyoRegionID
	}

	query := url.Values{}
	query.Set(ParamClinicID, clinicID)
	query.Set(ParamRank, strconv.Itoa(rank))
	query.Set(ParamRegionID, regionID)
	for _, name := range []string{ParamUTMCreative, ParamGclid} {
		if v := passthrough.Get(name); v != "" {
			query.Set(name, v)
		}
	}

	payload, err := json.Marshal(RedirectParams{
		ClinicID: clinicID,
		Rank:     strconv.Itoa(rank),
		RegionID: regionID,
	})
	if err != nil {
		// Marshalling a struct of strings cannot fail; keep the URL usable
		// through the query channel regardless.
		logging.Error("Failed to encode redirect fragment payload", "error", err)
		return redirectPage + "?" + query.Encode()
	}

	return redirectPage + "?" + query.Encode() +
		"#" + fragmentPayloadPrefix + url.QueryEscape(string(payload))
}

// RecoverRedirectParams recovers the tracking triple from the three
// redundant channels in priority order: query parameters, URL fragment,
// persisted client store. The returned source names the channel that
// supplied the triple ("query", "fragment", "stored"); ok is false when no
// channel carried a usable clinic id.
func RecoverRedirectParams(query url.Values, fragment, stored string) (params RedirectParams, source string, ok bool) {
	if p, ok := paramsFromValues(query); ok {
		metrics.RedirectRecoveryTotal.WithLabelValues("query").Inc()
		return p, "query", true
	}

	if p, ok := paramsFromFragment(fragment); ok {
		metrics.RedirectRecoveryTotal.WithLabelValues("fragment").Inc()
		return p, "fragment", true
	}

	if p, ok := paramsFromStored(stored); ok {
		metrics.RedirectRecoveryTotal.WithLabelValues("stored").Inc()
		return p, "stored", true
	}

	metrics.RedirectRecoveryTotal.WithLabelValues("none").Inc()
	return RedirectParams{}, "", false
}

func paramsFromValues(values url.Values) (RedirectParams, bool) {
	p := RedirectParams{
		ClinicID: values.Get(ParamClinicID),
		Rank:     values.Get(ParamRank),
		RegionID: values.Get(ParamRegionID),
	}
	return p, p.ClinicID != ""
}

// paramsFromFragment parses either fragment form: "params=<url-encoded
// JSON>" or raw "clinic_id=...&rank=...&region_id=..." pairs.
func paramsFromFragment(fragment string) (RedirectParams, bool) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return RedirectParams{}, false
	}

	if encoded, found := strings.CutPrefix(fragment, fragmentPayloadPrefix); found {
		decoded, err := url.QueryUnescape(encoded)
		if err != nil {
			logging.Warn("Unreadable redirect fragment payload", "error", err)
			return RedirectParams{}, false
		}
		return paramsFromJSON(decoded)
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		logging.Warn("Unreadable redirect fragment", "error", err)
		return RedirectParams{}, false
	}
	return paramsFromValues(values)
}

func paramsFromStored(stored string) (RedirectParams, bool) {
	if strings.TrimSpace(stored) == "" {
		return RedirectParams{}, false
	}
	return paramsFromJSON(stored)
}

// paramsFromJSON decodes the triple tolerating both string and numeric rank
// values, since the client-side serializers emit either.
func paramsFromJSON(payload string) (RedirectParams, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		logging.Warn("Unreadable redirect params payload", "error", err)
		return RedirectParams{}, false
	}

	asString := func(key string) string {
		switch v := raw[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return ""
		}
	}

	p := RedirectParams{
		ClinicID: asString(ParamClinicID),
		Rank:     asString(ParamRank),
		RegionID: asString(ParamRegionID),
	}
	return p, p.ClinicID != ""
}

// ResolveRedirect turns a recovered triple into the final outbound URL. An
// error means no URL could be resolved at all and the caller must present a
// manually clickable fallback instead of leaving the user stranded.
func (r *Resolver) ResolveRedirect(params RedirectParams) (string, error) {
	outbound := r.OutboundURLForClinicID(params.ClinicID, params.RankNumber())
	if outbound == "" {
		return "", fmt.Errorf("no outbound URL for clinic %q rank %d", params.ClinicID, params.RankNumber())
	}
	return outbound, nil
}
