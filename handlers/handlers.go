// Package handlers provides the HTTP handlers of the ranking API. Handlers
// return structured JSON records; rendering is the static pages' concern.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rankpage/clinicrank-api/catalogparser/entities"
	"github.com/rankpage/clinicrank-api/interfaces"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/resolver"
)

// HTTPHandler serves the API endpoints against the current catalog snapshot.
type HTTPHandler struct {
	dataStore       interfaces.DataStore
	validator       interfaces.DataValidator
	healthChecker   interfaces.HealthChecker
	redirectPageURL string
}

// NewHTTPHandler creates a handler with injected dependencies.
// redirectPageURL is the intermediate page clicks are routed through.
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker, redirectPageURL string) *HTTPHandler {
	return &HTTPHandler{
		dataStore:       dataStore,
		validator:       validator,
		healthChecker:   healthChecker,
		redirectPageURL: redirectPageURL,
	}
}

// engine returns a resolver over the current catalog snapshot. The snapshot
// stays consistent for the whole request even if a reload swaps the catalog
// mid-flight.
func (h *HTTPHandler) engine() *resolver.Resolver {
	return resolver.New(h.dataStore.GetCatalog())
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandler) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandler) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ServeRegions returns the region list.
func (h *HTTPHandler) ServeRegions(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.GetCatalog().Regions)
}

// ServeClinics returns the clinic list.
func (h *HTTPHandler) ServeClinics(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.GetCatalog().Clinics)
}

// RankedClinicView is one enriched ranking entry as the landing pages
// consume it.
type RankedClinicView struct {
	Position    int     `json:"position"`
	ClinicID    string  `json:"clinicId"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	LogoPath    string  `json:"logoPath"`
	PushMessage string  `json:"pushMessage,omitempty"`
	OutboundURL string  `json:"outboundUrl,omitempty"`
	RedirectURL string  `json:"redirectUrl"`
}

// RankingResponse is the resolved ranking for a requested region.
type RankingResponse struct {
	RegionID       string             `json:"regionId"`
	MappedRegionID string             `json:"mappedRegionId"`
	RegionName     string             `json:"regionName"`
	Entries        []RankedClinicView `json:"entries"`
}

// ServeRanking resolves and enriches the ranking for a region.
func (h *HTTPHandler) ServeRanking(w http.ResponseWriter, r *http.Request) {
	regionID, err := h.validator.ValidateRegionID(chi.URLParam(r, "regionId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	eng := h.engine()
	ranking := eng.RankingForRegion(regionID)

	entries := resolver.RankedClinics(ranking)
	views := make([]RankedClinicView, 0, len(entries))
	for _, entry := range entries {
		clinic, ok := eng.Catalog().ClinicsByID[entry.ClinicID]
		if !ok {
			logging.Warn("Ranked clinic missing from catalog", "clinic_id", entry.ClinicID)
			continue
		}

		views = append(views, RankedClinicView{
			Position:    entry.Position,
			ClinicID:    clinic.ID,
			Code:        clinic.Code,
			Name:        eng.ClinicDisplayName(clinic.Code, clinic.Name),
			Rating:      eng.ClinicRating(clinic.Code, resolver.DefaultClinicRating),
			LogoPath:    eng.ClinicLogoPath(clinic.Code),
			PushMessage: resolver.ProcessDecoTags(eng.ClinicText(clinic.Code, "push message", "")),
			OutboundURL: eng.OutboundURL(clinic.Code, entry.Position),
			RedirectURL: eng.BuildRedirectURL(h.redirectPageURL, clinic.ID, entry.Position, regionID, r.URL.Query()),
		})
	}

	h.RespondWithJSON(w, http.StatusOK, RankingResponse{
		RegionID:       regionID,
		MappedRegionID: eng.MapRegionID(regionID),
		RegionName:     eng.RegionName(regionID),
		Entries:        views,
	})
}

// ServeRegionStores returns every store visible in a region (union over the
// region's ranked clinics). The list may be empty, never an error.
func (h *HTTPHandler) ServeRegionStores(w http.ResponseWriter, r *http.Request) {
	regionID, err := h.validator.ValidateRegionID(chi.URLParam(r, "regionId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, h.engine().StoresForRegion(regionID))
}

// ServeClinicStores returns the stores visible for one clinic in a region.
func (h *HTTPHandler) ServeClinicStores(w http.ResponseWriter, r *http.Request) {
	regionID, err := h.validator.ValidateRegionID(chi.URLParam(r, "regionId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	clinicCode := chi.URLParam(r, "clinicCode")
	if err := h.validator.ValidateInput(clinicCode); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, h.engine().StoresForClinicInRegion(clinicCode, regionID))
}

// ClinicTextResponse is one resolved text value.
type ClinicTextResponse struct {
	Code  string `json:"code"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ServeClinicText looks up one clinic text value. The resolver is total, so
// an unknown clinic or key yields an empty value rather than an error.
func (h *HTTPHandler) ServeClinicText(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.validator.ValidateInput(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Item keys are free text ("total rating", "review 1 title (cost)"), so
	// only their length is bounded here; unknown keys resolve to "".
	itemKey := chi.URLParam(r, "itemKey")
	if decoded, err := url.PathUnescape(itemKey); err == nil {
		itemKey = decoded
	}
	if strings.TrimSpace(itemKey) == "" || len(itemKey) > 100 {
		h.RespondWithError(w, http.StatusBadRequest, "invalid item key")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, ClinicTextResponse{
		Code:  code,
		Key:   itemKey,
		Value: resolver.ProcessDecoTags(h.engine().ClinicText(code, itemKey, "")),
	})
}

// ServeCampaigns returns the campaigns for a region: the region's own plus
// nationwide ones.
func (h *HTTPHandler) ServeCampaigns(w http.ResponseWriter, r *http.Request) {
	regionID, err := h.validator.ValidateRegionID(chi.URLParam(r, "regionId"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog := h.dataStore.GetCatalog()
	campaigns := make([]entities.Campaign, 0, len(catalog.Campaigns))
	for _, campaign := range catalog.Campaigns {
		if campaign.RegionID == regionID || campaign.RegionID == resolver.NationwideRegionID {
			campaigns = append(campaigns, campaign)
		}
	}

	h.RespondWithJSON(w, http.StatusOK, campaigns)
}
