package handlers

import (
	"net/http"
	"net/url"

	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/resolver"
)

// recoveryInput assembles the three redundant redirect channels from the
// request. The intermediate page relays the fragment payload as a "params"
// query parameter (fragments never reach the server) and the persisted blob
// as "stored".
func recoveryInput(r *http.Request) (query url.Values, fragment, stored string) {
	query = r.URL.Query()
	if raw := query.Get("params"); raw != "" {
		fragment = "params=" + url.QueryEscape(raw)
	}
	stored = query.Get("stored")
	return query, fragment, stored
}

// ManualFallbackResponse is served when no redirect parameters could be
// recovered from any channel, so the page can show a clickable link instead
// of leaving the visitor stranded.
type ManualFallbackResponse struct {
	Recovered bool   `json:"recovered"`
	Message   string `json:"message"`
	URL       string `json:"url,omitempty"`
}

// ServeRedirect resolves the tracking triple and answers with a 302 to the
// clinic's outbound URL. When recovery or resolution fails it answers 200
// with a manual-fallback payload rather than an error page.
func (h *HTTPHandler) ServeRedirect(w http.ResponseWriter, r *http.Request) {
	query, fragment, stored := recoveryInput(r)

	params, source, ok := resolver.RecoverRedirectParams(query, fragment, stored)
	if !ok {
		logging.Warn("Redirect request with no recoverable parameters", "query", r.URL.RawQuery)
		h.RespondWithJSON(w, http.StatusOK, ManualFallbackResponse{
			Recovered: false,
			Message:   "redirect parameters could not be recovered",
		})
		return
	}

	outbound, err := h.engine().ResolveRedirect(params)
	if err != nil {
		logging.Warn("Redirect resolution failed", "error", err, "source", source)
		h.RespondWithJSON(w, http.StatusOK, ManualFallbackResponse{
			Recovered: false,
			Message:   "no outbound URL is configured for this clinic",
			URL:       h.officialSiteURL(params.ClinicID),
		})
		return
	}

	http.Redirect(w, r, outbound, http.StatusFound)
}

// RedirectResolution is the JSON answer for the intermediate page, which
// performs the final hop client-side.
type RedirectResolution struct {
	URL    string                  `json:"url"`
	Source string                  `json:"source"`
	Params resolver.RedirectParams `json:"params"`
}

// ServeRedirectResolve resolves the triple without redirecting.
func (h *HTTPHandler) ServeRedirectResolve(w http.ResponseWriter, r *http.Request) {
	query, fragment, stored := recoveryInput(r)

	params, source, ok := resolver.RecoverRedirectParams(query, fragment, stored)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "redirect parameters could not be recovered")
		return
	}

	outbound, err := h.engine().ResolveRedirect(params)
	if err != nil {
		h.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, RedirectResolution{
		URL:    outbound,
		Source: source,
		Params: params,
	})
}

// officialSiteURL is the last-resort link for the manual fallback.
func (h *HTTPHandler) officialSiteURL(clinicID string) string {
	catalog := h.dataStore.GetCatalog()
	clinic, ok := catalog.ClinicsByID[clinicID]
	if !ok {
		return ""
	}
	return h.engine().ClinicText(clinic.Code, "official site URL", "")
}
