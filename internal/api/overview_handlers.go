package api

import (
	"net/http"
	"strings"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
)

// typesRequest is the body of the include/exclude type endpoints
type typesRequest struct {
	Types []string `json:"types"`
}

// realmRequest is the body of PUT /api/overview/realm
type realmRequest struct {
	Realm string `json:"realm"`
}

// filterResponse is returned by the filter mutating endpoints
type filterResponse struct {
	Filter   model.FilterConfig `json:"filter"`
	Overview *model.Overview    `json:"overview"`
}

// getOverview handles GET /api/overview
func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	ov := h.overview.Overview(r.Context())
	log.Debug("Served asset overview", "realm", ov.Realm, "types", len(ov.Summaries), "total", ov.Total)
	h.writeJSON(w, http.StatusOK, ov)
}

// refreshOverview handles POST /api/overview/refresh
func (h *Handler) refreshOverview(w http.ResponseWriter, r *http.Request) {
	ov := h.overview.Refresh(r.Context())
	log.Info("Asset overview refreshed on request", "realm", ov.Realm, "total", ov.Total, "fallback", ov.Fallback)
	h.writeJSON(w, http.StatusOK, ov)
}

// getFilter handles GET /api/overview/filter
func (h *Handler) getFilter(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.overview.Filter())
}

// updateFilter handles PATCH /api/overview/filter
func (h *Handler) updateFilter(w http.ResponseWriter, r *http.Request) {
	var partial model.PartialFilterConfig
	if err := decodeBody(r, &partial); err != nil {
		log.Warn("Invalid filter update request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if partial.IsEmpty() {
		h.writeError(w, http.StatusBadRequest, "no filter fields to update")
		return
	}

	cfg, ov := h.overview.UpdateFilter(r.Context(), partial)
	h.writeJSON(w, http.StatusOK, filterResponse{Filter: cfg, Overview: ov})
}

// setIncludeTypes handles PUT /api/overview/filter/include-types
func (h *Handler) setIncludeTypes(w http.ResponseWriter, r *http.Request) {
	var req typesRequest
	if err := decodeBody(r, &req); err != nil {
		log.Warn("Invalid include types request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, ov := h.overview.SetIncludeTypes(r.Context(), req.Types)
	h.writeJSON(w, http.StatusOK, filterResponse{Filter: cfg, Overview: ov})
}

// addExcludeTypes handles POST /api/overview/filter/exclude-types
func (h *Handler) addExcludeTypes(w http.ResponseWriter, r *http.Request) {
	var req typesRequest
	if err := decodeBody(r, &req); err != nil {
		log.Warn("Invalid exclude types request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Types) == 0 {
		h.writeError(w, http.StatusBadRequest, "types is required")
		return
	}

	cfg, ov := h.overview.AddExcludeTypes(r.Context(), req.Types)
	h.writeJSON(w, http.StatusOK, filterResponse{Filter: cfg, Overview: ov})
}

// getRealm handles GET /api/overview/realm
func (h *Handler) getRealm(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, realmRequest{Realm: h.overview.Realm()})
}

// setRealm handles PUT /api/overview/realm
func (h *Handler) setRealm(w http.ResponseWriter, r *http.Request) {
	var req realmRequest
	if err := decodeBody(r, &req); err != nil {
		log.Warn("Invalid realm request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	realm := strings.TrimSpace(req.Realm)
	if realm == "" {
		h.writeError(w, http.StatusBadRequest, "realm is required")
		return
	}

	refreshed := h.overview.SetRealm(r.Context(), realm)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"realm":     realm,
		"refreshed": refreshed,
	})
}
