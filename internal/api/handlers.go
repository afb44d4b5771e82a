package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/martinsuchenak/assetboard/internal/classify"
	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/overview"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

// Handler handles HTTP requests
type Handler struct {
	overview *overview.Service
	storage  storage.AssetStorage // nil when no local repository is configured
}

// NewHandler creates a new API handler. store may be nil, in which case the
// asset repository routes are not registered.
func NewHandler(svc *overview.Service, store storage.AssetStorage) *Handler {
	return &Handler{overview: svc, storage: store}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Overview
	mux.HandleFunc("GET /api/overview", h.getOverview)
	mux.HandleFunc("POST /api/overview/refresh", h.refreshOverview)
	mux.HandleFunc("GET /api/overview/filter", h.getFilter)
	mux.HandleFunc("PATCH /api/overview/filter", h.updateFilter)
	mux.HandleFunc("PUT /api/overview/filter/include-types", h.setIncludeTypes)
	mux.HandleFunc("POST /api/overview/filter/exclude-types", h.addExcludeTypes)
	mux.HandleFunc("GET /api/overview/realm", h.getRealm)
	mux.HandleFunc("PUT /api/overview/realm", h.setRealm)

	// Asset type metadata
	mux.HandleFunc("GET /api/asset-types/{type}", h.getAssetType)

	// Local asset repository
	if h.storage != nil {
		mux.HandleFunc("GET /api/assets", h.listAssets)
		mux.HandleFunc("POST /api/assets", h.createAsset)
		mux.HandleFunc("GET /api/assets/{id}", h.getAsset)
		mux.HandleFunc("PUT /api/assets/{id}", h.updateAsset)
		mux.HandleFunc("DELETE /api/assets/{id}", h.deleteAsset)
	}
}

// getAssetType handles GET /api/asset-types/{type}
func (h *Handler) getAssetType(w http.ResponseWriter, r *http.Request) {
	assetType := r.PathValue("type")
	if assetType == "" {
		h.writeError(w, http.StatusBadRequest, "asset type required")
		return
	}

	h.writeJSON(w, http.StatusOK, classify.Describe(assetType))
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// internalError logs the error and writes a generic 500 response
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Error("Internal server error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// decodeBody decodes a JSON request body into v. An empty body is an error.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body required")
		}
		return err
	}
	return nil
}

// generateID generates a UUIDv7 for an asset
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
