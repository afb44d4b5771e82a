package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/martinsuchenak/assetboard/internal/storage"
)

// listAssets handles GET /api/assets
func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request) {
	filter := &model.AssetFilter{
		Realm: r.URL.Query().Get("realm"),
		Type:  r.URL.Query().Get("type"),
	}

	log.Debug("Listing assets", "realm", filter.Realm, "type", filter.Type)
	assets, err := h.storage.ListAssets(filter)
	if err != nil {
		log.Error("Failed to list assets", "error", err)
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, assets)
}

// getAsset handles GET /api/assets/{id}
func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "asset ID required")
		return
	}

	asset, err := h.storage.GetAsset(id)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			log.Warn("Asset not found", "id", id)
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		log.Error("Failed to get asset", "error", err, "id", id)
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, asset)
}

// createAsset handles POST /api/assets
func (h *Handler) createAsset(w http.ResponseWriter, r *http.Request) {
	var asset model.Asset
	if err := decodeBody(r, &asset); err != nil {
		log.Warn("Invalid asset creation request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset.Name = strings.TrimSpace(asset.Name)
	asset.Type = strings.TrimSpace(asset.Type)
	if asset.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if asset.Type == "" {
		h.writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	if asset.ID == "" {
		asset.ID = generateID()
	}
	if asset.Realm == "" {
		asset.Realm = h.overview.Realm()
	}

	if err := h.storage.CreateAsset(&asset); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidID):
			h.writeError(w, http.StatusBadRequest, "invalid asset ID")
		case errors.Is(err, storage.ErrAssetExists):
			log.Warn("Asset creation failed - already exists", "id", asset.ID)
			h.writeError(w, http.StatusConflict, "asset already exists")
		default:
			log.Error("Failed to create asset", "error", err, "name", asset.Name)
			h.internalError(w, err)
		}
		return
	}

	log.Info("Asset created", "id", asset.ID, "name", asset.Name, "type", asset.Type, "realm", asset.Realm)
	h.writeJSON(w, http.StatusCreated, asset)
}

// updateAsset handles PUT /api/assets/{id}
func (h *Handler) updateAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "asset ID required")
		return
	}

	var asset model.Asset
	if err := decodeBody(r, &asset); err != nil {
		log.Warn("Invalid asset update request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.storage.GetAsset(id)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.internalError(w, err)
		return
	}

	// Omitted fields keep their stored value
	asset.ID = existing.ID
	if strings.TrimSpace(asset.Name) == "" {
		asset.Name = existing.Name
	}
	if strings.TrimSpace(asset.Type) == "" {
		asset.Type = existing.Type
	}
	if asset.Realm == "" {
		asset.Realm = existing.Realm
	}

	if err := h.storage.UpdateAsset(&asset); err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		log.Error("Failed to update asset", "error", err, "id", asset.ID)
		h.internalError(w, err)
		return
	}

	log.Info("Asset updated", "id", asset.ID, "name", asset.Name, "type", asset.Type)
	h.writeJSON(w, http.StatusOK, asset)
}

// deleteAsset handles DELETE /api/assets/{id}
func (h *Handler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "asset ID required")
		return
	}

	if err := h.storage.DeleteAsset(id); err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			h.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		log.Error("Failed to delete asset", "error", err, "id", id)
		h.internalError(w, err)
		return
	}

	log.Info("Asset deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
