package http

import (
	"net/http"

	"finvision/internal/core"
)

type assetResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	AssetType       string     `json:"asset_type"`
	CurrentValue    core.Money `json:"current_value"`
	AcquisitionDate core.Date  `json:"acquisition_date"`
	Notes           string     `json:"notes,omitempty"`
}

func toAssetResponse(a core.Asset) assetResponse {
	return assetResponse{
		ID:              a.ID,
		Name:            a.Name,
		AssetType:       a.AssetType,
		CurrentValue:    a.CurrentValue,
		AcquisitionDate: a.AcquisitionDate,
		Notes:           a.Notes,
	}
}

type assetRequest struct {
	Name            string     `json:"name"`
	AssetType       string     `json:"asset_type"`
	CurrentValue    core.Money `json:"current_value"`
	AcquisitionDate core.Date  `json:"acquisition_date"`
	Notes           string     `json:"notes"`
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset := core.Asset{
		UserID:          userID(r),
		Name:            sanitizeInput(req.Name),
		AssetType:       sanitizeInput(req.AssetType),
		CurrentValue:    req.CurrentValue,
		AcquisitionDate: req.AcquisitionDate,
		Notes:           sanitizeInput(req.Notes),
	}
	if err := asset.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	stored, err := s.store.CreateAsset(r.Context(), asset)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusCreated, toAssetResponse(stored))
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListAssets(r.Context(), userID(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]assetResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAssetResponse(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	stored, err := s.store.GetAsset(r.Context(), id, userID(r))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAssetResponse(stored))
}

type assetPatchRequest struct {
	Name            *string     `json:"name"`
	AssetType       *string     `json:"asset_type"`
	CurrentValue    *core.Money `json:"current_value"`
	AcquisitionDate *core.Date  `json:"acquisition_date"`
	Notes           *string     `json:"notes"`
}

func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req assetPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.AssetPatch{
		CurrentValue:    req.CurrentValue,
		AcquisitionDate: req.AcquisitionDate,
	}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		if name == "" {
			respondDomainError(w, r, core.ErrEmptyName)
			return
		}
		patch.Name = &name
	}
	if req.AssetType != nil {
		at := sanitizeInput(*req.AssetType)
		patch.AssetType = &at
	}
	if req.Notes != nil {
		notes := sanitizeInput(*req.Notes)
		patch.Notes = &notes
	}
	if req.CurrentValue != nil {
		if err := req.CurrentValue.Validate(); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}

	stored, err := s.store.UpdateAsset(r.Context(), id, userID(r), patch)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	respondJSON(w, http.StatusOK, toAssetResponse(stored))
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteAsset(r.Context(), id, userID(r)); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.invalidateDashboard(userID(r))
	w.WriteHeader(http.StatusNoContent)
}
