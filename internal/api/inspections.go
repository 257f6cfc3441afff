package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raftcheck/internal/checklist"
	"github.com/starford/raftcheck/internal/inspection"
)

// ListInspections handles GET /api/inspections.
//
//	@Summary		List open inspections
//	@Tags			inspections
//	@Produce		json
//	@Success		200	{object}	InspectionListResponse
//	@Security		BearerAuth
//	@Router			/inspections [get]
func (h *Handler) ListInspections(w http.ResponseWriter, _ *http.Request) {
	list := h.deps.Inspections.List()
	if list == nil {
		list = []inspection.Summary{}
	}
	writeJSON(w, http.StatusOK, InspectionListResponse{Inspections: list})
}

// OpenInspection handles POST /api/inspections.
//
//	@Summary		Open an inspection and generate its checklist
//	@Tags			inspections
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenInspectionRequest	true	"Asset to inspect"
//	@Success		201		{object}	InspectionView
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections [post]
func (h *Handler) OpenInspection(w http.ResponseWriter, r *http.Request) {
	var req OpenInspectionRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.deps.Inspections.Open(r.Context(), req.AssetID)
	if err != nil {
		writeError(w, "open inspection", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// GetInspection handles GET /api/inspections/{inspectionID}.
//
//	@Summary		Get an inspection with its checklist
//	@Tags			inspections
//	@Produce		json
//	@Param			inspectionID	path		string	true	"Inspection id"
//	@Success		200				{object}	InspectionView
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID} [get]
func (h *Handler) GetInspection(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Inspections.Get(chi.URLParam(r, "inspectionID"))
	if err != nil {
		writeError(w, "get inspection", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SetInspectionAsset handles PUT /api/inspections/{inspectionID}/asset.
//
//	@Summary		Switch the inspected asset
//	@Tags			inspections
//	@Accept			json
//	@Produce		json
//	@Param			inspectionID	path		string					true	"Inspection id"
//	@Param			body			body		OpenInspectionRequest	true	"New asset"
//	@Success		200				{object}	InspectionView
//	@Failure		404				{object}	errResponse
//	@Failure		409				{object}	errResponse	"A newer request replaced this one"
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID}/asset [put]
func (h *Handler) SetInspectionAsset(w http.ResponseWriter, r *http.Request) {
	var req OpenInspectionRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.deps.Inspections.SetAsset(r.Context(), chi.URLParam(r, "inspectionID"), req.AssetID)
	if err != nil {
		writeError(w, "set inspection asset", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// RegenerateInspection handles POST /api/inspections/{inspectionID}/regenerate.
//
//	@Summary		Rebuild the checklist, discarding verdicts and notes
//	@Tags			inspections
//	@Produce		json
//	@Param			inspectionID	path		string	true	"Inspection id"
//	@Success		200				{object}	InspectionView
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID}/regenerate [post]
func (h *Handler) RegenerateInspection(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Inspections.Regenerate(r.Context(), chi.URLParam(r, "inspectionID"))
	if err != nil {
		writeError(w, "regenerate inspection", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// UpdateItem handles PATCH /api/inspections/{inspectionID}/items/{itemID}.
//
//	@Summary		Record a verdict or notes on one checklist item
//	@Tags			inspections
//	@Accept			json
//	@Produce		json
//	@Param			inspectionID	path		string				true	"Inspection id"
//	@Param			itemID			path		string				true	"Item id"
//	@Param			body			body		UpdateItemRequest	true	"Field and value"
//	@Success		200				{object}	checklist.Item
//	@Failure		400				{object}	errResponse
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID}/items/{itemID} [patch]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.deps.Inspections.UpdateItem(
		chi.URLParam(r, "inspectionID"),
		chi.URLParam(r, "itemID"),
		checklist.Field(req.Field),
		req.Value,
	)
	if err != nil {
		writeError(w, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// InspectionSummary handles GET /api/inspections/{inspectionID}/summary.
//
//	@Summary		Progress, overall verdict and per-source statistics
//	@Tags			inspections
//	@Produce		json
//	@Param			inspectionID	path		string	true	"Inspection id"
//	@Success		200				{object}	inspection.Summary
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID}/summary [get]
func (h *Handler) InspectionSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.deps.Inspections.Summary(chi.URLParam(r, "inspectionID"))
	if err != nil {
		writeError(w, "inspection summary", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// CloseInspection handles DELETE /api/inspections/{inspectionID}.
//
//	@Summary		Close an inspection
//	@Tags			inspections
//	@Param			inspectionID	path	string	true	"Inspection id"
//	@Success		204				"Inspection closed"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/inspections/{inspectionID} [delete]
func (h *Handler) CloseInspection(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Inspections.Close(chi.URLParam(r, "inspectionID")); err != nil {
		writeError(w, "close inspection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
