package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	deps Deps
}

// NewHandler creates a new Handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// ListAssets handles GET /api/assets.
//
//	@Summary		List registered rafts
//	@Tags			assets
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			brand	query		string	false	"Filter by brand"
//	@Success		200		{object}	AssetListResponse
//	@Security		BearerAuth
//	@Router			/assets [get]
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	assets, total, err := h.deps.Registry.ListAssets(r.Context(), limit, offset, q.Get("brand"))
	if err != nil {
		writeError(w, "list assets", err)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	writeJSON(w, http.StatusOK, AssetListResponse{Assets: assets, Total: total})
}

// CreateAsset handles POST /api/assets.
//
//	@Summary		Register a raft
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateAssetRequest	true	"Raft to register"
//	@Success		201		{object}	models.Asset
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets [post]
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.deps.Registry.CreateAsset(r.Context(), models.Asset{
		Name:         req.Name,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		LaunchType:   req.LaunchType,
	})
	if err != nil {
		writeError(w, "create asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAsset handles GET /api/assets/{assetID}.
//
//	@Summary		Get a raft
//	@Tags			assets
//	@Produce		json
//	@Param			assetID	path		string	true	"Asset id"
//	@Success		200		{object}	models.Asset
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{assetID} [get]
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.Registry.GetAsset(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		writeError(w, "get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAsset handles DELETE /api/assets/{assetID}.
//
//	@Summary		Remove a raft and its installed components
//	@Tags			assets
//	@Param			assetID	path	string	true	"Asset id"
//	@Success		204		"Asset deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{assetID} [delete]
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Registry.DeleteAsset(r.Context(), chi.URLParam(r, "assetID")); err != nil {
		writeError(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListComponents handles GET /api/assets/{assetID}/components.
//
//	@Summary		List components installed in a raft
//	@Tags			assets
//	@Produce		json
//	@Param			assetID	path		string	true	"Asset id"
//	@Success		200		{object}	ComponentListResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{assetID}/components [get]
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID := chi.URLParam(r, "assetID")
	if _, err := h.deps.Registry.GetAsset(ctx, assetID); err != nil {
		writeError(w, "get asset", err)
		return
	}
	cs, err := h.deps.Registry.InstalledComponents(ctx, assetID)
	if err != nil {
		writeError(w, "list components", err)
		return
	}
	if cs == nil {
		cs = []models.InstalledComponent{}
	}
	writeJSON(w, http.StatusOK, ComponentListResponse{Components: cs})
}

// AddComponent handles POST /api/assets/{assetID}/components.
//
//	@Summary		Install a component in a raft
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Param			assetID	path		string				true	"Asset id"
//	@Param			body	body		AddComponentRequest	true	"Component"
//	@Success		201		{object}	models.InstalledComponent
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{assetID}/components [post]
func (h *Handler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var req AddComponentRequest
	if !decode(w, r, &req) {
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	c, err := h.deps.Registry.AddComponent(r.Context(), models.InstalledComponent{
		AssetID:      chi.URLParam(r, "assetID"),
		Name:         req.Name,
		Type:         req.Type,
		Quantity:     qty,
		ValidUntil:   req.ValidUntil,
		SerialNumber: req.SerialNumber,
		State:        req.State,
		InstalledAt:  req.InstalledAt,
	})
	if err != nil {
		writeError(w, "add component", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// RemoveComponent handles DELETE /api/assets/{assetID}/components/{componentID}.
//
//	@Summary		Uninstall a component
//	@Tags			assets
//	@Param			assetID		path	string	true	"Asset id"
//	@Param			componentID	path	string	true	"Component id"
//	@Success		204			"Component removed"
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{assetID}/components/{componentID} [delete]
func (h *Handler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Registry.RemoveComponent(r.Context(), chi.URLParam(r, "assetID"), chi.URLParam(r, "componentID"))
	if err != nil {
		writeError(w, "remove component", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLedger handles GET /api/ledger.
//
//	@Summary		Describe the loaded inspection ledger
//	@Tags			ledger
//	@Produce		json
//	@Success		200	{object}	LedgerResponse
//	@Security		BearerAuth
//	@Router			/ledger [get]
func (h *Handler) GetLedger(w http.ResponseWriter, _ *http.Request) {
	l := h.deps.Ledger
	writeJSON(w, http.StatusOK, LedgerResponse{Entries: l.Len(), Digest: l.Digest(), LoadedAt: l.LoadedAt()})
}

// ReplaceLedger handles PUT /api/ledger.
//
//	@Summary		Replace the inspection ledger
//	@Tags			ledger
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	LedgerResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ledger [put]
func (h *Handler) ReplaceLedger(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	l := h.deps.Ledger
	n, err := l.Replace(body)
	if err != nil {
		slog.Warn("ledger replace rejected", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, LedgerResponse{Entries: n, Digest: l.Digest(), LoadedAt: l.LoadedAt()})
}

// ClearLedger handles DELETE /api/ledger.
//
//	@Summary		Remove the inspection ledger
//	@Tags			ledger
//	@Produce		json
//	@Success		200	{object}	LedgerResponse
//	@Security		BearerAuth
//	@Router			/ledger [delete]
func (h *Handler) ClearLedger(w http.ResponseWriter, _ *http.Request) {
	l := h.deps.Ledger
	if err := l.Clear(); err != nil {
		writeError(w, "clear ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, LedgerResponse{Entries: 0, Digest: l.Digest(), LoadedAt: l.LoadedAt()})
}

// CatalogFunctionalTests handles GET /api/catalog/functional-tests.
//
//	@Summary		Functional tests required for a launch type
//	@Tags			catalog
//	@Produce		json
//	@Param			launch_type	query	string	false	"Launch type"	Enums(throw-over, davit-launch)
//	@Success		200
//	@Router			/catalog/functional-tests [get]
func (h *Handler) CatalogFunctionalTests(w http.ResponseWriter, r *http.Request) {
	lt := r.URL.Query().Get("launch_type")
	if lt == "" {
		lt = models.LaunchThrowOver
	}
	writeJSON(w, http.StatusOK, map[string]any{"tests": nonNil(catalog.FunctionalTests(lt))})
}

// CatalogBulletins handles GET /api/catalog/bulletins.
//
//	@Summary		Service bulletins applicable to a brand and model
//	@Tags			catalog
//	@Produce		json
//	@Param			brand	query	string	true	"Brand"
//	@Param			model	query	string	false	"Model"
//	@Success		200
//	@Router			/catalog/bulletins [get]
func (h *Handler) CatalogBulletins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{"bulletins": nonNil(catalog.ServiceBulletins(q.Get("brand"), q.Get("model")))})
}

// CatalogManual handles GET /api/catalog/manual.
// Without a model it lists the models known for the brand.
//
//	@Summary		Manufacturer manual specification
//	@Tags			catalog
//	@Produce		json
//	@Param			brand	query	string	true	"Brand"
//	@Param			model	query	string	false	"Model"
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Router			/catalog/manual [get]
func (h *Handler) CatalogManual(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	brand, model := q.Get("brand"), q.Get("model")
	if brand == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'brand' is required"))
		return
	}
	if model == "" {
		writeJSON(w, http.StatusOK, map[string]any{"models": nonNil(h.deps.Manual.Models(brand))})
		return
	}
	spec := h.deps.Manual.Lookup(brand, model)
	if spec == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
