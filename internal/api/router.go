package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/ledger"
	"github.com/starford/raftcheck/internal/registry"
)

// Deps are the collaborators the handlers serve.
type Deps struct {
	Registry    registry.Store
	Inspections *inspection.Service
	Ledger      *ledger.Ledger
	Manual      *catalog.ManualCatalog
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(deps Deps, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(deps)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.ListAssets)
		r.Post("/", h.CreateAsset)
		r.Route("/{assetID}", func(r chi.Router) {
			r.Get("/", h.GetAsset)
			r.Delete("/", h.DeleteAsset)
			r.Get("/components", h.ListComponents)
			r.Post("/components", h.AddComponent)
			r.Delete("/components/{componentID}", h.RemoveComponent)
		})
	})

	r.Route("/inspections", func(r chi.Router) {
		r.Get("/", h.ListInspections)
		r.Post("/", h.OpenInspection)
		r.Route("/{inspectionID}", func(r chi.Router) {
			r.Get("/", h.GetInspection)
			r.Delete("/", h.CloseInspection)
			r.Put("/asset", h.SetInspectionAsset)
			r.Post("/regenerate", h.RegenerateInspection)
			r.Patch("/items/{itemID}", h.UpdateItem)
			r.Get("/summary", h.InspectionSummary)
		})
	})

	r.Get("/ledger", h.GetLedger)
	r.Put("/ledger", h.ReplaceLedger)
	r.Delete("/ledger", h.ClearLedger)

	r.Get("/catalog/functional-tests", h.CatalogFunctionalTests)
	r.Get("/catalog/bulletins", h.CatalogBulletins)
	r.Get("/catalog/manual", h.CatalogManual)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
