package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/diagramservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *diagramservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Diagrams CRUD.
	r.Get("/diagrams", h.ListDiagrams)
	r.Post("/diagrams", h.CreateDiagram)
	r.Get("/diagrams/{id}", h.GetDiagram)
	r.Put("/diagrams/{id}", h.UpdateDiagram)
	r.Delete("/diagrams/{id}", h.DeleteDiagram)

	// Per-diagram exchange.
	r.Get("/diagrams/{id}/export", h.ExportSingle)
	r.Get("/diagrams/{id}/share", h.ShareDiagram)

	// Collections CRUD and membership.
	r.Get("/collections", h.ListCollections)
	r.Post("/collections", h.CreateCollection)
	r.Put("/collections/{id}", h.UpdateCollection)
	r.Delete("/collections/{id}", h.DeleteCollection)
	r.Get("/collections/{id}/diagrams", h.CollectionDiagrams)
	r.Put("/collections/{id}/diagrams/{diagramID}", h.AddToCollection)
	r.Delete("/collections/{id}/diagrams/{diagramID}", h.RemoveFromCollection)

	// Vault-level exchange.
	r.Get("/export/backup", h.ExportBackup)
	r.Post("/import", h.Import)
	r.Post("/share/open", h.OpenShared)

	// Paste detection.
	r.Post("/paste", h.Paste)

	// Templates and virtual diagrams.
	r.Get("/templates", h.Templates)
	r.Get("/builtin", h.Builtin)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
