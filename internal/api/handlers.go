package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/builtin"
	"github.com/starford/dagaz/internal/collectionstore"
	"github.com/starford/dagaz/internal/diagramservice"
	"github.com/starford/dagaz/internal/diagramstore"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *diagramservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *diagramservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps service errors to HTTP responses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListDiagrams handles GET /api/diagrams.
func (h *Handler) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams, err := h.svc.ListDiagrams(r.Context())
	if err != nil {
		writeError(w, "list diagrams", err)
		return
	}
	writeJSON(w, http.StatusOK, DiagramListResponse{Diagrams: diagrams, Total: len(diagrams)})
}

// GetDiagram handles GET /api/diagrams/{id}.
func (h *Handler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDiagram(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get diagram", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDiagram handles POST /api/diagrams.
func (h *Handler) CreateDiagram(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	d, err := h.svc.CreateDiagram(r.Context(), req.Name, req.Code)
	if err != nil {
		writeError(w, "create diagram", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDiagram handles PUT /api/diagrams/{id}.
func (h *Handler) UpdateDiagram(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req UpdateDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	d, err := h.svc.UpdateDiagram(r.Context(), chi.URLParam(r, "id"), diagramstore.Patch{
		Name:  req.Name,
		Code:  req.Code,
		Theme: req.Theme,
	})
	if err != nil {
		writeError(w, "update diagram", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDiagram handles DELETE /api/diagrams/{id}.
func (h *Handler) DeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDiagram(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete diagram", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Paste handles POST /api/paste: detect Mermaid source in pasted text and
// store it as a new diagram.
func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req PasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	d, err := h.svc.CreateFromPaste(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("not a Mermaid diagram"))
			return
		}
		writeError(w, "paste", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ListCollections handles GET /api/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.svc.ListCollections(r.Context())
	if err != nil {
		writeError(w, "list collections", err)
		return
	}
	writeJSON(w, http.StatusOK, CollectionListResponse{Collections: collections, Total: len(collections)})
}

// CreateCollection handles POST /api/collections.
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c, err := h.svc.CreateCollection(r.Context(), req.Name, collectionstore.Options{
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		writeError(w, "create collection", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCollection handles PUT /api/collections/{id}.
func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c, err := h.svc.UpdateCollection(r.Context(), chi.URLParam(r, "id"), collectionstore.Patch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		writeError(w, "update collection", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCollection handles DELETE /api/collections/{id}.
func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete collection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CollectionDiagrams handles GET /api/collections/{id}/diagrams.
func (h *Handler) CollectionDiagrams(w http.ResponseWriter, r *http.Request) {
	diagrams, err := h.svc.CollectionDiagrams(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "collection diagrams", err)
		return
	}
	writeJSON(w, http.StatusOK, DiagramListResponse{Diagrams: diagrams, Total: len(diagrams)})
}

// AddToCollection handles PUT /api/collections/{id}/diagrams/{diagramID}.
func (h *Handler) AddToCollection(w http.ResponseWriter, r *http.Request) {
	err := h.svc.AddToCollection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "diagramID"))
	if err != nil {
		writeError(w, "add to collection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromCollection handles DELETE /api/collections/{id}/diagrams/{diagramID}.
func (h *Handler) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveFromCollection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "diagramID"))
	if err != nil {
		writeError(w, "remove from collection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Templates handles GET /api/templates.
func (h *Handler) Templates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": builtin.Templates()})
}

// Builtin handles GET /api/builtin: the virtual welcome and tutorial
// diagrams, which live outside the store.
func (h *Handler) Builtin(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": builtin.Diagrams()})
}
