package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/exchange"
)

// ExportBackup handles GET /api/export/backup: the whole vault as a
// timestamped JSON download.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.svc.ExportBackup(r.Context())
	if err != nil {
		writeError(w, "export backup", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportSingle handles GET /api/diagrams/{id}/export: one diagram's source
// as a plain-text .mmd download.
func (h *Handler) ExportSingle(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.svc.ExportSingle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "export diagram", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import: a multipart batch of .json / .mmd files.
// The batch never hard-fails; per-file and per-record problems come back as
// strings in the aggregate result.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart body"))
		return
	}
	// All files arrive under one "files" field so the upload order is
	// preserved; batch results must be concatenated in input order.
	var files []exchange.File
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to open uploaded file"))
			return
		}
		defer f.Close()
		files = append(files, exchange.File{Name: fh.Filename, Reader: f})
	}

	res, current, err := h.svc.ImportFiles(r.Context(), files)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Success:  res.Success,
		Imported: res.Imported,
		Errors:   res.Errors,
		Current:  current,
		Diagrams: res.Diagrams,
	})
}

// ShareDiagram handles GET /api/diagrams/{id}/share: a URL embedding the
// diagram for clipboard sharing.
func (h *Handler) ShareDiagram(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.ShareURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "share diagram", err)
		return
	}
	writeJSON(w, http.StatusOK, ShareURLResponse{URL: url})
}

// OpenShared handles POST /api/share/open: import the diagram embedded in a
// share URL. A missing or undecodable payload yields 204, never an error —
// clients call this unconditionally on load.
func (h *Handler) OpenShared(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req OpenSharedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	d, err := h.svc.OpenShared(r.Context(), req.URL)
	if err != nil {
		writeError(w, "open shared", err)
		return
	}
	if d == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
