package http

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/importer"
)

type ImportHandler struct {
	imports importer.Service
}

func NewImportHandler(imports importer.Service) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Start accepts a multipart upload with the source file plus store_id and
// source_type form fields, and runs the batch synchronously.
func (h *ImportHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	storeID := queryInt32(r.FormValue("store_id"), 0)
	if storeID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "store_id is required"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read file"})
		return
	}

	batch, err := h.imports.Start(r.Context(), scopeFrom(r), importer.StartInput{
		StoreID:    int64(storeID),
		SourceType: domain.ImportSourceType(r.FormValue("source_type")),
		ImportType: domain.ImportTypeFile,
		FileName:   header.Filename,
		Payload:    payload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, batch)
}

func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid batch id"})
		return
	}
	batch, err := h.imports.Get(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	batches, total, err := h.imports.List(r.Context(), scopeFrom(r),
		queryInt32(q.Get("page"), 1), queryInt32(q.Get("page_size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": batches, "total": total})
}

func (h *ImportHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid batch id"})
		return
	}
	batch, err := h.imports.Reprocess(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *ImportHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid batch id"})
		return
	}
	batch, err := h.imports.Cancel(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
