package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"libnet/internal/readers"
	"libnet/pkg/domain"
	"libnet/pkg/platform/httputil"
)

type readerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	HomeLibraryID string    `json:"home_library_id"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toReaderResponse(reader *readers.Reader) readerResponse {
	return readerResponse{
		ID:            reader.ID.String(),
		Name:          reader.Name,
		Email:         reader.Email,
		HomeLibraryID: reader.HomeLibraryID.String(),
		Active:        reader.Active,
		CreatedAt:     reader.CreatedAt,
	}
}

func (h *Handler) registerReader(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	libraryID, err := domain.ParseLibraryID(chi.URLParam(r, "libraryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	reader, err := h.readers.Register(r.Context(), actor, libraryID, req.Name, req.Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toReaderResponse(reader))
}

func (h *Handler) listReaders(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	libraryID, err := domain.ParseLibraryID(chi.URLParam(r, "libraryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.readers.ListByLibrary(r.Context(), actor, libraryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]readerResponse, 0, len(list))
	for _, reader := range list {
		out = append(out, toReaderResponse(reader))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"readers": out})
}

func (h *Handler) getReader(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseReaderID(chi.URLParam(r, "readerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reader, err := h.readers.Get(r.Context(), actor, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReaderResponse(reader))
}

func (h *Handler) deactivateReader(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := domain.ParseReaderID(chi.URLParam(r, "readerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.readers.Deactivate(r.Context(), actor, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
