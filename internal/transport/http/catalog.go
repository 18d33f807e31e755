package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"libnet/internal/inventory/models"
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/httputil"
)

type libraryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toLibraryResponse(l *models.Library) libraryResponse {
	return libraryResponse{ID: l.ID.String(), Name: l.Name, City: l.City, CreatedAt: l.CreatedAt}
}

func (h *Handler) createLibrary(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	library, err := h.inventory.CreateLibrary(r.Context(), actor, req.Name, req.City)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLibraryResponse(library))
}

func (h *Handler) getLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseLibraryID(chi.URLParam(r, "libraryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	library, err := h.inventory.GetLibrary(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLibraryResponse(library))
}

func (h *Handler) listLibraries(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.inventory.ListLibraries(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]libraryResponse, 0, len(libraries))
	for _, l := range libraries {
		out = append(out, toLibraryResponse(l))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"libraries": out})
}

type titleResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	ISBN     string `json:"isbn,omitempty"`
}

func toTitleResponse(t *models.Title) titleResponse {
	return titleResponse{ID: t.ID.String(), Title: t.Title, Author: t.Author, Category: t.Category, ISBN: t.ISBN}
}

func (h *Handler) createTitle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		Title    string `json:"title"`
		Author   string `json:"author"`
		Category string `json:"category"`
		ISBN     string `json:"isbn"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	title, err := h.inventory.CreateTitle(r.Context(), actor, req.Title, req.Author, req.Category, req.ISBN)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTitleResponse(title))
}

func (h *Handler) listTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.inventory.ListTitles(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]titleResponse, 0, len(titles))
	for _, t := range titles {
		out = append(out, toTitleResponse(t))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"titles": out})
}

type copyResponse struct {
	ID        string `json:"id"`
	TitleID   string `json:"title_id"`
	LibraryID string `json:"library_id"`
	Code      string `json:"code"`
	Status    string `json:"status"`
}

func toCopyResponse(c *models.Copy) copyResponse {
	return copyResponse{
		ID:        c.ID.String(),
		TitleID:   c.TitleID.String(),
		LibraryID: c.LibraryID.String(),
		Code:      c.Code,
		Status:    c.Status.String(),
	}
}

func (h *Handler) addCopy(w http.ResponseWriter, r *http.Request) {
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
		TitleID string `json:"title_id"`
		Code    string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	titleID, err := domain.ParseTitleID(req.TitleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.inventory.AddCopy(r.Context(), actor, libraryID, titleID, req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCopyResponse(c))
}

func (h *Handler) listCopies(w http.ResponseWriter, r *http.Request) {
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
	copies, err := h.inventory.ListCopies(r.Context(), actor, libraryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]copyResponse, 0, len(copies))
	for _, c := range copies {
		out = append(out, toCopyResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"copies": out})
}

func (h *Handler) listAvailableCopies(w http.ResponseWriter, r *http.Request) {
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
	available, err := h.inventory.ListAvailableCopies(r.Context(), actor, libraryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	type row struct {
		CopyID string `json:"copy_id"`
		Title  string `json:"title"`
		Author string `json:"author"`
		Code   string `json:"code"`
	}
	out := make([]row, 0, len(available))
	for _, ac := range available {
		out = append(out, row{CopyID: ac.CopyID.String(), Title: ac.Title, Author: ac.Author, Code: ac.Code})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"available": out})
}

func (h *Handler) searchTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "query parameter q is required"))
		return
	}
	results, err := h.inventory.SearchTitles(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	type row struct {
		Title    string `json:"title"`
		Author   string `json:"author"`
		Category string `json:"category,omitempty"`
		Library  string `json:"library"`
		Status   string `json:"status"`
	}
	out := make([]row, 0, len(results))
	for _, sr := range results {
		out = append(out, row{
			Title:    sr.Title,
			Author:   sr.Author,
			Category: sr.Category,
			Library:  sr.Library,
			Status:   sr.Status.String(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": out})
}
