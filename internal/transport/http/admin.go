package http

import (
	"net/http"
	"strconv"
	"time"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/httputil"
)

func (h *Handler) registerStaff(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		LibraryID string `json:"library_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var libraryID domain.LibraryID
	if req.LibraryID != "" {
		libraryID, err = domain.ParseLibraryID(req.LibraryID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	account, err := h.staff.Register(r.Context(), actor, req.Name, req.Email, req.Password, role, libraryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := map[string]any{
		"id":    account.ID.String(),
		"name":  account.Name,
		"email": account.Email,
		"role":  account.Role.String(),
	}
	if !account.HomeLibraryID.IsNil() {
		resp["library_id"] = account.HomeLibraryID.String()
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
	}

	entries, err := h.audit.ListRecent(r.Context(), actor, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	type row struct {
		ID      string    `json:"id"`
		ActorID string    `json:"actor_id"`
		Action  string    `json:"action"`
		Entity  string    `json:"entity"`
		Detail  string    `json:"detail,omitempty"`
		At      time.Time `json:"at"`
	}
	out := make([]row, 0, len(entries))
	for _, e := range entries {
		out = append(out, row{
			ID:      e.ID.String(),
			ActorID: e.ActorID.String(),
			Action:  e.Action,
			Entity:  e.Entity,
			Detail:  e.Detail,
			At:      e.At,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}
