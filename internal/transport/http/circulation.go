package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"libnet/internal/circulation/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/httputil"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		ReaderID string `json:"reader_id"`
		CopyID   string `json:"copy_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	readerID, err := domain.ParseReaderID(req.ReaderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	copyID, err := domain.ParseCopyID(req.CopyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.circulation.Checkout(r.Context(), actor, readerID, copyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"loan_id":  result.LoanID.String(),
		"copy_id":  result.CopyID.String(),
		"due_date": result.DueDate,
	})
}

func (h *Handler) returnLoan(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	loanID, err := domain.ParseLoanID(chi.URLParam(r, "loanID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	loan, err := h.circulation.Return(r.Context(), actor, loanID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"loan_id":     loan.ID.String(),
		"copy_id":     loan.CopyID.String(),
		"status":      loan.Status.String(),
		"return_date": loan.ReturnDate,
	})
}

type openLoanResponse struct {
	LoanID     string    `json:"loan_id"`
	ReaderID   string    `json:"reader_id"`
	ReaderName string    `json:"reader_name"`
	Title      string    `json:"title"`
	CopyCode   string    `json:"copy_code"`
	LoanDate   time.Time `json:"loan_date"`
	DueDate    time.Time `json:"due_date"`
	Overdue    bool      `json:"overdue"`
}

func toOpenLoanResponses(loans []models.OpenLoan) []openLoanResponse {
	out := make([]openLoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, openLoanResponse{
			LoanID:     l.LoanID.String(),
			ReaderID:   l.ReaderID.String(),
			ReaderName: l.ReaderName,
			Title:      l.Title,
			CopyCode:   l.CopyCode,
			LoanDate:   l.LoanDate,
			DueDate:    l.DueDate,
			Overdue:    l.Overdue,
		})
	}
	return out
}

func (h *Handler) listOpenLoans(w http.ResponseWriter, r *http.Request) {
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
	loans, err := h.circulation.ListOpenLoans(r.Context(), actor, libraryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"loans": toOpenLoanResponses(loans)})
}

func (h *Handler) listReaderLoans(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	readerID, err := domain.ParseReaderID(chi.URLParam(r, "readerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	loans, err := h.circulation.ListReaderLoans(r.Context(), actor, readerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"loans": toOpenLoanResponses(loans)})
}
