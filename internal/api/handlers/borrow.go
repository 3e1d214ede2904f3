package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/middleware"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/services"
)

type BorrowHandler struct {
	svc *services.BorrowService
	log *slog.Logger
}

func NewBorrowHandler(svc *services.BorrowService, log *slog.Logger) *BorrowHandler {
	return &BorrowHandler{svc: svc, log: log}
}

func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "bad request")
		return
	}

	if err := h.svc.Borrow(r.Context(), bookID, userID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Book borrowed successfully")
}

func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	borrowID, err := pathID(r, "borrowId")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteText(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.svc.Return(r.Context(), borrowID, ident); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Book returned successfully")
}

func (h *BorrowHandler) MyBorrows(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	borrows, err := h.svc.MyBorrows(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if borrows == nil {
		borrows = []models.BorrowDetail{}
	}
	httpx.WriteJSON(w, http.StatusOK, borrows)
}

func (h *BorrowHandler) All(w http.ResponseWriter, r *http.Request) {
	borrows, err := h.svc.AllBorrows(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if borrows == nil {
		borrows = []models.BorrowSummary{}
	}
	httpx.WriteJSON(w, http.StatusOK, borrows)
}
