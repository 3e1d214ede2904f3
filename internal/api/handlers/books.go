package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/api/validate"
	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/models"
	"github.com/openshelf/library-api/internal/services"
)

type BooksHandler struct {
	svc *services.BookService
	log *slog.Logger
}

func NewBooksHandler(svc *services.BookService, log *slog.Logger) *BooksHandler {
	return &BooksHandler{svc: svc, log: log}
}

type bookReq struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Copies int    `json:"copies"`
}

func (req bookReq) validate() error {
	var errs validate.Errs
	if e := validate.Required("title", req.Title); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("author", req.Author); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("copies", int64(req.Copies), 0); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	book, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.svc.Create(r.Context(), req.Title, req.Author, req.ISBN, req.Copies)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/books/%d", book.ID))
	httpx.WriteJSON(w, http.StatusCreated, book)
}

func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Update(r.Context(), id, req.Title, req.Author, req.ISBN, req.Copies); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		// this endpoint answers the active-borrows rejection with an
		// object body, unlike the other 400s
		if apperr.KindOf(err) == apperr.KindInvalidRequest {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
