package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/api/validate"
	"github.com/openshelf/library-api/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
	log *slog.Logger
}

func NewAuthHandler(svc *services.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req credentialsReq) validate() error {
	var errs validate.Errs
	if e := validate.Required("username", req.Username); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("password", req.Password); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "User registered successfully")
}
