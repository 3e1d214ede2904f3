package handlers

import (
	"log/slog"
	"net/http"

	"github.com/openshelf/library-api/internal/api/httpx"
	"github.com/openshelf/library-api/internal/apperr"
	"github.com/openshelf/library-api/internal/middleware"
)

// writeError maps a service error to its HTTP status. Forbidden goes out
// as 400, matching the contract this API replaces. Unanticipated errors
// answer with a generic 500; the cause stays in the server log.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		httpx.WriteText(w, http.StatusNotFound, err.Error())
	case apperr.KindInvalidRequest, apperr.KindForbidden:
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
	case apperr.KindUnauthorized:
		httpx.WriteText(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error("unhandled error", "err", err,
			"path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteText(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
