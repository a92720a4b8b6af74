package handlers

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "boardly/internal/api/context"
	"boardly/internal/engine/boards"
	"boardly/internal/engine/ordering"
	"boardly/internal/pkg/errors"
	"boardly/internal/platform/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func param(r *http.Request, name string) string {
	params, ok := r.Context().Value(apiContext.Params).(httprouter.Params)
	if !ok {
		return ""
	}
	return params.ByName(name)
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)
	return claims
}

// writeServiceError maps service-layer errors onto the API error shape.
// Validation failures (malformed reorder lists, empty names) are client
// errors; a missing row is 404; everything else is internal.
func writeServiceError(w http.ResponseWriter, err error) {
	var ordErr *ordering.InvalidOrderingError
	switch {
	case stderrors.As(err, &ordErr):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, ordErr.Error(), nil)
	case stderrors.Is(err, boards.ErrEmptyName), stderrors.Is(err, boards.ErrEmptyTitle):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
	case stderrors.Is(err, sql.ErrNoRows):
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Resource not found", nil)
	default:
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal error", nil)
	}
}
