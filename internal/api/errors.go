package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api/respond"
	"github.com/promptlab/promptlab/internal/core"
)

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var (
		ve  core.ValidationError
		nfe core.NotFoundError
		rfe core.ReferenceNotFoundError
		ce  core.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		respond.WriteErrorReason(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &rfe):
		respond.WriteErrorReason(w, http.StatusBadRequest, "REFERENCE_NOT_FOUND", err.Error())
	case errors.As(err, &nfe):
		respond.WriteErrorReason(w, http.StatusNotFound, strings.ToUpper(string(nfe.Kind))+"_NOT_FOUND", err.Error())
	case errors.As(err, &ce):
		respond.WriteErrorReason(w, http.StatusConflict, ce.Code, err.Error())
	case errors.Is(err, core.ErrNoContentChange):
		respond.WriteErrorReason(w, http.StatusConflict, "NO_CONTENT_CHANGE", err.Error())
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respond.WriteBadRequest(w, "Invalid JSON")
		return false
	}
	return true
}

// limitBody caps request bodies at n bytes.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
