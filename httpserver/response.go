package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// ErrorResponse is a GraphQL response carrying only errors.
type ErrorResponse struct {
	Errors []GraphQLError `json:"errors"`
}

// WriteJSON writes v as JSON with the given status code.
//
// If encoding fails the error is logged; the status has already been sent.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Err(err).
			Int("status_code", statusCode).
			Msg("failed to encode JSON response")
	}
}

// WriteErrors writes a GraphQL error response.
//
//	httpserver.WriteErrors(w, http.StatusBadRequest, "query is required")
func WriteErrors(w http.ResponseWriter, statusCode int, messages ...string) {
	resp := ErrorResponse{Errors: make([]GraphQLError, 0, len(messages))}
	for _, m := range messages {
		resp.Errors = append(resp.Errors, GraphQLError{Message: m})
	}
	WriteJSON(w, statusCode, resp)
}
