package server

import (
	"encoding/json"
	"errors"
	"net/http"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/observability"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case perrors.IsValidation(err):
		return http.StatusBadRequest
	case perrors.Is(err, perrors.ErrCodeEmptyPyramid):
		return http.StatusUnprocessableEntity
	case perrors.Is(err, perrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Code: string(perrors.GetCode(err)), Message: perrors.UserMessage(err)}

	switch status {
	case http.StatusRequestEntityTooLarge:
		body.Code = "PAYLOAD_TOO_LARGE"
		body.Message = "request body exceeds upload limit"
	case http.StatusInternalServerError:
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "err", err)
		body.Message = "internal error"
	}
	if body.Code == "" {
		body.Code = string(perrors.ErrCodeInternal)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
