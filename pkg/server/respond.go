package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/c4x/pkg/errors"
	"github.com/matzehuels/c4x/pkg/observability"
	"github.com/matzehuels/c4x/pkg/pipeline"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code and, for diagram errors, the kind and
// source position.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

// fail maps err to a status code and writes it. Internal failures are
// reported to the hooks and hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := ErrorDetail{
		Code:      string(errors.GetCode(err)),
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if kind := errors.KindOf(err); kind != errors.KindOther {
		detail.Kind = kind.String()
	}
	if pos, ok := errors.PosOf(err); ok {
		detail.Line, detail.Column = pos.Line, pos.Column
	}

	switch status {
	case http.StatusInternalServerError:
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		detail.Code = string(errors.ErrCodeInternal)
		detail.Message = "internal error"
	case http.StatusGatewayTimeout:
		detail.Code = string(errors.ErrCodeTimeout)
		detail.Message = "compilation timed out"
	}
	writeJSON(w, status, ErrorBody{Error: detail})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case !pipeline.IsUserError(err):
		return http.StatusInternalServerError
	}
	switch errors.KindOf(err) {
	case errors.KindSyntax, errors.KindSemantic:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
