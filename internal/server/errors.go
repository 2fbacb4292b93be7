package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/bandfill/pkg/errors"
)

// Status maps an error to the HTTP status reported to clients.
func Status(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	case errs.IsLayout(err):
		return http.StatusUnprocessableEntity
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidTemplate, errs.ErrCodeInvalidGeometry,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeInvalidData:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("fill failed", "path", r.URL.Path, "err", err)
		if code == "" {
			code = errs.ErrCodeInternal
		}
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
