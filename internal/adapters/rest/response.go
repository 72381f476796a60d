package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"sportmeet/internal/domain"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Response is the envelope of every API answer.
type Response struct {
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
	Data   any            `json:"data,omitempty"`
}

type ErrorResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Status: statusOK, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Status: statusOK, Data: data})
}

// fail writes a localized error envelope for a transport-level code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	locale := s.tr.Match(r.Header.Get("Accept-Language"))
	desc := s.tr.T(locale, "error."+code, nil)
	if detail != "" {
		desc += ": " + detail
	}
	writeJSON(w, status, Response{Status: statusError, Error: &ErrorResponse{Code: code, Desc: desc}})
}

// writeError maps err to its HTTP status and domain code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	code := domain.Code(err)
	if code == "" {
		code = "internal"
	}

	if kind == domain.KindInternal || kind == domain.KindUnavailable {
		s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}

	var detail string
	var fe *fieldError
	if errors.As(err, &fe) {
		detail = fe.field
	}
	s.fail(w, r, statusFor(kind), code, detail)
}
