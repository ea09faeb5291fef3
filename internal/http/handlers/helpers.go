package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// ActorHeader carries the id of the calling client, restaurant, courier or manager.
const ActorHeader = "X-Actor-ID"

const (
	bodyLimit = 1 << 20

	directoryTimeout = 3 * time.Second
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func loggerOrNop(l logx.Logger) logx.Logger {
	if l == nil {
		return logx.Nop()
	}
	return l
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		loggerOrNop(logger).Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	l := loggerOrNop(logger)
	fields := []logx.Field{
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	}
	if status >= http.StatusInternalServerError {
		l.Error("http error", fields...)
	} else {
		l.Debug("http error", fields...)
	}
	writeJSON(logger, w, r, status, ErrorResponse{Error: msg})
}

// writeDomainError maps coordinator errors to HTTP statuses. Stale-state
// outcomes are not failures: they answer 200 with a notice.
func writeDomainError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrDuplicateCandidate):
		writeJSON(logger, w, r, http.StatusOK, noticeResponse{Status: "unchanged", Notice: "offer already recorded"})
	case errors.Is(err, apperr.ErrAlreadyResolved):
		writeJSON(logger, w, r, http.StatusOK, noticeResponse{Status: "unchanged", Notice: "order already resolved"})
	case errors.Is(err, apperr.ErrInvalidOrder):
		writeError(logger, w, r, http.StatusBadRequest, "invalid order")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrWindowClosed):
		writeError(logger, w, r, http.StatusConflict, "window closed")
	case errors.Is(err, apperr.ErrCourierBusy):
		writeError(logger, w, r, http.StatusConflict, "courier busy")
	case errors.Is(err, apperr.ErrIllegalTransition):
		writeError(logger, w, r, http.StatusConflict, "illegal transition")
	case errors.Is(err, apperr.ErrConflict):
		writeError(logger, w, r, http.StatusConflict, "conflict")
	case errors.Is(err, apperr.ErrNotCandidate):
		writeError(logger, w, r, http.StatusUnprocessableEntity, "courier is not a candidate")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(logger, w, r, http.StatusGatewayTimeout, "upstream timeout")
	default:
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", errors.New("invalid id")
	}
	return id, nil
}

// courierFrom prefers the body field and falls back to the actor header.
func courierFrom(r *http.Request, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(ActorHeader))
}

func withDirectoryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, directoryTimeout)
}
