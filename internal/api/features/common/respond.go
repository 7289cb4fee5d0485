package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// StatusFor maps an error onto an HTTP status code.
func StatusFor(err error) int {
	kind := core.KindOf(err)
	switch {
	case kind == core.KindNotFound:
		return http.StatusNotFound
	case kind.IsClientError():
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON body with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError logs err and writes it as an ErrorResponse. Client errors carry
// their message and cause; server errors hide internal detail behind the
// classified message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	kind := core.KindOf(err)

	resp := ErrorResponse{Error: core.Message(err), Details: core.Details(err)}
	if kind == core.KindInternal {
		resp = ErrorResponse{Error: "internal server error"}
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"kind", kind.String(),
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	}
	var ce *core.Error
	if errors.As(err, &ce) && ce.Op != "" {
		attrs = append(attrs, "op", ce.Op)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	WriteJSON(w, status, resp)
}

// DecodeJSON reads a JSON request body into v. Malformed or oversized bodies
// fail with core.KindInvalidArgument.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Errorf(core.KindInvalidArgument, "decode", "request body is required")
		}
		return core.Wrap(core.KindInvalidArgument, "decode", "invalid JSON body", err)
	}
	return nil
}

// FormatMillis renders a duration in milliseconds the way the SELECT-only
// endpoints report it, e.g. "12ms".
func FormatMillis(ms int64) string {
	return fmt.Sprintf("%dms", ms)
}

// PathParam returns the decoded value of a chi URL parameter. chi matches
// against the escaped path when the request carries one.
func PathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
