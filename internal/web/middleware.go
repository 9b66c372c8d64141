package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "todo-app/internal/errors"
	"todo-app/internal/logging"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

type middleware func(http.Handler) http.Handler

// chain applies middleware so the last one listed runs first
func chain(h http.Handler, mws ...middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Infof("[%s] %s %s %d %s", requestIDFrom(r.Context()), r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logging.Errorf("[%s] panic serving %s %s: %v", requestIDFrom(r.Context()), r.Method, r.URL.Path, v)
				http.Error(w, apperrors.GetUserMessage(nil), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
