package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "taxihub/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-Id"

// RequestID injects a request id into the context, honoring the one the
// client sent, and echoes it back in the response.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
