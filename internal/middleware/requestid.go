package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

type ctxKey struct{}

// RequestID проставляет идентификатор запроса, если он не был задан,
// и кладёт его в контекст для логов и обработчиков.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			r.Header.Set(headerRequestID, reqID)
		}
		w.Header().Set(headerRequestID, reqID)
		ctx := context.WithValue(r.Context(), ctxKey{}, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom возвращает идентификатор запроса или пустую строку.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
