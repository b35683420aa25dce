package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"laundry/internal/requestctx"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}

// Actor lifts the operator name header into the context for audit entries.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get("X-Operator")
		if actor == "" {
			actor = "system"
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithActor(r.Context(), actor)))
	})
}

func GetActor(ctx context.Context) string {
	return requestctx.GetActor(ctx)
}
