package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Recover returns middleware that converts panics into 500 responses using
// the API error shape. Panic details are logged server-side, never exposed.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					log.Error("panic_recovered",
						zap.Any("error", v),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					if err := json.NewEncoder(w).Encode(map[string]any{
						"error": "internal server error",
					}); err != nil {
						log.Error("failed_to_encode_panic_response", zap.Error(err))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
