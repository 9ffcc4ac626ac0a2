package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns middleware permitting any origin with the API's method set.
// Preflight OPTIONS requests short-circuit with 204.
func CORS() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:       []string{"Content-Type"},
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c.Handler
}
