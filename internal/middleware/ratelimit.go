package middleware

import (
	"net/http"

	"github.com/agendahq/agenda-api/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit returns per-IP rate limiting middleware backed by an in-memory
// store, suitable for the single-process deployment model. rate uses the
// limiter format, e.g. "100-M" for 100 requests per minute.
func RateLimit(rate string) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memorystore.NewStore(), parsed)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(func(r *http.Request) string {
		return request.ClientIP(r)
	}))
	return mw.Handler, nil
}
