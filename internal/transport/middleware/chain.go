package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/foodtracker-backend/internal/config"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines middleware so the first one given is the outermost:
// Chain(mw1, mw2)(h) is mw1(mw2(h)).
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Standard is the stack every API route runs behind, outermost first.
// The request ID is assigned before anything logs, the access log sees the
// status written by Recovery, and CORS preflights are answered innermost.
func Standard(logger *slog.Logger, cors config.CORSConfig) Middleware {
	return Chain(
		RequestID(),
		Logger(logger),
		Recovery(logger),
		CORS(cors),
	)
}
