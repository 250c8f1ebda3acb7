package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"
)

var corsMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// CORSOptions builds the policy for the configured origins. An empty list or
// a "*" entry opens the API to any origin, in which case credentials are not
// allowed. Entries such as "https://*.descubreboyaca.co" match subdomains.
func CORSOptions(origins []string) cors.Options {
	cleaned := make([]string, 0, len(origins))
	wildcard := len(origins) == 0
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			wildcard = true
		}
		cleaned = append(cleaned, origin)
	}
	if wildcard {
		cleaned = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins:   cleaned,
		AllowedMethods:   corsMethods,
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After"},
		MaxAge:           600,
		AllowCredentials: !wildcard,
		Logger:           corsLogger{},
	}
}

func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(CORSOptions(origins)).Handler
}

// corsLogger routes rs/cors decisions into slog at debug level.
type corsLogger struct{}

func (corsLogger) Printf(format string, v ...any) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("cors", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
