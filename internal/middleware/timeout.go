package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

// Timeout bounds handler time. It buffers the response, so it must not
// wrap streaming or websocket routes.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message, _ := json.Marshal(model.APIResponse{
		Error: &model.APIError{Code: "REQUEST_TIMEOUT", Message: "request timed out"},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(message))
	}
}
