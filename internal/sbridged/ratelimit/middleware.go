package ratelimit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Middleware creates an HTTP middleware enforcing the named limit type,
// keyed by the caller's remote IP. Rejected requests get a 429 with a
// Retry-After hint.
func Middleware(service Service, limitType string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := LimitKey{Type: limitType, RemoteIP: remoteIP(r)}

			if err := service.Allow(r.Context(), key); err != nil {
				if errors.Is(err, ErrLimitExceeded) {
					limit := service.GetLimit(limitType)
					w.Header().Set("Retry-After", strconv.Itoa(int(limit.Period.Seconds())))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusTooManyRequests)
					if encodeErr := json.NewEncoder(w).Encode(map[string]string{"message": "rate limit exceeded"}); encodeErr != nil {
						logger.Error("failed to encode rate limit response", "error", encodeErr)
					}
					return
				}

				logger.Error("rate limit check failed",
					"error", err,
					"type", limitType,
					"path", r.URL.Path,
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP extracts the client IP, honoring X-Forwarded-For when present
func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
