package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAuthRPM   = 10
	authPathPrefix   = "/api/v1/auth"
	limiterIdleAfter = 10 * time.Minute
	sweepThreshold   = 1000
)

// budget is a requests-per-minute allowance with a burst of the same size.
type budget int

func (b budget) enabled() bool { return b > 0 }

func (b budget) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(b)), int(b))
}

// retryAfter is the time one token takes to refill, rounded up to seconds.
func (b budget) retryAfter() string {
	secs := (60 + int(b) - 1) / int(b)
	return strconv.Itoa(max(secs, 1))
}

type visitor struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles per client IP, with a stricter budget on
// /api/v1/auth. A general RPM <= 0 disables the general budget.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if authRPM <= 0 {
		authRPM = defaultAuthRPM
	}
	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		visitors:   make(map[string]*visitor),
		lastSweep:  time.Now(),
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		v := m.visit(extractClientIP(r), time.Now())
		limiter, b := v.general, budget(m.generalRPM)
		if strings.HasPrefix(strings.ToLower(r.URL.Path), authPathPrefix) {
			limiter, b = v.auth, budget(m.authRPM)
		}

		if limiter != nil && !limiter.Allow() {
			w.Header().Set("Retry-After", b.retryAfter())
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) visit(ip string, now time.Time) *visitor {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[ip]
	if !ok {
		v = &visitor{auth: budget(m.authRPM).limiter()}
		if general := budget(m.generalRPM); general.enabled() {
			v.general = general.limiter()
		}
		m.visitors[ip] = v
	}
	v.lastSeen = now

	if len(m.visitors) >= sweepThreshold || now.Sub(m.lastSweep) > limiterIdleAfter {
		m.sweepLocked(now)
	}
	return v
}

func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	cutoff := now.Add(-limiterIdleAfter)
	for ip, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, ip)
		}
	}
	m.lastSweep = now
}
