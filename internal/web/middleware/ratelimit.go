package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Each bucket refills at
// perMinute tokens per minute and holds at most burst tokens.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	retry    time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per IP with bursts of up to
// burst requests. A burst of zero or less uses perMinute.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		retry:    time.Minute / time.Duration(max(perMinute, 1)),
	}
}

// Allow reports whether the client at ip may make a request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Prune forgets clients not seen since cutoff.
func (rl *RateLimiter) Prune(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			n++
		}
	}
	return n
}

// Cleanup prunes idle clients every interval until ctx is cancelled.
func (rl *RateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.Prune(now.Add(-idle))
		}
	}
}

// Handler returns middleware that calls reject instead of next once a
// client has used up its bucket. Retry-After is set before reject runs.
func (rl *RateLimiter) Handler(reject http.HandlerFunc) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(max(rl.retry.Round(time.Second), time.Second) / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !rl.Allow(ip) {
				slog.WarnContext(r.Context(), "rate limit exceeded",
					"method", r.Method,
					"path", r.URL.Path,
					"ip", ip,
				)
				w.Header().Set("Retry-After", retryAfter)
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
