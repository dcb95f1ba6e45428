package api

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"studiobook/internal/config"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

type rateLimiter struct {
	limiters  sync.Map
	cfg       *config.APIConfig
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

func newRateLimiter(cfg *config.APIConfig) *rateLimiter {
	return &rateLimiter{
		cfg:     cfg,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	v, ok := l.limiters.Load(key)
	if !ok {
		burst := l.cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 5
		}
		v, _ = l.limiters.LoadOrStore(key, &clientLimiter{
			lim: rate.NewLimiter(rate.Limit(l.cfg.RateLimit.RPS), burst),
		})
	}
	entry := v.(*clientLimiter)
	entry.lastSeen.Store(now.UnixNano())
	return entry.lim
}

// sweep drops buckets idle for longer than idleTTL, at most once per idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if v.(*clientLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

// Middleware limits requests per client address. RPS <= 0 disables it.
func (l *rateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.cfg.RateLimit.RPS > 0 && !l.getLimiter(clientKey(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by address. RealIP has already replaced
// RemoteAddr when a proxy header is present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
