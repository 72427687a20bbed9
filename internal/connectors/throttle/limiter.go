// Package throttle provides proactive request throttling shared by the
// repository readers. It never waits on server-reported limits; the
// reported quota only produces a warning when it runs low.
package throttle

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/reporeader/internal/logger"
)

// Quota headers sent by GitHub and GitLab.
const (
	HeaderGitHubLimit     = "X-RateLimit-Limit"
	HeaderGitHubRemaining = "X-RateLimit-Remaining"
	HeaderGitHubReset     = "X-RateLimit-Reset"

	HeaderGitLabLimit     = "RateLimit-Limit"
	HeaderGitLabRemaining = "RateLimit-Remaining"
	HeaderGitLabReset     = "RateLimit-Reset"
)

// lowQuotaFraction is the share of the quota below which a warning is logged.
const lowQuotaFraction = 0.1

// Limiter throttles outgoing API requests with a token bucket.
type Limiter struct {
	mu        sync.Mutex
	remaining int       // From API header, -1 until seen
	limit     int       // From API header, -1 until seen
	resetTime time.Time // From API header
	warned    bool      // Set once the low-quota warning fired for this window
	bucket    *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond requests.
// A value <= 0 disables throttling.
func New(requestsPerSecond float64) *Limiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{
		remaining: -1,
		limit:     -1,
		bucket:    rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.bucket.Wait(ctx)
}

// UpdateFromResponse records quota state from response headers.
func (l *Limiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := headerInt(resp.Header, HeaderGitHubRemaining, HeaderGitLabRemaining); ok {
		l.remaining = v
	}
	if v, ok := headerInt(resp.Header, HeaderGitHubLimit, HeaderGitLabLimit); ok {
		l.limit = v
	}
	if v, ok := headerInt(resp.Header, HeaderGitHubReset, HeaderGitLabReset); ok {
		l.resetTime = time.Unix(int64(v), 0)
	}
	l.warnIfLow()
}

// warnIfLow logs once each time the remaining quota drops below
// lowQuotaFraction of the limit (caller must hold lock).
func (l *Limiter) warnIfLow() {
	if l.remaining < 0 || l.limit <= 0 {
		return
	}
	low := float64(l.remaining) < float64(l.limit)*lowQuotaFraction
	switch {
	case low && !l.warned:
		l.warned = true
		msg := fmt.Sprintf("api quota low: %d of %d requests remaining", l.remaining, l.limit)
		if !l.resetTime.IsZero() {
			msg += ", resets at " + l.resetTime.Format(time.RFC3339)
		}
		logger.Warn("%s", msg)
	case !low:
		l.warned = false
	}
}

// headerInt returns the first header among names that parses as an integer.
func headerInt(h http.Header, names ...string) (int, bool) {
	for _, name := range names {
		if raw := h.Get(name); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
