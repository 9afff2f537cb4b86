package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/authtokens/internal/auth/domain"
	apperrors "github.com/allisson/authtokens/internal/errors"
	"github.com/allisson/authtokens/internal/httputil"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTimeout   = time.Hour
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one token bucket per key and forgets keys idle for an hour.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int
}

// newLimiterSet starts the idle sweep; it stops when ctx is done.
func newLimiterSet(ctx context.Context, rps float64, burst int) *limiterSet {
	set := &limiterSet{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
	go set.sweep(ctx)
	return set
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[key]
	if !ok {
		entry = &keyedLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (s *limiterSet) forgetIdleSince(threshold time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.limiters {
		if entry.lastSeen.Before(threshold) {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterSet) sweep(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.forgetIdleSince(now.Add(-limiterIdleTimeout))
		}
	}
}

// admit consumes one event for key, or aborts with 429 and a Retry-After in whole seconds.
func (s *limiterSet) admit(c *gin.Context, key string, logger *slog.Logger) bool {
	limiter := s.get(key)
	if limiter.Allow() {
		return true
	}

	reservation := limiter.Reserve()
	retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}

	logger.Debug("rate limit exceeded", slog.String("key", key), slog.Int("retry_after", retryAfter))

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
		Error:   "rate_limit_exceeded",
		Message: "Too many requests, retry after " + strconv.Itoa(retryAfter) + "s",
	})
	return false
}

// ActorRateLimitMiddleware limits management requests per actor id. It must run after
// RequireActor.
func ActorRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := newLimiterSet(ctx, rps, burst)

	return func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if limiters.admit(c, "actor:"+actor.ID(), logger) {
			c.Next()
		}
	}
}

// CredentialRateLimitMiddleware limits, per client IP, requests that present a credential,
// slowing down guessing of static secrets and signed references. It must run before
// ActorMiddleware so that rejected guesses are counted. Requests without a credential pass.
func CredentialRateLimitMiddleware(
	ctx context.Context,
	param string,
	rps float64,
	burst int,
	logger *slog.Logger,
) gin.HandlerFunc {
	limiters := newLimiterSet(ctx, rps, burst)

	return func(c *gin.Context) {
		if ExtractCredential(c.Request, param).Source == authDomain.SourceNone {
			c.Next()
			return
		}
		if limiters.admit(c, "ip:"+c.ClientIP(), logger) {
			c.Next()
		}
	}
}
