// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

// Quota allows Requests per Window with up to Burst extra at once.
type Quota struct {
	Requests int
	Burst    int
	Window   time.Duration
}

func (q Quota) redisLimit() redis_rate.Limit {
	return redis_rate.Limit{Rate: q.Requests, Burst: q.Burst, Period: q.Window}
}

type verdict struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAfter time.Duration
}

type quotaStore interface {
	take(ctx context.Context, key string, q Quota) (verdict, error)
}

type RateLimitConfig struct {
	// Name prefixes every key and labels rejections.
	Name     string
	Quota    Quota
	KeyFunc  func(*http.Request) string
	Skip     func(*http.Request) bool
	OnReject func(name string)
}

// RateLimiter counts requests in Redis and falls back to process-local
// buckets while Redis is unreachable.
type RateLimiter struct {
	cfg      RateLimitConfig
	primary  quotaStore
	fallback quotaStore
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Quota.Window <= 0 {
		cfg.Quota.Window = time.Minute
	}
	if cfg.Quota.Burst < 1 {
		cfg.Quota.Burst = 1
	}

	return &RateLimiter{
		cfg:      cfg,
		primary:  &redisStore{limiter: redis_rate.NewLimiter(rdb)},
		fallback: newMemoryStore(),
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Skip != nil && rl.cfg.Skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := "ratelimit:" + rl.cfg.Name + ":" + rl.cfg.KeyFunc(r)

		v, err := rl.primary.take(r.Context(), key, rl.cfg.Quota)
		if err != nil {
			slog.WarnContext(r.Context(), "rate limit store unavailable, using local buckets",
				"limiter", rl.cfg.Name,
				"error", err,
			)
			v, _ = rl.fallback.take(r.Context(), key, rl.cfg.Quota)
		}

		writeQuotaHeaders(w, rl.cfg.Quota, v)

		if !v.allowed {
			if rl.cfg.OnReject != nil {
				rl.cfg.OnReject(rl.cfg.Name)
			}
			tooManyRequests(w, v.retryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// KeyByIP keys on the address resolved by ProxyTrust, or the socket peer
// when no resolver ran.
func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

func writeQuotaHeaders(w http.ResponseWriter, q Quota, v verdict) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(q.Requests))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(v.remaining, 0)))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(v.resetAfter).Unix(), 10))
}

func tooManyRequests(w http.ResponseWriter, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))

	core.JSON(w, http.StatusTooManyRequests, core.Envelope{
		"success": false,
		"message": "Too many requests, please try again later",
		"code":    "RATE_LIMITED",
	})
}

type redisStore struct {
	limiter *redis_rate.Limiter
}

func (s *redisStore) take(
	ctx context.Context,
	key string,
	q Quota,
) (verdict, error) {
	res, err := s.limiter.Allow(ctx, key, q.redisLimit())
	if err != nil {
		return verdict{}, err
	}
	return verdict{
		allowed:    res.Allowed > 0,
		remaining:  res.Remaining,
		retryAfter: res.RetryAfter,
		resetAfter: res.ResetAfter,
	}, nil
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryStore keeps one token bucket per key. Idle buckets are pruned on
// access at most once per TTL.
type memoryStore struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	lastPruned time.Time
	now        func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *memoryStore) take(
	_ context.Context,
	key string,
	q Quota,
) (verdict, error) {
	now := s.now()
	every := q.Window / time.Duration(max(q.Requests, 1))

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastPruned) > bucketIdleTTL {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastPruned = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), q.Burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	v := verdict{
		allowed:    b.limiter.AllowN(now, 1),
		remaining:  int(b.limiter.TokensAt(now)),
		resetAfter: every,
	}
	if !v.allowed {
		v.retryAfter = every
	}
	return v, nil
}
