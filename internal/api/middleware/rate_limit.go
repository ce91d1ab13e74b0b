package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	apiContext "adpulse/internal/api/context"
	"adpulse/internal/platform/auth"
)

type RateLimiter struct {
	store *sync.Map // map[string]*Bucket
}

type Bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
	lastAccess time.Time
}

var rateLimits = map[string]int{
	"collect":   5000, // pixel events per minute per IP
	"webhook":   2000, // vendor deliveries per minute per IP
	"api_read":  1000,
	"api_write": 100,
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		store: &sync.Map{},
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			bucket := value.(*Bucket)
			bucket.mu.Lock()
			if now.Sub(bucket.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			bucket.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &Bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	bucket := val.(*Bucket)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.lastAccess = now

	// Refill at limit/60 tokens per second
	elapsed := now.Sub(bucket.lastRefill)
	refillRate := float64(limit) / 60.0
	refillTokens := int(elapsed.Seconds() * refillRate)

	if refillTokens > 0 {
		if bucket.tokens+refillTokens > limit {
			bucket.tokens = limit
		} else {
			bucket.tokens += refillTokens
		}
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

var GlobalRateLimiter = NewRateLimiter()

func RateLimit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var key string

			if claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims); ok && claims != nil {
				key = fmt.Sprintf("%s:%s", claims.UserID, limitType)
			} else {
				key = fmt.Sprintf("%s:%s", r.RemoteAddr, limitType)
			}

			limit, ok := rateLimits[limitType]
			if !ok {
				limit = 100
			}

			if !GlobalRateLimiter.Allow(key, limit) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}
