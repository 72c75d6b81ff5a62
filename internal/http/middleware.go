package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/log"
	"github.com/tazhibayda/social-service/internal/metrics"
	"github.com/tazhibayda/social-service/internal/repo"
	"github.com/tazhibayda/social-service/internal/security"
	"go.uber.org/zap"
)

const (
	ctxClaimsKey = "idp_claims"
	ctxUserKey   = "current_user"
	ctxReqIDKey  = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxReqIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		c.Next()
		metrics.InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// AuthJWT verifies the identity provider's bearer token and stashes the
// claims. It does not touch the database.
func AuthJWT(f *security.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "missing bearer token"})
			return
		}
		tok := strings.TrimSpace(h[len("Bearer "):])
		claims, err := f.ParseAndVerify(c.Request.Context(), tok)
		if err != nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "invalid token"})
			return
		}
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// EnsureUser resolves the external identity to a local user exactly
// once per request, creating the record on first contact, and passes it
// down via context. Handlers never look up the external id themselves.
func EnsureUser(store *repo.Store, presence *repo.Presence) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ctxClaimsKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "unauthorized"})
			return
		}
		claims := v.(*security.Claims)

		u, err := store.FindUserByExternalID(c.Request.Context(), claims.Subject)
		if err != nil {
			respondServiceErr(c, err)
			c.Abort()
			return
		}
		if u == nil {
			u = &domain.User{
				ExternalID: claims.Subject,
				Name:       claims.Name,
				Email:      claims.Email,
				Bio:        "",
			}
			if err := store.CreateUser(c.Request.Context(), u); err != nil {
				if repo.IsDup(err) {
					// concurrent first request won the insert
					u, err = store.FindUserByExternalID(c.Request.Context(), claims.Subject)
				}
				if err != nil || u == nil {
					respondServiceErr(c, err)
					c.Abort()
					return
				}
			} else {
				log.L().Info("local user created",
					zap.String("external_id", claims.Subject), zap.String("user_id", u.ID.Hex()))
			}
		}

		if presence != nil {
			go func(uid string) {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := presence.Heartbeat(ctx, uid); err != nil {
					log.L().Debug("presence heartbeat failed", zap.Error(err))
				}
			}(u.ID.Hex())
		}

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, _ := c.Get(ctxUserKey)
	u, _ := v.(*domain.User)
	return u
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxReqIDKey)
}

type bucket struct {
	tokens  int
	updated time.Time
}

// RateLimiter is a per-IP fixed-window limiter for public endpoints.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*bucket), rate: rate, window: window}
}

func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[ip]
	if !ok || now.Sub(b.updated) > rl.window {
		rl.buckets[ip] = &bucket{tokens: 1, updated: now}
		return true
	}
	if b.tokens < rl.rate {
		b.tokens++
		b.updated = now
		return true
	}
	return false
}

func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !rl.Allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope{Success: false, Error: "too many requests"})
			return
		}
		c.Next()
	}
}
