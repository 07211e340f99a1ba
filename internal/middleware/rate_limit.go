package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limites par IP
const (
	SearchMaxRequests = 30
	SearchWindow      = 1 * time.Minute

	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// SubmissionRateLimit limite les formulaires envoyés par une même IP : au plus
// limit soumissions par fenêtre. Sans Redis, ou si Redis ne répond pas, la
// requête passe.
func SubmissionRateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return ipRateLimit(rdb, "submissions:", limit, window, "Trop de demandes envoyées. Réessayez plus tard")
}

// SearchRateLimit limite les recherches (anti-spam)
func SearchRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return ipRateLimit(rdb, "search_requests:", SearchMaxRequests, SearchWindow, "Trop de recherches. Réessayez dans 1 minute")
}

// LoginRateLimit limite les tentatives de connexion admin.
func LoginRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return ipRateLimit(rdb, "login_attempts:", LoginMaxAttempts, LoginCooldown, "Trop de tentatives. Réessayez plus tard")
}

func ipRateLimit(rdb *redis.Client, prefix string, limit int, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := prefix + c.ClientIP()

		// la fenêtre démarre à la première requête ; NX pose aussi un TTL sur
		// une clé qui en serait restée dépourvue
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			zap.S().Warnw("⚠️ Redis indisponible, limite ignorée", "key", key, "error", err)
			c.Next()
			return
		}
		count := incr.Val()

		if count > int64(limit) {
			ttl, err := rdb.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       message,
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(limit)-count))
		c.Next()
	}
}
