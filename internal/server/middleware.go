package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/internal/auth"
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

const (
	ctxCaregiverID = "caregiver_id"
	ctxAgencyID    = "agency_id"
	ctxRole        = "role"
)

// authMiddleware validates the bearer token and stores the caller's identity
// on the gin context
func authMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		c.Set(ctxCaregiverID, claims.CaregiverID)
		c.Set(ctxAgencyID, claims.AgencyID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// adminOnly rejects callers without the admin role. Must run after
// authMiddleware.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != string(model.RoleAdmin) {
			respondError(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// quotaMiddleware enforces a per-caregiver daily request quota on the
// endpoints it wraps, backed by a redis counter that expires at the end of
// the UTC day. Redis being down fails open: the request proceeds.
func quotaMiddleware(rdb *redis.Client, logger *zap.Logger, dailyLimit int, clock func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		caregiverID := c.GetString(ctxCaregiverID)
		now := clock().UTC()
		key := fmt.Sprintf("quota:coverage:%s:%s", caregiverID, now.Format("2006-01-02"))

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("Quota check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
			rdb.ExpireAt(c.Request.Context(), key, endOfDay)
		}
		if count > int64(dailyLimit) {
			respondError(c, http.StatusTooManyRequests, "daily request quota exceeded")
			return
		}
		c.Next()
	}
}
