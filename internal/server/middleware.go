package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"katydid-vehicle-market/internal/token"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxUserID       = "user_id"
)

// requestID 沿用客户端提供的合法 UUID，否则生成新的
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// rateLimit 全局令牌桶，limit <= 0 时不限流
func rateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			abort(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}

// bearer 解析 Authorization 头，未携带时 present 为 false
func bearer(c *gin.Context, tokens *token.Issuer) (userID int64, present bool, err error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false, nil
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return 0, true, token.ErrInvalidToken
	}
	userID, err = tokens.Parse(strings.TrimSpace(raw))
	return userID, true, err
}

// authenticate 校验 Bearer 令牌，用户 ID 写入上下文
func authenticate(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, present, err := bearer(c, tokens)
		if !present {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// optionalAuth 携带令牌时必须合法，未携带时按匿名访问
func optionalAuth(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, present, err := bearer(c, tokens)
		if present && err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		if present {
			c.Set(ctxUserID, userID)
		}
		c.Next()
	}
}

// currentUser 当前用户 ID，匿名访问时为 0
func currentUser(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
