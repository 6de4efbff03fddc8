package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"meeting-collab-backend/auth"
)

// identityKey gin上下文中已验证身份的键名
const identityKey = "identity"

// RequireAuth 验证Bearer令牌的中间件，验证通过后把身份放入上下文
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			} else {
				log.Printf("身份验证异常: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// currentIdentity 从上下文取出已验证身份，必须在RequireAuth之后调用
func currentIdentity(c *gin.Context) *auth.Identity {
	value, _ := c.Get(identityKey)
	identity, _ := value.(*auth.Identity)
	return identity
}

// 每个客户端地址一个令牌桶
var (
	limiterMu      sync.Mutex
	limiters       map[string]*rate.Limiter
	limiterRate    rate.Limit = 50
	limiterBurst              = 100
)

// InitRateLimiters 初始化限流器，速率可通过环境变量调整
func InitRateLimiters() {
	limiterMu.Lock()
	defer limiterMu.Unlock()

	limiters = make(map[string]*rate.Limiter)

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limiterRate = rate.Limit(parsed)
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limiterBurst = parsed
		}
	}

	log.Printf("限流器初始化成功: %v req/s, 突发 %d", limiterRate, limiterBurst)
}

// clientLimiter 获取或创建客户端对应的限流器
func clientLimiter(clientIP string) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()

	if limiters == nil {
		limiters = make(map[string]*rate.Limiter)
	}
	limiter, ok := limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(limiterRate, limiterBurst)
		limiters[clientIP] = limiter
	}
	return limiter
}

// RateLimitMiddleware 按客户端地址限流的中间件
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !clientLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
