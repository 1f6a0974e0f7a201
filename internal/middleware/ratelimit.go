package middleware

import (
	"sync"

	"chatmsg-go/internal/apperr"
	"chatmsg-go/internal/config"
	"chatmsg-go/internal/response"
	"chatmsg-go/pkg/log"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterPool 为每个客户端 IP 维护一个令牌桶。
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(p.rps, p.burst)
	p.m[key] = l
	return l
}

// RateLimit 按客户端 IP 限流，RPS 不大于 0 时直接放行。
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	pool := &limiterPool{m: make(map[string]*rate.Limiter), rps: rate.Limit(cfg.RPS), burst: burst}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !pool.get(ip).Allow() {
			log.Warnf("RateLimit: client %s exceeded %.2f rps", ip, cfg.RPS)
			response.Error(c, apperr.RateLimited())
			return
		}
		c.Next()
	}
}
