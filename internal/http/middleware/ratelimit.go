package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// EdgeLimiter is a per-IP token-bucket guard over the whole router. It
// is abuse control in front of everything, separate from the
// fixed-window limits the OTP and mutation endpoints maintain per
// phone or user.
type EdgeLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewEdgeLimiter creates a per-IP limiter: rps requests/second, bursts
// up to burst.
func NewEdgeLimiter(rps float64, burst int) *EdgeLimiter {
	el := &EdgeLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go el.cleanup()
	return el
}

func (el *EdgeLimiter) get(ip string) *rate.Limiter {
	el.mu.Lock()
	defer el.mu.Unlock()
	if v, ok := el.visitors[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	l := rate.NewLimiter(el.rps, el.burst)
	el.visitors[ip] = &visitor{limiter: l, lastSeen: time.Now()}
	return l
}

// cleanup evicts idle buckets every 5 minutes to bound memory.
func (el *EdgeLimiter) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		el.mu.Lock()
		for ip, v := range el.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(el.visitors, ip)
			}
		}
		el.mu.Unlock()
	}
}

// Handler enforces the limit per client IP.
func (el *EdgeLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !el.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
