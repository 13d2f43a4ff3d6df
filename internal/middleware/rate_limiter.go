package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"straublot/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ── Per-IP rate limiter ───────────────────────────────────────────────────────

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	mensagem string
	now      func() time.Time

	lastPurge time.Time
}

const purgeInterval = 5 * time.Minute

func NewIPRateLimiter(limit rate.Limit, burst int, mensagem string) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		mensagem: mensagem,
		now:      time.Now,
	}
}

func (rl *IPRateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.now().Sub(rl.lastPurge) > purgeInterval {
		rl.purgeLocked(purgeInterval)
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Purge removes visitors idle for longer than idle. It also runs inline every
// purgeInterval so the map does not grow with IPs that never return.
func (rl *IPRateLimiter) Purge(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.purgeLocked(idle)
}

// must be called under lock
func (rl *IPRateLimiter) purgeLocked(idle time.Duration) int {
	rl.lastPurge = rl.now()
	purged := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > idle {
			delete(rl.visitors, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(rl.visitors)).Msg("rate limiter visitors purged")
	}
	return purged
}

// Middleware answers 429 once the client's bucket is empty.
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.limiter(c.ClientIP())
		if !lim.Allow() {
			wait := time.Duration(float64(time.Second) / float64(rl.limit))
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.mensagem))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(3*time.Second), 20, "Muitas tentativas de login. Tente novamente em 1 minuto.")
}
