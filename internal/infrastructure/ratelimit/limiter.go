package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 10 * time.Minute
	idleTimeout     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiters holds one token bucket per client identifier
type ClientLimiters struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
	now         func() time.Time
}

// NewClientLimiters creates per-client limiters refilling rps tokens per second up to burst
func NewClientLimiters(rps float64, burst int) *ClientLimiters {
	return &ClientLimiters{
		clients:     make(map[string]*clientLimiter),
		limit:       rate.Limit(rps),
		burst:       burst,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow consumes a token for clientID and reports the tokens left
func (c *ClientLimiters) Allow(clientID string) (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, ok := c.clients[clientID]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst), lastSeen: now}
		c.clients[clientID] = entry
		c.maybeCleanupLocked(now)
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// maybeCleanupLocked drops limiters for clients idle longer than idleTimeout
func (c *ClientLimiters) maybeCleanupLocked(now time.Time) {
	if now.Sub(c.lastCleanup) < cleanupInterval {
		return
	}
	for id, entry := range c.clients {
		if now.Sub(entry.lastSeen) > idleTimeout {
			delete(c.clients, id)
		}
	}
	c.lastCleanup = now
}

// Stats returns statistics about the tracked clients
func (c *ClientLimiters) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]interface{}{
		"total_clients":       len(c.clients),
		"burst":               c.burst,
		"requests_per_second": float64(c.limit),
	}
}
