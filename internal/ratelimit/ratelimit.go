package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	Allow(key string) bool
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryLimiter keeps one token bucket per client key in memory.
// Clients idle long enough for their bucket to refill are forgotten, so
// the map stays bounded by the clients seen within that window.
type InMemoryLimiter struct {
	clients   map[string]*client
	mu        sync.Mutex
	r         rate.Limit    // Rate of adding tokens
	b         int           // Bucket size
	idle      time.Duration // Time for an empty bucket to refill
	lastSweep time.Time
	clock     clockwork.Clock
}

// NewInMemoryLimiter creates a new rate limiter
// Example: NewInMemoryLimiter(6, time.Minute, 3) -> 6 refreshes a minute per client, burst of 3
func NewInMemoryLimiter(requests int, per time.Duration, burst int) Limiter {
	return newInMemoryLimiter(requests, per, burst, clockwork.NewRealClock())
}

func newInMemoryLimiter(requests int, per time.Duration, burst int, clock clockwork.Clock) Limiter {
	if requests <= 0 {
		return unlimited{}
	}
	if burst <= 0 {
		burst = 1
	}
	interval := per / time.Duration(requests)
	return &InMemoryLimiter{
		clients:   make(map[string]*client),
		r:         rate.Every(interval),
		b:         burst,
		idle:      interval * time.Duration(burst),
		lastSweep: clock.Now(),
		clock:     clock,
	}
}

// Allow checks if a client is allowed to perform an action
func (l *InMemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	c, exists := l.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// sweep drops clients whose bucket is full again; a new bucket for them
// would behave identically.
func (l *InMemoryLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

type unlimited struct{}

func (unlimited) Allow(string) bool { return true }
