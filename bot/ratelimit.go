package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedNicks bounds the limiter table.
const maxTrackedNicks = 1024

type nickLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newNickLimiter(perMinute int) *nickLimiter {
	return &nickLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: map[string]*rate.Limiter{},
	}
}

func (l *nickLimiter) allow(nickname string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[nickname]
	if !ok {
		if len(l.limiters) >= maxTrackedNicks {
			l.evict()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[nickname] = lim
	}
	return lim.Allow()
}

// evict drops the limiter with the most tokens left, which is the one that
// loses the least when it starts over with a full bucket.
func (l *nickLimiter) evict() {
	var (
		victim string
		most   = -1.0
	)
	for nickname, lim := range l.limiters {
		if tokens := lim.Tokens(); tokens > most {
			victim, most = nickname, tokens
		}
	}
	delete(l.limiters, victim)
}
