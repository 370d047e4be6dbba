package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBreakerOpen is returned when a call is refused because the guarded
// backend is still considered down.
var ErrBreakerOpen = errors.New("backend unavailable, retry later")

// BreakerState is the breaker's position in the closed/open/half-open cycle.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker shields the admin API client from a backend that keeps failing.
// After maxFailures consecutive failures new calls fail fast with
// ErrBreakerOpen until the cooldown passes; the next call then runs as a
// probe and its outcome decides whether traffic resumes.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
}

func NewBreaker(name string, maxFailures int, cooldown time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{name: name, maxFailures: maxFailures, cooldown: cooldown}
}

// State reports the current state, moving open to half-open once the
// cooldown has passed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(time.Now())
}

func (b *Breaker) stateLocked(now time.Time) BreakerState {
	if b.state == BreakerOpen && now.Sub(b.openedAt) >= b.cooldown {
		b.state = BreakerHalfOpen
	}
	return b.state
}

// Execute runs fn unless the breaker is open, and records the outcome.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.stateLocked(time.Now()) == BreakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
			if b.state != BreakerOpen {
				log.Warn().
					Str("breaker", b.name).
					Int("failures", b.failures).
					Dur("cooldown", b.cooldown).
					Msg("circuit opened")
			}
			b.state = BreakerOpen
			b.openedAt = time.Now()
		}
		return err
	}
	if b.state == BreakerHalfOpen {
		log.Info().Str("breaker", b.name).Msg("circuit closed after successful probe")
	}
	b.state = BreakerClosed
	b.failures = 0
	return nil
}
