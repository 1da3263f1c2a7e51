package throttle

import (
	"sync"
	"time"
)

// Defaults mirror the deployed behaviour: three strikes inside a one second
// window earn a ten second block, swept once a minute.
const (
	DefaultMaxAttempts = 3
	DefaultWindow      = 1 * time.Second
	DefaultBlockFor    = 10 * time.Second
	DefaultSweepEvery  = 60 * time.Second
)

// Outcome is the result of recording a failed login. The guard never returns
// errors; callers map outcomes to responses.
type Outcome int

const (
	OutcomeInvalidCredentials Outcome = iota
	OutcomeBlocked
)

type Config struct {
	MaxAttempts int
	Window      time.Duration
	BlockFor    time.Duration
	SweepEvery  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.BlockFor <= 0 {
		c.BlockFor = DefaultBlockFor
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = DefaultSweepEvery
	}
	return c
}

type blockEntry struct {
	expiresAt     time.Time
	notFoundCount int
}

// Guard tracks failed logins per (address, username) over a sliding window and
// temporarily blocks addresses that trip the threshold. A separate counter on
// the same table covers unmatched-route abuse. All state is owned by the Guard
// instance; construct one per process and share it.
type Guard struct {
	cfg Config

	mu       sync.Mutex
	failures map[string][]time.Time
	blocks   map[string]blockEntry

	stopCh chan struct{}
}

func NewGuard(cfg Config) *Guard {
	return &Guard{
		cfg:      cfg.withDefaults(),
		failures: make(map[string][]time.Time),
		blocks:   make(map[string]blockEntry),
		stopCh:   make(chan struct{}),
	}
}

func failureKey(addr, username string) string { return addr + "|" + username }

// CheckBlocked reports whether addr is blocked at now. A stale entry whose
// expiry has passed never denies a request, even before the sweeper gets to it.
func (g *Guard) CheckBlocked(addr string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.blocks[addr]
	return ok && b.expiresAt.After(now)
}

// RecordFailedLogin notes one failed attempt for (addr, username). A strike
// that reaches MaxAttempts inside the window blocks the address instead of
// being recorded, so the stored sequence never grows past MaxAttempts-1
// entries.
func (g *Guard) RecordFailedLogin(addr, username string, now time.Time) Outcome {
	key := failureKey(addr, username)
	cutoff := now.Add(-g.cfg.Window)

	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.failures[key]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	ts = kept

	if len(ts)+1 >= g.cfg.MaxAttempts {
		b := g.blocks[addr]
		b.expiresAt = now.Add(g.cfg.BlockFor)
		g.blocks[addr] = b
		g.failures[key] = ts
		return OutcomeBlocked
	}

	g.failures[key] = append(ts, now)
	return OutcomeInvalidCredentials
}

// RecordSuccessfulLogin drops the failure history for the exact
// (addr, username) key. Blocks already issued for the address stay in force.
func (g *Guard) RecordSuccessfulLogin(addr, username string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.failures, failureKey(addr, username))
}

// RecordNotFound counts an unmatched-route hit for addr. Reaching the
// threshold issues a block unless one is still in force; a live block is
// never extended.
func (g *Guard) RecordNotFound(addr string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := g.blocks[addr]
	b.notFoundCount++
	if b.notFoundCount >= g.cfg.MaxAttempts {
		if b.expiresAt.IsZero() || !b.expiresAt.After(now) {
			b.expiresAt = now.Add(g.cfg.BlockFor)
		}
	}
	g.blocks[addr] = b
}

// Sweep removes block entries expired at now and nothing else.
func (g *Guard) Sweep(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for addr, b := range g.blocks {
		if !b.expiresAt.IsZero() && !b.expiresAt.After(now) {
			delete(g.blocks, addr)
		}
	}
}

// BlockExpiry returns the expiry of an active block for addr, if any.
func (g *Guard) BlockExpiry(addr string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.blocks[addr]
	if !ok || b.expiresAt.IsZero() {
		return time.Time{}, false
	}
	return b.expiresAt, true
}
