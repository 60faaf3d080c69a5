package service

import (
	"sync"
	"time"
)

type cooldownKey struct {
	guildID int64
	userID  int64
}

// CooldownGate tracks the last passive XP grant per (guild, user) pair in
// process memory. The state is transient: after a restart every user is
// eligible again, which at worst allows one early grant.
type CooldownGate struct {
	mu     sync.Mutex
	window time.Duration
	last   map[cooldownKey]time.Time
}

// NewCooldownGate creates a gate with the given minimum interval between grants
func NewCooldownGate(window time.Duration) *CooldownGate {
	return &CooldownGate{
		window: window,
		last:   make(map[cooldownKey]time.Time),
	}
}

// Ready reports whether the pair is outside its cooldown window at now
func (g *CooldownGate) Ready(guildID, userID int64, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.last[cooldownKey{guildID, userID}]
	if !ok {
		return true
	}
	return now.Sub(last) >= g.window
}

// Stamp records now as the pair's last grant time. Called only after the
// corresponding XP award has been persisted, so a failed award does not burn
// the user's window.
func (g *CooldownGate) Stamp(guildID, userID int64, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.last[cooldownKey{guildID, userID}] = now
}
