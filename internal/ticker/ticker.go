// Package ticker drives the one-second status refresh: a single periodic
// pulse that re-evaluates the pure status calculators for currently visible
// items and publishes the results as a read-only snapshot. It never touches
// the collection model.
package ticker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aaronvstory/dashbash/internal/identity"
	"github.com/aaronvstory/dashbash/internal/status"
)

// StoreTarget is one visible store whose hours status needs refreshing.
type StoreTarget struct {
	Key       string
	CloseTime string
}

// RosterTarget is one visible roster account with a running or elapsed
// cooldown.
type RosterTarget struct {
	Key        string
	LastUsedAt *time.Time
}

// Targets is the set of derived-status inputs visible right now.
type Targets struct {
	Stores []StoreTarget
	Roster []RosterTarget
}

// Provider supplies the current status inputs. Implemented by the document
// service, which reads them under its own lock.
type Provider interface {
	StatusTargets() Targets
}

// Snapshot is one refresh pass over every visible status, keyed the same
// way as the targets.
type Snapshot struct {
	GeneratedAt time.Time                         `json:"generatedAt"`
	Stores      map[string]*status.StoreStatus    `json:"stores"`
	Roster      map[string]*status.CooldownStatus `json:"roster"`
}

// Refresher holds the latest snapshot and replaces it on every pulse.
type Refresher struct {
	provider Provider
	clock    identity.Clock

	mu   sync.RWMutex
	snap Snapshot
}

// Start creates a refresher and begins the periodic pulse. The first
// snapshot is computed immediately so readers never observe an empty one.
func Start(ctx context.Context, provider Provider, interval time.Duration, clock identity.Clock, log *zap.Logger) *Refresher {
	r := &Refresher{provider: provider, clock: clock}
	r.Refresh()

	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("status refresher stopped")
				return
			case <-t.C:
				r.Refresh()
			}
		}
	}()
	return r
}

// Refresh recomputes every visible status against the current instant.
func (r *Refresher) Refresh() {
	targets := r.provider.StatusTargets()
	now := r.clock.Now()

	snap := Snapshot{
		GeneratedAt: now,
		Stores:      make(map[string]*status.StoreStatus, len(targets.Stores)),
		Roster:      make(map[string]*status.CooldownStatus, len(targets.Roster)),
	}
	for _, t := range targets.Stores {
		if st := status.StoreHours(t.CloseTime, now); st != nil {
			snap.Stores[t.Key] = st
		}
	}
	for _, t := range targets.Roster {
		if cd := status.RosterCooldown(t.LastUsedAt, now); cd != nil {
			snap.Roster[t.Key] = cd
		}
	}

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
}

// Snapshot returns the latest refresh pass.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}
