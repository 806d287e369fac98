package energy

import (
	"sync"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// Ledger tracks every unit of energy in a game: per-instance attached maps,
// per-player discarded maps and the per-player available-type set derived
// from deck composition. Discarded maps only ever grow; the only way energy
// leaves the attached maps is through an explicit discard, which lands in the
// discard ledger.
type Ledger struct {
	mu        sync.RWMutex
	attached  map[string]map[cards.EnergyType]int
	discarded map[string]map[cards.EnergyType]int
	available map[string][]cards.EnergyType
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		attached:  make(map[string]map[cards.EnergyType]int),
		discarded: make(map[string]map[cards.EnergyType]int),
		available: make(map[string][]cards.EnergyType),
	}
}

// SetAvailableTypes records the energy types a player's deck can generate.
func (l *Ledger) SetAvailableTypes(playerID string, types []cards.EnergyType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.available[playerID] = append([]cards.EnergyType(nil), types...)
}

// AvailableTypes returns the player's deck-derived energy types.
func (l *Ledger) AvailableTypes(playerID string) []cards.EnergyType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]cards.EnergyType(nil), l.available[playerID]...)
}

// Attach adds energy to a creature instance.
func (l *Ledger) Attach(instanceID string, t cards.EnergyType, amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	pool := l.attached[instanceID]
	if pool == nil {
		pool = make(map[cards.EnergyType]int)
		l.attached[instanceID] = pool
	}
	pool[t] += amount
}

// Attached returns a copy of the instance's attached energy map.
func (l *Ledger) Attached(instanceID string) map[cards.EnergyType]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[cards.EnergyType]int, len(l.attached[instanceID]))
	for t, n := range l.attached[instanceID] {
		out[t] = n
	}
	return out
}

// AttachedCount returns the total units attached to an instance.
func (l *Ledger) AttachedCount(instanceID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0
	for _, n := range l.attached[instanceID] {
		total += n
	}
	return total
}

// Discard moves up to amount units of one type from an instance to its
// owner's discard ledger, returning the amount actually moved. Shortfall is
// tolerated, never an error.
func (l *Ledger) Discard(playerID, instanceID string, t cards.EnergyType, amount int) int {
	if amount <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	pool := l.attached[instanceID]
	moved := amount
	if moved > pool[t] {
		moved = pool[t]
	}
	if moved == 0 {
		return 0
	}
	pool[t] -= moved
	if pool[t] == 0 {
		delete(pool, t)
	}
	l.addDiscardedLocked(playerID, t, moved)
	return moved
}

// DiscardAny discards up to count units from an instance walking the allowed
// types in order, stopping once the count is satisfied. Returns the per-type
// amounts moved.
func (l *Ledger) DiscardAny(playerID, instanceID string, types []cards.EnergyType, count int) map[cards.EnergyType]int {
	moved := make(map[cards.EnergyType]int)
	remaining := count
	for _, t := range types {
		if remaining <= 0 {
			break
		}
		n := l.Discard(playerID, instanceID, t, remaining)
		if n > 0 {
			moved[t] = n
			remaining -= n
		}
	}
	return moved
}

// DiscardAll discards every unit attached to an instance (knockout cleanup),
// returning the per-type amounts moved.
func (l *Ledger) DiscardAll(playerID, instanceID string) map[cards.EnergyType]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	pool := l.attached[instanceID]
	moved := make(map[cards.EnergyType]int, len(pool))
	for t, n := range pool {
		moved[t] = n
		l.addDiscardedLocked(playerID, t, n)
	}
	delete(l.attached, instanceID)
	return moved
}

// Discarded returns a copy of the player's discarded-energy ledger.
func (l *Ledger) Discarded(playerID string) map[cards.EnergyType]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[cards.EnergyType]int, len(l.discarded[playerID]))
	for t, n := range l.discarded[playerID] {
		out[t] = n
	}
	return out
}

// RemoveFromDiscard permanently removes up to count units from a player's
// discard ledger, walking the allowed types in order (all types when empty).
// Returns the per-type amounts removed.
func (l *Ledger) RemoveFromDiscard(playerID string, types []cards.EnergyType, count int) map[cards.EnergyType]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	pile := l.discarded[playerID]
	if len(types) == 0 {
		types = cards.EnergyTypeOrder
	}
	removed := make(map[cards.EnergyType]int)
	remaining := count
	for _, t := range types {
		if remaining <= 0 {
			break
		}
		n := remaining
		if n > pile[t] {
			n = pile[t]
		}
		if n == 0 {
			continue
		}
		pile[t] -= n
		if pile[t] == 0 {
			delete(pile, t)
		}
		removed[t] = n
		remaining -= n
	}
	return removed
}

// RecoverFromDiscard moves up to amount units of one type out of the
// player's discard ledger onto a creature, returning the amount moved.
func (l *Ledger) RecoverFromDiscard(playerID, instanceID string, t cards.EnergyType, amount int) int {
	if amount <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	pile := l.discarded[playerID]
	moved := amount
	if moved > pile[t] {
		moved = pile[t]
	}
	if moved == 0 {
		return 0
	}
	pile[t] -= moved
	if pile[t] == 0 {
		delete(pile, t)
	}
	pool := l.attached[instanceID]
	if pool == nil {
		pool = make(map[cards.EnergyType]int)
		l.attached[instanceID] = pool
	}
	pool[t] += moved
	return moved
}

func (l *Ledger) addDiscardedLocked(playerID string, t cards.EnergyType, amount int) {
	pile := l.discarded[playerID]
	if pile == nil {
		pile = make(map[cards.EnergyType]int)
		l.discarded[playerID] = pile
	}
	pile[t] += amount
}
