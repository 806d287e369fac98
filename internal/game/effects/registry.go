package effects

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// PassiveEffect is one registered durational modifier. It is consulted by
// the damage resolver and the attack/play/retreat eligibility checks rather
// than applied immediately.
type PassiveEffect struct {
	ID           string
	SourcePlayer string
	// HostInstance ties while-in-play effects to a creature; the entry is
	// cleared when that creature leaves the field.
	HostInstance   string
	Name           string
	Effect         cards.Effect
	Duration       cards.Duration
	TurnRegistered int
}

// Registry stores the passive effects active in one game session. It is
// owned by the game aggregate, constructed once per game.
type Registry struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	entries []*PassiveEffect
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a passive effect and returns its ID.
func (r *Registry) Register(sourcePlayer, hostInstance, name string, eff cards.Effect, duration cards.Duration, turn int) string {
	entry := &PassiveEffect{
		ID:             uuid.NewString(),
		SourcePlayer:   sourcePlayer,
		HostInstance:   hostInstance,
		Name:           name,
		Effect:         eff,
		Duration:       duration,
		TurnRegistered: turn,
	}
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	r.logger.Debug("passive effect registered",
		zap.String("name", name),
		zap.String("type", string(eff.Type)),
		zap.String("duration", string(duration)),
		zap.Int("turn", turn),
	)
	return entry.ID
}

// ByType returns the active entries of one effect kind.
func (r *Registry) ByType(t cards.EffectType) []*PassiveEffect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*PassiveEffect
	for _, entry := range r.entries {
		if entry.Effect.Type == t {
			out = append(out, entry)
		}
	}
	return out
}

// All returns every active entry.
func (r *Registry) All() []*PassiveEffect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*PassiveEffect(nil), r.entries...)
}

// Remove deletes one entry by ID.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(func(e *PassiveEffect) bool { return e.ID == id })
}

// ClearExpired is the turn-boundary sweep, invoked when playerEnding's turn
// number turnEnding finishes. Duration kinds expire on different boundaries:
//
//	until-end-of-turn, turn    end of the turn they were registered in
//	until-end-of-next-turn     end of the turn after registration
//	self-next-turn             end of the source player's next turn
//	opponent-next-turn         end of the opposing player's next turn
//	while-in-play              never (ClearForInstance only)
func (r *Registry) ClearExpired(turnEnding int, playerEnding string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(func(e *PassiveEffect) bool {
		switch e.Duration {
		case cards.DurationUntilEndOfTurn, cards.DurationTurn:
			return turnEnding >= e.TurnRegistered
		case cards.DurationUntilEndOfNextTurn:
			return turnEnding >= e.TurnRegistered+1
		case cards.DurationSelfNextTurn:
			return playerEnding == e.SourcePlayer && turnEnding > e.TurnRegistered
		case cards.DurationOpponentNextTurn:
			return playerEnding != e.SourcePlayer && turnEnding > e.TurnRegistered
		}
		return false
	})
}

// ClearForInstance removes every effect hosted by a creature that left the
// field (knockout, evolution, retreat of while-in-play hosts).
func (r *Registry) ClearForInstance(instanceID string) {
	if instanceID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(func(e *PassiveEffect) bool { return e.HostInstance == instanceID })
}

func (r *Registry) removeLocked(expired func(*PassiveEffect) bool) {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if expired(entry) {
			r.logger.Debug("passive effect cleared",
				zap.String("name", entry.Name),
				zap.String("type", string(entry.Effect.Type)),
			)
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
}
