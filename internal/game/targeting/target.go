package targeting

import (
	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// GameView is the read-only game state access resolvers need.
type GameView interface {
	// PlayerIDs returns both players in seat order.
	PlayerIDs() []string
	// Opponent returns the other player's ID.
	Opponent(playerID string) string
	// FieldCards returns a player's slot array, index-aligned, nil for empty
	// slots. Index 0 is the active slot.
	FieldCards(playerID string) []*field.Card
	// Attached returns an instance's attached energy.
	Attached(instanceID string) map[cards.EnergyType]int
	// Hand, Deck and DiscardPile return template ID lists.
	Hand(playerID string) []string
	Deck(playerID string) []string
	DiscardPile(playerID string) []string
	// DiscardedEnergy returns a player's discarded-energy ledger.
	DiscardedEnergy(playerID string) map[cards.EnergyType]int
}

// ResultKind classifies a resolution outcome.
type ResultKind int

const (
	// KindResolved is terminal: the target list is concrete (possibly empty).
	KindResolved ResultKind = iota
	// KindNoValidTargets is terminal: the effect cannot proceed. Callers
	// treat it as a soft skip, never an error.
	KindNoValidTargets
	// KindRequiresSelection is non-terminal: the orchestrator must suspend
	// and present Candidates to ChooserID.
	KindRequiresSelection
)

// Result is the outcome of one field-target resolution.
type Result struct {
	Kind       ResultKind
	Refs       []cards.TargetRef
	Candidates []cards.TargetRef
	ChooserID  string
	Count      int
}

// CardResult is the outcome of a card-location resolution: indices into the
// scoped hand/deck/discard list.
type CardResult struct {
	Kind    ResultKind
	OwnerID string
	Indices []int
}

// EnergyResult is the outcome of an energy-location resolution: per-type
// available amounts after type filtering.
type EnergyResult struct {
	Kind    ResultKind
	Amounts map[cards.EnergyType]int
}
