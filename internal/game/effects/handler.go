package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/coin"
	"github.com/deckforge/pocketbattle/internal/game/targeting"
)

// Messenger is the fire-and-forget notification sink. Sends never affect
// control flow.
type Messenger interface {
	Broadcast(text string)
	ToPlayer(playerID, text string)
}

// GameView is the read-only state access handlers use for CanApply checks
// and value evaluation.
type GameView interface {
	targeting.GameView
	Repo() cards.Repository
	Turn() int
}

// Controllers is the mutation surface handlers apply effects through. Field
// mutators return the actual quantity applied, never the requested one.
type Controllers interface {
	GameView
	Messenger

	ApplyDamage(ref cards.TargetRef, amount int) int
	HealDamage(ref cards.TargetRef, amount int) int
	InflictStatus(ref cards.TargetRef, status string) bool
	SwitchActive(playerID string, benchIndex int) error
	EvolveInto(ref cards.TargetRef, templateID string) error

	AttachEnergy(ref cards.TargetRef, t cards.EnergyType, amount int)
	DiscardEnergy(ref cards.TargetRef, types []cards.EnergyType, count int) map[cards.EnergyType]int
	RemoveFromDiscardPool(playerID string, types []cards.EnergyType, count int) map[cards.EnergyType]int
	RecoverEnergy(ref cards.TargetRef, t cards.EnergyType, amount int) int

	MoveDeckToHand(playerID string, indices []int) []string
	RemoveDeckCards(playerID string, indices []int) []string
	ShuffleDeck(playerID string)
	DrawCards(playerID string, count int) []string
	DiscardFromHand(playerID string, count int) []string
	ReturnHandToDeck(playerID string) int

	Registry() *Registry
	Flipper() *coin.Flipper
	RequestEndTurn()
}

// ResolutionRequirement declares one target property that must be resolved
// before Apply may run.
type ResolutionRequirement struct {
	Property string
	Target   *cards.Target
	Required bool
}

// Handler is the uniform per-effect-kind contract.
type Handler interface {
	// Requirements declares the effect's target properties needing
	// resolution; effects without discrete targets return nil.
	Requirements(eff *cards.Effect) []ResolutionRequirement
	// CanApply is a cheap read-only pre-check gating whether the owning card
	// can legally be played, independent of later resolution.
	CanApply(view GameView, eff *cards.Effect, ctx *Context) bool
	// Apply executes against already-resolved targets. Receiving an
	// unresolved target here is a programmer error and panics.
	Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error
}

var handlers = map[cards.EffectType]Handler{
	cards.EffectHP:                   hpHandler{},
	cards.EffectEnergy:               energyHandler{},
	cards.EffectSwitch:               switchHandler{},
	cards.EffectSearch:               searchHandler{},
	cards.EffectShuffle:              shuffleHandler{},
	cards.EffectSwapCards:            swapCardsHandler{},
	cards.EffectHandDiscard:          handDiscardHandler{},
	cards.EffectPullEvolution:        pullEvolutionHandler{},
	cards.EffectDisableWeakness:      registerHandler{},
	cards.EffectPreventAttack:        registerHandler{},
	cards.EffectPreventPlaying:       registerHandler{},
	cards.EffectPreventDamage:        registerHandler{},
	cards.EffectRetreatPrevention:    registerHandler{},
	cards.EffectRetreatCostMod:       registerHandler{},
	cards.EffectStatusPrevention:     registerHandler{},
	cards.EffectStatus:               statusHandler{},
	cards.EffectDamageBoost:          registerHandler{},
	cards.EffectDamageReduction:      registerHandler{},
	cards.EffectHPBoost:              registerHandler{},
	cards.EffectCoinFlipManipulation: coinFlipHandler{},
	cards.EffectEndTurn:              endTurnHandler{},
}

// HandlerFor returns the handler for an effect kind.
func HandlerFor(t cards.EffectType) (Handler, bool) {
	h, ok := handlers[t]
	return h, ok
}

// mustResolved asserts the terminal target form inside Apply.
func mustResolved(t *cards.Target, effectName string) []cards.TargetRef {
	if !t.IsResolved() {
		panic(fmt.Sprintf("effects: %s applied with unresolved target %q", effectName, targetType(t)))
	}
	return t.Refs
}

func targetType(t *cards.Target) cards.TargetType {
	if t == nil {
		return ""
	}
	return t.Type
}

// targetExists is the shared CanApply check: the target is applicable unless
// it already resolves to no valid targets.
func targetExists(t *cards.Target, view GameView, ctx *Context) bool {
	if t == nil {
		return false
	}
	result := targeting.ResolveField(t, view, view.Repo(), ctx.SourcePlayer)
	switch result.Kind {
	case targeting.KindNoValidTargets:
		return false
	case targeting.KindResolved:
		return len(result.Refs) > 0
	}
	return true
}
