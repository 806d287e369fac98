package combat

import (
	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/coin"
	"github.com/deckforge/pocketbattle/internal/game/conditions"
	"github.com/deckforge/pocketbattle/internal/game/effects"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// weaknessBonus is the flat bonus for hitting into weakness. Exactly one
// tier, never scaled by damage magnitude.
const weaknessBonus = 20

// Input carries the participants of one attack. Templates are looked up by
// the caller; a missing template is a hard error there, not here.
type Input struct {
	AttackerPlayer   string
	Attacker         *field.Card
	AttackerIndex    int
	AttackerTemplate *cards.Creature

	DefenderPlayer   string
	Defender         *field.Card
	DefenderTemplate *cards.Creature

	Attack *cards.Attack
}

// ResolveAttackDamage composes an attack's final damage in a fixed order:
// base (dynamic formulas included), weakness, registry boosts, attack
// boosts, defender-registered reductions, prevention short-circuit, clamp.
// The order is behaviorally observable and must not change.
func ResolveAttackDamage(view effects.GameView, reg *effects.Registry, flipper *coin.Flipper, in Input, logger *zap.Logger) int {
	ctx := effects.NewAttackContext(in.AttackerPlayer, in.Attack.Name, in.Attacker, in.AttackerIndex)

	total := baseDamage(view, flipper, in, ctx)

	if applyWeakness(reg, in) {
		total += weaknessBonus
	}

	for _, entry := range reg.ByType(cards.EffectDamageBoost) {
		if entry.SourcePlayer != in.AttackerPlayer {
			continue
		}
		if !boostApplies(entry, in.DefenderTemplate) {
			continue
		}
		total += effects.EvaluateValue(entry.Effect.Amount, view, ctx)
	}

	for _, boost := range in.Attack.Boosts {
		if conditions.Evaluate(boost.Condition, in.Attacker, attachedView{view}, view.Repo()) {
			total += boost.Amount
		}
	}

	for _, entry := range reg.ByType(cards.EffectDamageReduction) {
		// Reductions only ever act for the defending player; one registered
		// by the attacker must not reduce the attacker's outgoing damage.
		if entry.SourcePlayer != in.DefenderPlayer {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != in.Defender.InstanceID {
			continue
		}
		total -= effects.EvaluateValue(entry.Effect.Amount, view, ctx)
	}

	for _, entry := range reg.ByType(cards.EffectPreventDamage) {
		if entry.SourcePlayer != in.DefenderPlayer {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != in.Defender.InstanceID {
			continue
		}
		// The source discriminator is evaluated now, against the actual
		// attacker, because its identity was unknown at registration.
		if entry.Effect.Source != nil && !in.AttackerTemplate.HasAttribute(entry.Effect.Source.Attribute) {
			continue
		}
		logger.Debug("damage prevented",
			zap.String("by", entry.Name),
			zap.String("attack", in.Attack.Name),
		)
		return 0
	}

	if total < 0 {
		total = 0
	}
	return total
}

func baseDamage(view effects.GameView, flipper *coin.Flipper, in Input, ctx *effects.Context) int {
	if in.Attack.Dynamic == nil {
		return in.Attack.Damage
	}
	return resolveDynamic(in.Attack.Dynamic, view, flipper, in, ctx)
}

func resolveDynamic(d *cards.DynamicDamage, view effects.GameView, flipper *coin.Flipper, in Input, ctx *effects.Context) int {
	switch d.Kind {
	case cards.DynamicMultiplication:
		return d.Base * effects.EvaluateValue(d.Multiplier, view, ctx)
	case cards.DynamicCoinFlip:
		if flipper.Flip() {
			return d.Heads
		}
		return d.Tails
	case cards.DynamicAddition:
		total := 0
		for i := range d.Parts {
			total += resolveDynamic(&d.Parts[i], view, flipper, in, ctx)
		}
		return total
	case cards.DynamicConditional:
		if conditions.Evaluate(d.Condition, in.Attacker, attachedView{view}, view.Repo()) {
			return d.TrueValue
		}
		return 0
	}
	return 0
}

// applyWeakness reports whether the weakness bonus applies: declared
// weakness match, not suppressed by a disable-weakness passive scoped to the
// defender.
func applyWeakness(reg *effects.Registry, in Input) bool {
	if in.DefenderTemplate.Weakness == "" || in.DefenderTemplate.Weakness != in.AttackerTemplate.Type {
		return false
	}
	for _, entry := range reg.ByType(cards.EffectDisableWeakness) {
		if entry.SourcePlayer != in.DefenderPlayer {
			continue
		}
		if entry.HostInstance != "" && entry.HostInstance != in.Defender.InstanceID {
			continue
		}
		return false
	}
	return true
}

// boostApplies runs the boost's defender-matching strategy. Strategies are a
// small lookup keyed by the boost's appliesTo tag, with an optional
// named-creature narrowing.
func boostApplies(entry *effects.PassiveEffect, defender *cards.Creature) bool {
	if entry.Effect.AppliesToName != "" && entry.Effect.AppliesToName != defender.Name {
		return false
	}
	matcher, ok := boostMatchers[entry.Effect.AppliesTo]
	if !ok {
		return false
	}
	return matcher(defender)
}

var boostMatchers = map[string]func(*cards.Creature) bool{
	"":    func(*cards.Creature) bool { return true },
	"any": func(*cards.Creature) bool { return true },
	"evolved": func(c *cards.Creature) bool {
		return c.Stage > 0
	},
	"ex": func(c *cards.Creature) bool {
		return c.HasAttribute(cards.AttributeEX)
	},
	"ultra-beast": func(c *cards.Creature) bool {
		return c.HasAttribute(cards.AttributeUltraBeast)
	},
}

type attachedView struct{ view effects.GameView }

func (a attachedView) Attached(instanceID string) map[cards.EnergyType]int {
	return a.view.Attached(instanceID)
}
