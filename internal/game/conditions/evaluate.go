package conditions

import (
	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// EnergyView is the read-only energy access the evaluator needs.
type EnergyView interface {
	Attached(instanceID string) map[cards.EnergyType]int
}

// Evaluate checks a condition against a creature instance. A nil condition
// always holds; all fields present on the condition must hold (logical AND).
// A repository miss for the creature's template means the condition is not
// met, never an error.
func Evaluate(cond *cards.Condition, creature *field.Card, energies EnergyView, repo cards.Repository) bool {
	if cond == nil {
		return true
	}
	if creature == nil {
		return false
	}

	if len(cond.HasEnergy) > 0 {
		attached := energies.Attached(creature.InstanceID)
		for t, want := range cond.HasEnergy {
			if attached[t] < want {
				return false
			}
		}
	}

	if cond.HasDamage != nil {
		if *cond.HasDamage != (creature.DamageTaken > 0) {
			return false
		}
	}

	if cond.Stage != nil || len(cond.Attributes) > 0 || cond.PreviousStageName != "" || cond.IsType != "" {
		tmpl, err := repo.Creature(creature.TemplateID)
		if err != nil {
			return false
		}
		if !matchTemplateFields(cond, tmpl) {
			return false
		}
	}

	return true
}

// MatchTemplate checks the template-level fields of a condition against a
// creature template (deck/hand search criteria). Instance-state fields
// (hasEnergy, hasDamage) cannot hold for a card outside play.
func MatchTemplate(cond *cards.Condition, tmpl *cards.Creature) bool {
	if cond == nil {
		return true
	}
	if tmpl == nil {
		return false
	}
	if len(cond.HasEnergy) > 0 || cond.HasDamage != nil {
		return false
	}
	return matchTemplateFields(cond, tmpl)
}

func matchTemplateFields(cond *cards.Condition, tmpl *cards.Creature) bool {
	if cond.Stage != nil && tmpl.Stage != *cond.Stage {
		return false
	}
	for _, attr := range cond.Attributes {
		if !tmpl.HasAttribute(attr) {
			return false
		}
	}
	if cond.PreviousStageName != "" && tmpl.EvolvesFrom != cond.PreviousStageName {
		return false
	}
	if cond.IsType != "" && tmpl.Type != cond.IsType {
		return false
	}
	return true
}
