package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// hpHandler heals or damages resolved field targets. Healing is restricted
// to the source player's own creatures; a cross-player heal attempt is
// skipped per target with a status message, never a failure. Amounts are
// clamped at the field and only the actual quantity is reported.
type hpHandler struct{}

func (hpHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	if eff.Target == nil {
		return nil
	}
	return []ResolutionRequirement{{Property: "target", Target: eff.Target, Required: true}}
}

func (hpHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return targetExists(eff.Target, view, ctx)
}

func (hpHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	refs := mustResolved(eff.Target, ctx.Name)
	if len(refs) == 0 {
		ctrl.Broadcast(fmt.Sprintf("%s had no effect", ctx.Name))
		return nil
	}
	amount := EvaluateValue(eff.Amount, ctrl, ctx)

	for _, ref := range refs {
		name := creatureName(ctrl, ref)
		switch eff.Operation {
		case cards.OperationHeal:
			if ref.PlayerID != ctx.SourcePlayer {
				ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s cannot heal the opponent's %s", ctx.Name, name))
				continue
			}
			healed := ctrl.HealDamage(ref, amount)
			if healed > 0 {
				ctrl.Broadcast(fmt.Sprintf("%s healed %d damage from %s", ctx.Name, healed, name))
			}
		case cards.OperationDamage:
			applied := ctrl.ApplyDamage(ref, amount)
			ctrl.Broadcast(fmt.Sprintf("%s did %d damage to %s", ctx.Name, applied, name))
		default:
			return fmt.Errorf("hp effect %s: unknown operation %q", ctx.Name, eff.Operation)
		}
	}
	return nil
}

func creatureName(view GameView, ref cards.TargetRef) string {
	slots := view.FieldCards(ref.PlayerID)
	if ref.FieldIndex < 0 || ref.FieldIndex >= len(slots) || slots[ref.FieldIndex] == nil {
		return "creature"
	}
	tmpl, err := view.Repo().Creature(slots[ref.FieldIndex].TemplateID)
	if err != nil {
		return "creature"
	}
	return tmpl.Name
}
