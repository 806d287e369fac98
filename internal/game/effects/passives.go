package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// registerHandler serves every effect kind whose behaviour is enforced
// elsewhere: it only records a registry entry. The consulting component
// (damage resolver, attack/play/retreat eligibility) reads the entry at
// decision time, which can be a different turn than registration.
type registerHandler struct{}

func (registerHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	if eff.Target == nil {
		return nil
	}
	return []ResolutionRequirement{{Property: "target", Target: eff.Target, Required: true}}
}

func (registerHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	if eff.Target == nil {
		return true
	}
	return targetExists(eff.Target, view, ctx)
}

func (registerHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	host := ""
	if eff.Target != nil {
		refs := mustResolved(eff.Target, ctx.Name)
		if len(refs) == 0 {
			ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s had no valid target", ctx.Name))
			return nil
		}
		// While-in-play effects are hosted by the creature they apply to so
		// they die with it.
		slots := ctrl.FieldCards(refs[0].PlayerID)
		if refs[0].FieldIndex < len(slots) && slots[refs[0].FieldIndex] != nil {
			host = slots[refs[0].FieldIndex].InstanceID
		}
	} else if eff.Duration == cards.DurationWhileInPlay && ctx.Source != nil {
		host = ctx.Source.InstanceID
	}

	ctrl.Registry().Register(ctx.SourcePlayer, host, ctx.Name, *eff, eff.Duration, ctrl.Turn())
	ctrl.Broadcast(fmt.Sprintf("%s is now in effect", ctx.Name))
	return nil
}
