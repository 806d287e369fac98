package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// statusHandler inflicts a special condition on resolved field targets.
// A status-prevention passive protecting the target makes the infliction a
// soft no-op for that target.
type statusHandler struct{}

func (statusHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	if eff.Target == nil {
		return nil
	}
	return []ResolutionRequirement{{Property: "target", Target: eff.Target, Required: true}}
}

func (statusHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return targetExists(eff.Target, view, ctx)
}

func (statusHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	switch eff.Status {
	case "asleep", "paralyzed", "poisoned":
	default:
		return fmt.Errorf("status effect %s: unknown status %q", ctx.Name, eff.Status)
	}
	refs := mustResolved(eff.Target, ctx.Name)
	if len(refs) == 0 {
		ctrl.Broadcast(fmt.Sprintf("%s had no effect", ctx.Name))
		return nil
	}
	for _, ref := range refs {
		name := creatureName(ctrl, ref)
		if !ctrl.InflictStatus(ref, eff.Status) {
			ctrl.Broadcast(fmt.Sprintf("%s is protected from special conditions", name))
			continue
		}
		ctrl.Broadcast(fmt.Sprintf("%s is now %s", name, eff.Status))
	}
	return nil
}
