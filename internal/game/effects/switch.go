package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// switchHandler moves a creature out of the active slot, promoting the
// resolved switchWith bench creature. The swap only changes positions;
// damage and attached energy ride along on the instances.
type switchHandler struct{}

func (switchHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	reqs := []ResolutionRequirement{}
	if eff.Target != nil {
		reqs = append(reqs, ResolutionRequirement{Property: "target", Target: eff.Target, Required: true})
	}
	if eff.SwitchWith != nil {
		reqs = append(reqs, ResolutionRequirement{Property: "switchWith", Target: eff.SwitchWith, Required: true})
	}
	return reqs
}

func (switchHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	if eff.SwitchWith == nil {
		return false
	}
	return targetExists(eff.Target, view, ctx) && targetExists(eff.SwitchWith, view, ctx)
}

func (switchHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	targets := mustResolved(eff.Target, ctx.Name)
	with := mustResolved(eff.SwitchWith, ctx.Name)
	if len(targets) == 0 || len(with) == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: no creature to switch", ctx.Name))
		return nil
	}
	out, in := targets[0], with[0]
	if out.PlayerID != in.PlayerID {
		return fmt.Errorf("switch effect %s: targets span players", ctx.Name)
	}
	if in.FieldIndex == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: creature is already active", ctx.Name))
		return nil
	}
	promoted := creatureName(ctrl, in)
	if err := ctrl.SwitchActive(out.PlayerID, in.FieldIndex); err != nil {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s could not switch: %v", ctx.Name, err))
		return nil
	}
	ctrl.Broadcast(fmt.Sprintf("%s switched %s into the active spot", ctx.Name, promoted))
	return nil
}
