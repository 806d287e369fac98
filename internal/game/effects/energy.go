package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/targeting"
)

// energyHandler attaches or discards energy. Attach requires a target, an
// energy type and an amount; attach from the discard pool recovers energy
// from the ledger. Discard supports a resolved field target or the richer
// energy-source form, walks allowed types in order and tolerates shortfall.
type energyHandler struct{}

func (energyHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	if eff.Target == nil {
		return nil
	}
	return []ResolutionRequirement{{Property: "target", Target: eff.Target, Required: true}}
}

func (energyHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	switch eff.Operation {
	case cards.OperationAttach:
		if eff.EnergyType == "" || EvaluateValue(eff.Amount, view, ctx) <= 0 {
			return false
		}
		if eff.EnergySource == cards.EnergySourceDiscardPool {
			if view.DiscardedEnergy(ctx.SourcePlayer)[eff.EnergyType] == 0 {
				return false
			}
		}
		return targetExists(eff.Target, view, ctx)
	case cards.OperationDiscard:
		if eff.EnergySource == cards.EnergySourceDiscardPool {
			owner := scopedOwner(eff, view, ctx)
			result := targeting.ResolveEnergy(cards.EnergySourceDiscardPool, "", owner, eff.EnergyTypes, view)
			return result.Kind == targeting.KindResolved
		}
		return targetExists(eff.Target, view, ctx)
	}
	return false
}

func (energyHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	switch eff.Operation {
	case cards.OperationAttach:
		return applyAttach(ctrl, eff, ctx)
	case cards.OperationDiscard:
		return applyDiscard(ctrl, eff, ctx)
	}
	return fmt.Errorf("energy effect %s: unknown operation %q", ctx.Name, eff.Operation)
}

func applyAttach(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	refs := mustResolved(eff.Target, ctx.Name)
	if len(refs) == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s found nothing to attach to", ctx.Name))
		return nil
	}
	amount := EvaluateValue(eff.Amount, ctrl, ctx)
	for _, ref := range refs {
		attached := amount
		if eff.EnergySource == cards.EnergySourceDiscardPool {
			attached = ctrl.RecoverEnergy(ref, eff.EnergyType, amount)
			if attached == 0 {
				ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: no %s energy in the discard pile", ctx.Name, eff.EnergyType))
				continue
			}
		} else {
			ctrl.AttachEnergy(ref, eff.EnergyType, amount)
		}
		ctrl.Broadcast(fmt.Sprintf("%s attached %d %s energy to %s", ctx.Name, attached, eff.EnergyType, creatureName(ctrl, ref)))
	}
	return nil
}

func applyDiscard(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	count := eff.Count
	if count <= 0 {
		count = EvaluateValue(eff.Amount, ctrl, ctx)
	}
	if count <= 0 {
		count = 1
	}

	if eff.EnergySource == cards.EnergySourceDiscardPool {
		owner := scopedOwner(eff, ctrl, ctx)
		removed := ctrl.RemoveFromDiscardPool(owner, eff.EnergyTypes, count)
		ctrl.Broadcast(fmt.Sprintf("%s removed %d energy from the discard pile", ctx.Name, total(removed)))
		return nil
	}

	refs := mustResolved(eff.Target, ctx.Name)
	if len(refs) == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s found no energy to discard", ctx.Name))
		return nil
	}
	types := eff.EnergyTypes
	if len(types) == 0 && eff.EnergyType != "" {
		types = []cards.EnergyType{eff.EnergyType}
	}
	for _, ref := range refs {
		moved := ctrl.DiscardEnergy(ref, types, count)
		n := total(moved)
		if n == 0 {
			ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: %s has no matching energy", ctx.Name, creatureName(ctrl, ref)))
			continue
		}
		ctrl.Broadcast(fmt.Sprintf("%s discarded %d energy from %s", ctx.Name, n, creatureName(ctrl, ref)))
	}
	return nil
}

func scopedOwner(eff *cards.Effect, view GameView, ctx *Context) string {
	if eff.Criteria != nil && eff.Criteria.Player == cards.ScopeOpponent {
		return view.Opponent(ctx.SourcePlayer)
	}
	return ctx.SourcePlayer
}

func total(amounts map[cards.EnergyType]int) int {
	n := 0
	for _, v := range amounts {
		n += v
	}
	return n
}
