package effects

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/targeting"
)

// invocation phases. An invocation moves pending → resolving → ready →
// applied, detouring through awaiting-selection whenever a resolver needs a
// player choice.
type phase int

const (
	phasePending phase = iota
	phaseResolving
	phaseAwaitingSelection
	phaseReady
	phaseApplied
	phaseAborted
)

// invocation is one effect working its way through resolution. The effect is
// a per-invocation copy: its target properties are the only place effect
// data mutates, and only within this pass.
type invocation struct {
	effect  cards.Effect
	ctx     *Context
	handler Handler
	reqs    []ResolutionRequirement
	next    int
	state   phase
}

// PendingSelection is the suspension record surfaced to the transport while
// an invocation waits for a player choice. The same selection stays pending
// until a satisfying response arrives.
type PendingSelection struct {
	ChooserID  string
	EffectName string
	Property   string
	Candidates []cards.TargetRef
	Count      int
}

// Applier drives queued effects through requirement gathering, target
// resolution, the CanApply gate and Apply. Effects apply in declaration
// order; the queue never advances past an invocation awaiting selection.
type Applier struct {
	logger  *zap.Logger
	ctrl    Controllers
	queue   []*invocation
	pending *PendingSelection
}

// NewApplier creates an applier bound to one game's controllers.
func NewApplier(ctrl Controllers, logger *zap.Logger) *Applier {
	return &Applier{logger: logger, ctrl: ctrl}
}

// Pending returns the current suspension record, if any.
func (a *Applier) Pending() *PendingSelection {
	return a.pending
}

// ApplyEffects enqueues an effect list for one context and drives the queue.
// It returns a pending selection when a choice is needed, nil on completion.
func (a *Applier) ApplyEffects(effs []cards.Effect, ctx *Context) (*PendingSelection, error) {
	if a.pending != nil {
		return nil, fmt.Errorf("effect applier: selection already pending for %s", a.pending.EffectName)
	}
	// Resolve every handler before enqueueing anything: an unknown effect
	// type rejects the whole list, never leaving a partial batch queued.
	batch := make([]*invocation, 0, len(effs))
	for _, eff := range effs {
		handler, ok := HandlerFor(eff.Type)
		if !ok {
			return nil, fmt.Errorf("effect applier: no handler for effect type %q", eff.Type)
		}
		batch = append(batch, &invocation{
			effect:  eff,
			ctx:     ctx,
			handler: handler,
			state:   phasePending,
		})
	}
	a.queue = append(a.queue, batch...)
	return a.run()
}

// SubmitSelection resumes the pending invocation with the chooser's picks.
// An invalid selection is rejected and the same selection remains pending.
func (a *Applier) SubmitSelection(playerID string, picks []cards.TargetRef) (*PendingSelection, error) {
	if a.pending == nil {
		return nil, fmt.Errorf("effect applier: no selection pending")
	}
	if playerID != a.pending.ChooserID {
		return a.pending, fmt.Errorf("effect applier: selection expected from %s", a.pending.ChooserID)
	}
	if err := targeting.ValidateSelection(picks, a.pending.Candidates, a.pending.Count); err != nil {
		return a.pending, err
	}

	inv := a.queue[0]
	if inv.state != phaseAwaitingSelection {
		panic("effect applier: selection submitted with no awaiting invocation")
	}
	setTargetProperty(&inv.effect, a.pending.Property, cards.Resolved(picks))
	inv.next++
	inv.state = phaseResolving
	a.pending = nil
	return a.run()
}

func (a *Applier) run() (*PendingSelection, error) {
	for len(a.queue) > 0 {
		inv := a.queue[0]
		done, err := a.step(inv)
		if err != nil {
			// A handler error aborts only this invocation; siblings continue.
			a.logger.Error("effect failed",
				zap.String("effect", inv.ctx.Name),
				zap.String("type", string(inv.effect.Type)),
				zap.Error(err),
			)
			a.ctrl.ToPlayer(inv.ctx.SourcePlayer, fmt.Sprintf("%s could not be applied", inv.ctx.Name))
			inv.state = phaseAborted
			a.queue = a.queue[1:]
			continue
		}
		if !done {
			return a.pending, nil
		}
		a.queue = a.queue[1:]
	}
	return nil, nil
}

// step advances one invocation as far as possible. It returns done=false
// when the invocation suspended awaiting a selection.
func (a *Applier) step(inv *invocation) (bool, error) {
	if inv.state == phasePending {
		inv.reqs = inv.handler.Requirements(&inv.effect)
		inv.state = phaseResolving
	}

	for inv.next < len(inv.reqs) {
		req := inv.reqs[inv.next]
		current := targetProperty(&inv.effect, req.Property)
		if current.IsResolved() {
			inv.next++
			continue
		}
		result := targeting.ResolveField(current, a.ctrl, a.ctrl.Repo(), inv.ctx.SourcePlayer)
		switch result.Kind {
		case targeting.KindResolved:
			setTargetProperty(&inv.effect, req.Property, cards.Resolved(result.Refs))
			inv.next++

		case targeting.KindNoValidTargets:
			if req.Required {
				a.ctrl.ToPlayer(inv.ctx.SourcePlayer, fmt.Sprintf("%s has no valid targets", inv.ctx.Name))
				inv.state = phaseAborted
				return true, nil
			}
			setTargetProperty(&inv.effect, req.Property, cards.Resolved(nil))
			inv.next++

		case targeting.KindRequiresSelection:
			inv.state = phaseAwaitingSelection
			a.pending = &PendingSelection{
				ChooserID:  result.ChooserID,
				EffectName: inv.ctx.Name,
				Property:   req.Property,
				Candidates: result.Candidates,
				Count:      result.Count,
			}
			a.ctrl.ToPlayer(result.ChooserID, fmt.Sprintf("choose %d target(s) for %s", result.Count, inv.ctx.Name))
			return false, nil
		}
	}

	inv.state = phaseReady
	if !inv.handler.CanApply(a.ctrl, &inv.effect, inv.ctx) {
		a.ctrl.ToPlayer(inv.ctx.SourcePlayer, fmt.Sprintf("%s cannot be applied", inv.ctx.Name))
		inv.state = phaseAborted
		return true, nil
	}
	if err := inv.handler.Apply(a.ctrl, &inv.effect, inv.ctx); err != nil {
		return true, err
	}
	inv.state = phaseApplied
	return true, nil
}

func targetProperty(eff *cards.Effect, property string) *cards.Target {
	switch property {
	case "target":
		return eff.Target
	case "switchWith":
		return eff.SwitchWith
	}
	panic(fmt.Sprintf("effect applier: unknown target property %q", property))
}

func setTargetProperty(eff *cards.Effect, property string, t *cards.Target) {
	switch property {
	case "target":
		eff.Target = t
	case "switchWith":
		eff.SwitchWith = t
	default:
		panic(fmt.Sprintf("effect applier: unknown target property %q", property))
	}
}
