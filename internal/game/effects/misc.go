package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
)

// coinFlipHandler arms the next-flip-guaranteed-heads flag. The flag is
// consumed by exactly one subsequent flip; a mocked-results queue still
// takes precedence over it.
type coinFlipHandler struct{}

func (coinFlipHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (coinFlipHandler) CanApply(GameView, *cards.Effect, *Context) bool { return true }

func (coinFlipHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	ctrl.Flipper().GuaranteeHeads()
	ctrl.Broadcast(fmt.Sprintf("%s: the next coin flip will be heads", ctx.Name))
	return nil
}

// endTurnHandler requests the turn loop to end the turn once the current
// effect queue drains.
type endTurnHandler struct{}

func (endTurnHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (endTurnHandler) CanApply(GameView, *cards.Effect, *Context) bool { return true }

func (endTurnHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	ctrl.RequestEndTurn()
	ctrl.Broadcast(fmt.Sprintf("%s ends the turn", ctx.Name))
	return nil
}
