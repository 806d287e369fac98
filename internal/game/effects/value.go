package effects

import "github.com/deckforge/pocketbattle/internal/cards"

// EvaluateValue resolves an EffectValue against current game state. Values
// are evaluated lazily at the moment an effect applies and never cached, so
// context-sourced quantities reflect resolution-time state.
func EvaluateValue(v *cards.EffectValue, view GameView, ctx *Context) int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case cards.ValueConstant:
		return v.Amount
	case cards.ValueContext:
		return evaluateSource(v.Source, view, ctx)
	}
	return 0
}

func evaluateSource(source cards.ValueSource, view GameView, ctx *Context) int {
	opponent := view.Opponent(ctx.SourcePlayer)
	switch source {
	case cards.SourceOpponentHandSize:
		return len(view.Hand(opponent))
	case cards.SourceSelfHandSize:
		return len(view.Hand(ctx.SourcePlayer))
	case cards.SourceSelfBenchCount:
		return benchCount(view, ctx.SourcePlayer)
	case cards.SourceOpponentBenchCount:
		return benchCount(view, opponent)
	case cards.SourceAttachedEnergy:
		if ctx.Source == nil {
			return 0
		}
		total := 0
		for _, n := range view.Attached(ctx.Source.InstanceID) {
			total += n
		}
		return total
	case cards.SourceDamageTaken:
		if ctx.Source == nil {
			return 0
		}
		return ctx.Source.DamageTaken
	}
	return 0
}

func benchCount(view GameView, playerID string) int {
	count := 0
	for i, card := range view.FieldCards(playerID) {
		if i > 0 && card != nil {
			count++
		}
	}
	return count
}
