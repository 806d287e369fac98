package effects

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/targeting"
)

// searchHandler filters the deck by criteria, moves the first matching cards
// (up to the requested count) to hand and always reshuffles afterwards, so
// the card-order information the search exposed is erased.
type searchHandler struct{}

func (searchHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (searchHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return len(view.Deck(ctx.SourcePlayer)) > 0
}

func (searchHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	count := eff.Count
	if count <= 0 {
		count = 1
	}
	criteria := eff.Criteria
	if criteria == nil {
		criteria = &cards.TargetCriteria{Player: cards.ScopeSelf, Location: cards.LocationDeck}
	}
	result := targeting.ResolveCards(criteria, ctrl, ctrl.Repo(), ctx.SourcePlayer, count)
	if result.Kind == targeting.KindResolved {
		moved := ctrl.MoveDeckToHand(result.OwnerID, result.Indices)
		ctrl.Broadcast(fmt.Sprintf("%s put %d card(s) into the hand", ctx.Name, len(moved)))
	} else {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s found no matching cards", ctx.Name))
	}
	ctrl.ShuffleDeck(ctx.SourcePlayer)
	return nil
}

// shuffleHandler reshuffles the scoped player's deck.
type shuffleHandler struct{}

func (shuffleHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (shuffleHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return len(view.Deck(scopedOwner(eff, view, ctx))) > 0
}

func (shuffleHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	owner := scopedOwner(eff, ctrl, ctx)
	ctrl.ShuffleDeck(owner)
	ctrl.Broadcast(fmt.Sprintf("%s shuffled the deck", ctx.Name))
	return nil
}

// swapCardsHandler returns the scoped player's hand to the deck, shuffles,
// and draws. The draw is capped by deck size.
type swapCardsHandler struct{}

func (swapCardsHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (swapCardsHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	owner := scopedOwner(eff, view, ctx)
	return len(view.Hand(owner)) > 0 || len(view.Deck(owner)) > 0
}

func (swapCardsHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	owner := scopedOwner(eff, ctrl, ctx)
	returned := ctrl.ReturnHandToDeck(owner)
	ctrl.ShuffleDeck(owner)
	count := eff.Count
	if count <= 0 {
		count = returned
	}
	drawn := ctrl.DrawCards(owner, count)
	ctrl.Broadcast(fmt.Sprintf("%s shuffled %d card(s) away and drew %d", ctx.Name, returned, len(drawn)))
	return nil
}

// handDiscardHandler discards from the scoped player's hand, capped at what
// the hand actually holds.
type handDiscardHandler struct{}

func (handDiscardHandler) Requirements(*cards.Effect) []ResolutionRequirement { return nil }

func (handDiscardHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return len(view.Hand(scopedOwner(eff, view, ctx))) > 0
}

func (handDiscardHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	owner := scopedOwner(eff, ctrl, ctx)
	count := eff.Count
	if count <= 0 {
		count = 1
	}
	discarded := ctrl.DiscardFromHand(owner, count)
	if len(discarded) == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: hand is empty", ctx.Name))
		return nil
	}
	ctrl.Broadcast(fmt.Sprintf("%s discarded %d card(s) from the hand", ctx.Name, len(discarded)))
	return nil
}

// pullEvolutionHandler searches the deck for a direct evolution of the
// resolved target and evolves it immediately, then reshuffles.
type pullEvolutionHandler struct{}

func (pullEvolutionHandler) Requirements(eff *cards.Effect) []ResolutionRequirement {
	if eff.Target == nil {
		return nil
	}
	return []ResolutionRequirement{{Property: "target", Target: eff.Target, Required: true}}
}

func (pullEvolutionHandler) CanApply(view GameView, eff *cards.Effect, ctx *Context) bool {
	return len(view.Deck(ctx.SourcePlayer)) > 0 && targetExists(eff.Target, view, ctx)
}

func (pullEvolutionHandler) Apply(ctrl Controllers, eff *cards.Effect, ctx *Context) error {
	refs := mustResolved(eff.Target, ctx.Name)
	if len(refs) == 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: nothing to evolve", ctx.Name))
		return nil
	}
	ref := refs[0]
	slots := ctrl.FieldCards(ref.PlayerID)
	if ref.FieldIndex >= len(slots) || slots[ref.FieldIndex] == nil {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s: nothing to evolve", ctx.Name))
		return nil
	}
	base, err := ctrl.Repo().Creature(slots[ref.FieldIndex].TemplateID)
	if err != nil {
		return fmt.Errorf("pull-evolution %s: %w", ctx.Name, err)
	}

	deck := ctrl.Deck(ctx.SourcePlayer)
	evoIndex := -1
	var evoID string
	for i, templateID := range deck {
		tmpl, err := ctrl.Repo().Creature(templateID)
		if err != nil {
			continue
		}
		if tmpl.EvolvesFrom == base.Name {
			evoIndex, evoID = i, tmpl.ID
			break
		}
	}
	if evoIndex < 0 {
		ctrl.ToPlayer(ctx.SourcePlayer, fmt.Sprintf("%s found no evolution of %s", ctx.Name, base.Name))
		ctrl.ShuffleDeck(ctx.SourcePlayer)
		return nil
	}
	ctrl.RemoveDeckCards(ctx.SourcePlayer, []int{evoIndex})
	if err := ctrl.EvolveInto(ref, evoID); err != nil {
		return fmt.Errorf("pull-evolution %s: %w", ctx.Name, err)
	}
	ctrl.ShuffleDeck(ctx.SourcePlayer)
	ctrl.Broadcast(fmt.Sprintf("%s evolved %s from the deck", ctx.Name, base.Name))
	return nil
}
