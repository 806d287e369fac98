package targeting

import (
	"fmt"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/conditions"
)

// ResolveField turns an abstract field target into concrete positions for
// the player whose effect is executing. It never mutates game state; a
// choice target with more candidates than required picks suspends via
// KindRequiresSelection.
func ResolveField(t *cards.Target, view GameView, repo cards.Repository, sourcePlayer string) Result {
	if t == nil {
		return Result{Kind: KindNoValidTargets}
	}
	switch t.Type {
	case cards.TargetResolved:
		return Result{Kind: KindResolved, Refs: t.Refs}

	case cards.TargetFixed:
		return resolveFixed(t, view, sourcePlayer)

	case cards.TargetAllMatching:
		refs := candidates(t.Criteria, view, repo, sourcePlayer)
		return Result{Kind: KindResolved, Refs: refs}

	case cards.TargetSingleChoice, cards.TargetMultiChoice:
		refs := candidates(t.Criteria, view, repo, sourcePlayer)
		if len(refs) == 0 {
			return Result{Kind: KindNoValidTargets}
		}
		required := t.RequiredCount()
		// A forced outcome auto-resolves without prompting.
		if len(refs) <= required {
			return Result{Kind: KindResolved, Refs: refs}
		}
		return Result{
			Kind:       KindRequiresSelection,
			Candidates: refs,
			ChooserID:  scopedPlayer(t.Chooser, view, sourcePlayer),
			Count:      required,
		}
	}
	panic(fmt.Sprintf("targeting: unknown target type %q", t.Type))
}

func resolveFixed(t *cards.Target, view GameView, sourcePlayer string) Result {
	fixed := t.Fixed
	if fixed == nil {
		fixed = &cards.FixedTarget{Player: cards.ScopeSelf, Position: cards.PositionActive}
	}
	playerID := scopedPlayer(fixed.Player, view, sourcePlayer)
	slots := view.FieldCards(playerID)
	if fixed.Position == cards.PositionActive || fixed.Position == cards.PositionAny {
		if len(slots) == 0 || slots[0] == nil {
			return Result{Kind: KindNoValidTargets}
		}
		return Result{Kind: KindResolved, Refs: []cards.TargetRef{{PlayerID: playerID, FieldIndex: 0}}}
	}
	// Fixed bench targets resolve to every occupied bench slot.
	var refs []cards.TargetRef
	for i := 1; i < len(slots); i++ {
		if slots[i] != nil {
			refs = append(refs, cards.TargetRef{PlayerID: playerID, FieldIndex: i})
		}
	}
	if len(refs) == 0 {
		return Result{Kind: KindNoValidTargets}
	}
	return Result{Kind: KindResolved, Refs: refs}
}

// candidates computes the criteria-filtered candidate set used by both the
// all-matching and the choice strategies.
func candidates(criteria *cards.TargetCriteria, view GameView, repo cards.Repository, sourcePlayer string) []cards.TargetRef {
	var playerIDs []string
	if criteria != nil && criteria.Player != cards.ScopeAny {
		playerIDs = []string{scopedPlayer(criteria.Player, view, sourcePlayer)}
	} else {
		playerIDs = view.PlayerIDs()
	}

	var refs []cards.TargetRef
	for _, playerID := range playerIDs {
		slots := view.FieldCards(playerID)
		for i, card := range slots {
			if card == nil {
				continue
			}
			if criteria != nil {
				if criteria.Position == cards.PositionActive && i != 0 {
					continue
				}
				if criteria.Position == cards.PositionBench && i == 0 {
					continue
				}
				if !conditions.Evaluate(criteria.Condition, card, energyView{view}, repo) {
					continue
				}
			}
			refs = append(refs, cards.TargetRef{PlayerID: playerID, FieldIndex: i})
		}
	}
	return refs
}

// ResolveCards resolves a card-location target to indices into the scoped
// collection, taking the first limit matches in order (limit <= 0 means all).
func ResolveCards(criteria *cards.TargetCriteria, view GameView, repo cards.Repository, sourcePlayer string, limit int) CardResult {
	if criteria == nil {
		return CardResult{Kind: KindNoValidTargets}
	}
	ownerID := scopedPlayer(criteria.Player, view, sourcePlayer)

	var list []string
	switch criteria.Location {
	case cards.LocationHand:
		list = view.Hand(ownerID)
	case cards.LocationDeck:
		list = view.Deck(ownerID)
	case cards.LocationDiscard:
		list = view.DiscardPile(ownerID)
	default:
		return CardResult{Kind: KindNoValidTargets}
	}

	var indices []int
	for i, templateID := range list {
		if limit > 0 && len(indices) >= limit {
			break
		}
		if criteria.Condition != nil {
			tmpl, err := repo.Creature(templateID)
			if err != nil {
				continue
			}
			if !conditions.MatchTemplate(criteria.Condition, tmpl) {
				continue
			}
		}
		indices = append(indices, i)
	}
	if len(indices) == 0 {
		return CardResult{Kind: KindNoValidTargets}
	}
	return CardResult{Kind: KindResolved, OwnerID: ownerID, Indices: indices}
}

// ResolveEnergy resolves an energy-location target to the per-type amounts
// available after filtering to the allowed types (all types when empty).
func ResolveEnergy(source cards.EnergySourceKind, instanceID, ownerID string, types []cards.EnergyType, view GameView) EnergyResult {
	var pool map[cards.EnergyType]int
	switch source {
	case cards.EnergySourceDiscardPool:
		pool = view.DiscardedEnergy(ownerID)
	default:
		pool = view.Attached(instanceID)
	}

	amounts := make(map[cards.EnergyType]int)
	if len(types) == 0 {
		for t, n := range pool {
			if n > 0 {
				amounts[t] = n
			}
		}
	} else {
		for _, t := range types {
			if pool[t] > 0 {
				amounts[t] = pool[t]
			}
		}
	}
	if len(amounts) == 0 {
		return EnergyResult{Kind: KindNoValidTargets}
	}
	return EnergyResult{Kind: KindResolved, Amounts: amounts}
}

// ValidateSelection checks an inbound selection against the candidate set it
// was prompted from. Invalid selections are rejected so the same selection
// stays pending (re-prompt semantics).
func ValidateSelection(picks, candidateSet []cards.TargetRef, required int) error {
	if len(picks) != required {
		return fmt.Errorf("expected %d selections, got %d", required, len(picks))
	}
	seen := make(map[cards.TargetRef]bool, len(picks))
	for _, pick := range picks {
		if seen[pick] {
			return fmt.Errorf("duplicate selection %v", pick)
		}
		seen[pick] = true
		valid := false
		for _, candidate := range candidateSet {
			if candidate == pick {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("selection %v is not a candidate", pick)
		}
	}
	return nil
}

func scopedPlayer(scope cards.PlayerScope, view GameView, sourcePlayer string) string {
	if scope == cards.ScopeOpponent {
		return view.Opponent(sourcePlayer)
	}
	return sourcePlayer
}

type energyView struct{ view GameView }

func (e energyView) Attached(instanceID string) map[cards.EnergyType]int {
	return e.view.Attached(instanceID)
}
