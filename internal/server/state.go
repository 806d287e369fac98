package server

import (
	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game"
)

// CreatureView is one on-field creature as sent to clients.
type CreatureView struct {
	InstanceID  string                   `json:"instance_id"`
	TemplateID  string                   `json:"template_id"`
	Name        string                   `json:"name"`
	HP          int                      `json:"hp"`
	DamageTaken int                      `json:"damage_taken"`
	Status      string                   `json:"status,omitempty"`
	Poisoned    bool                     `json:"poisoned,omitempty"`
	ToolID      string                   `json:"tool_id,omitempty"`
	Energy      map[cards.EnergyType]int `json:"energy,omitempty"`
}

// PlayerView is one side of the board. Hand contents are only included for
// the viewing player; opponents see counts.
type PlayerView struct {
	ID          string         `json:"id"`
	Points      int            `json:"points"`
	Active      *CreatureView  `json:"active"`
	Bench       []CreatureView `json:"bench"`
	Hand        []string       `json:"hand,omitempty"`
	HandCount   int            `json:"hand_count"`
	DeckCount   int            `json:"deck_count"`
	DiscardPile []string       `json:"discard_pile"`
}

// SelectionView prompts the chooser for a pending target selection.
type SelectionView struct {
	EffectName string            `json:"effect_name"`
	Candidates []cards.TargetRef `json:"candidates"`
	Count      int               `json:"count"`
}

// StateView is the full board snapshot from one player's perspective.
type StateView struct {
	MatchID       string         `json:"match_id"`
	Turn          int            `json:"turn"`
	CurrentPlayer string         `json:"current_player"`
	You           PlayerView     `json:"you"`
	Opponent      PlayerView     `json:"opponent"`
	Pending       *SelectionView `json:"pending_selection,omitempty"`
	Over          bool           `json:"over"`
	Winner        string         `json:"winner,omitempty"`
}

// buildState renders the game from viewerID's perspective.
func buildState(g *game.Game, viewerID string) StateView {
	opponentID := g.Opponent(viewerID)
	view := StateView{
		MatchID:       g.ID,
		Turn:          g.Turn(),
		CurrentPlayer: g.CurrentPlayer(),
		You:           buildPlayerView(g, viewerID, true),
		Opponent:      buildPlayerView(g, opponentID, false),
		Over:          g.Over(),
		Winner:        g.Winner(),
	}
	if pending := g.PendingSelection(); pending != nil && pending.ChooserID == viewerID {
		view.Pending = &SelectionView{
			EffectName: pending.EffectName,
			Candidates: pending.Candidates,
			Count:      pending.Count,
		}
	}
	return view
}

func buildPlayerView(g *game.Game, playerID string, owner bool) PlayerView {
	pv := PlayerView{
		ID:          playerID,
		Points:      g.Points(playerID),
		HandCount:   len(g.Hand(playerID)),
		DeckCount:   len(g.Deck(playerID)),
		DiscardPile: g.DiscardPile(playerID),
	}
	if owner {
		pv.Hand = g.Hand(playerID)
	}
	for i, card := range g.Field().Cards(playerID) {
		if card == nil {
			continue
		}
		cv := CreatureView{
			InstanceID:  card.InstanceID,
			TemplateID:  card.TemplateID,
			DamageTaken: card.DamageTaken,
			Status:      string(card.Status),
			Poisoned:    card.Poisoned,
			ToolID:      card.ToolID,
			Energy:      g.Energy().Attached(card.InstanceID),
		}
		if tmpl, err := g.Repo().Creature(card.TemplateID); err == nil {
			cv.Name = tmpl.Name
			cv.HP = tmpl.HP
		}
		if i == 0 {
			pv.Active = &cv
		} else {
			pv.Bench = append(pv.Bench, cv)
		}
	}
	return pv
}
