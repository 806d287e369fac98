package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/pocketbattle/internal/cards"
	"github.com/deckforge/pocketbattle/internal/game/field"
)

// processKnockouts sweeps the field for knocked-out creatures until none
// remain. Knockouts award points and can cascade when a promoted creature is
// itself already at zero HP (hp-boost expiry, for example).
func (g *Game) processKnockouts() {
	for {
		removed := false
		for _, pid := range g.order {
			for idx, card := range g.field.Cards(pid) {
				if card == nil {
					continue
				}
				if !card.KnockedOut(g.effectiveMaxHP(card)) {
					continue
				}
				g.knockOut(pid, idx, card)
				removed = true
				break
			}
			if removed {
				break
			}
		}
		if !removed {
			break
		}
	}
	g.checkWin()
}

func (g *Game) knockOut(ownerID string, index int, card *field.Card) {
	tmpl, err := g.repo.Creature(card.TemplateID)
	if err != nil {
		panic(fmt.Sprintf("game: unknown template %q on field", card.TemplateID))
	}
	g.logger.Info("creature knocked out",
		zap.String("player", ownerID),
		zap.String("creature", tmpl.Name))

	g.registry.ClearForInstance(card.InstanceID)
	g.energy.DiscardAll(ownerID, card.InstanceID)

	p := g.player(ownerID)
	for _, prev := range card.EvolutionStack {
		p.discard = append(p.discard, prev.TemplateID)
	}
	if card.ToolID != "" {
		p.discard = append(p.discard, card.ToolID)
	}
	p.discard = append(p.discard, card.TemplateID)

	g.field.Remove(field.Ref{PlayerID: ownerID, Index: index})
	g.messenger.Broadcast(fmt.Sprintf("%s was knocked out", tmpl.Name))

	points := 1
	if tmpl.HasAttribute(cards.AttributeEX) {
		points = 2
	}
	opponent := g.Opponent(ownerID)
	g.player(opponent).points += points
	g.messenger.Broadcast(fmt.Sprintf("%s scored %d point(s)", opponent, points))

	if index == 0 {
		g.promoteReplacement(ownerID)
	}
}

// promoteReplacement moves the first benched creature into the empty active
// slot. With an empty bench the slot stays open and the win check decides
// the game.
func (g *Game) promoteReplacement(ownerID string) {
	bench := g.field.Bench(ownerID)
	for i, card := range bench {
		if card == nil {
			continue
		}
		if err := g.field.PromoteToBattle(ownerID, i+1); err != nil {
			g.logger.Error("promotion failed", zap.String("player", ownerID), zap.Error(err))
			return
		}
		tmpl, err := g.repo.Creature(card.TemplateID)
		if err != nil {
			panic(fmt.Sprintf("game: unknown template %q on field", card.TemplateID))
		}
		g.messenger.Broadcast(fmt.Sprintf("%s is now active", tmpl.Name))
		return
	}
}

func (g *Game) checkWin() {
	if g.over {
		return
	}
	for _, pid := range g.order {
		if g.player(pid).points >= g.pointsToWin {
			g.finish(pid, "reached the point goal")
			return
		}
	}
	for _, pid := range g.order {
		if len(g.fieldCreatures(pid)) == 0 {
			g.finish(g.Opponent(pid), "opponent has no creatures left")
			return
		}
	}
}

func (g *Game) finish(winnerID, reason string) {
	g.over = true
	g.winner = winnerID
	g.messenger.Broadcast(fmt.Sprintf("%s wins: %s", winnerID, reason))
	g.logger.Info("game over", zap.String("winner", winnerID), zap.String("reason", reason))
}

func (g *Game) fieldCreatures(playerID string) []*field.Card {
	var out []*field.Card
	for _, c := range g.field.Cards(playerID) {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
