package tips

import "context"

// ShowAnalysis reveals the results container with a loading card, fetches the
// tips for the game and renders them. An empty id hides the container.
func (c *Controller) ShowAnalysis(ctx context.Context, gameID string) {
	if gameID == "" {
		c.update(func() bool {
			c.analysisGen++
			c.surface.Results.hide()
			return true
		})
		return
	}

	var gen uint64
	c.update(func() bool {
		c.analysisGen++
		gen = c.analysisGen
		c.surface.Results.show("", Card{Kind: CardLoading, Message: AnalyzingMessage})
		return true
	})

	tips, err := c.service.AnalyzeGame(ctx, gameID)

	c.update(func() bool {
		if gen != c.analysisGen {
			c.logger.Info("Discarding stale analysis", "gameID", gameID)
			return false
		}

		if err != nil {
			c.logger.Error("Failed to analyze game", "gameID", gameID, "error", err)
			c.surface.Results.show("", Card{Kind: CardError, Message: err.Error()})
			return true
		}

		c.surface.Results.show(c.headerLocked(gameID), RenderTips(tips)...)
		return true
	})
}

// RenderTips turns an analysis into cards: a single neutral card when the
// list is empty of confidence, otherwise one tip card per tip.
func RenderTips(tips TipList) []Card {
	if tips.EmptyOfConfidence() {
		return []Card{{Kind: CardNeutral, Message: InsufficientData}}
	}

	cards := make([]Card, 0, len(tips))
	for _, t := range tips {
		cards = append(cards, Card{
			Kind:          CardTip,
			Market:        t.Market,
			Suggestion:    t.Suggestion,
			Justification: t.Justification,
			Confidence:    t.Confidence,
		})
	}
	return cards
}

// headerLocked names the fixture by game id, preferring the selected league.
// Callers hold c.mu.
func (c *Controller) headerLocked(gameID string) string {
	if f, ok := c.catalog.Fixture(c.surface.League.Selected, gameID); ok {
		return f.Label()
	}
	if _, f, ok := c.catalog.Locate(gameID); ok {
		return f.Label()
	}
	return "Game " + gameID
}
