package tips

import (
	"context"
	"errors"
)

// LoadCatalog fetches the day's fixtures for a sport and fills the league
// selector. On failure the selector shows the error and stays disabled, and
// the cached catalog is left as it was. An empty sport is a no-op.
func (c *Controller) LoadCatalog(ctx context.Context, sport string) {
	if sport == "" {
		return
	}

	var gen uint64
	c.update(func() bool {
		c.catalogGen++
		gen = c.catalogGen
		c.surface.League.reset(true, Option{Label: LoadingLeagues, Disabled: true})
		return true
	})

	catalog, err := c.service.GamesOfTheDay(ctx, sport)

	c.update(func() bool {
		if gen != c.catalogGen {
			c.logger.Info("Discarding stale catalog", "sport", sport)
			return false
		}

		if err != nil {
			c.logger.Error("Failed to load catalog", "sport", sport, "error", err)
			c.surface.League.reset(true, Option{Label: leagueErrorLabel(err), Disabled: true})
			return true
		}

		c.catalog = catalog
		options := []Option{{Label: LeaguePlaceholder}}
		for _, name := range catalog.Presentable() {
			options = append(options, Option{Value: name, Label: name})
		}
		c.surface.League.reset(false, options...)
		return true
	})
}

// leagueErrorLabel is the text of the single option shown when a load fails,
// e.g. "Erro: quota exceeded"
func leagueErrorLabel(err error) string {
	var rejection *ListingRejection
	if errors.As(err, &rejection) {
		return rejection.Error()
	}
	return transportErrorKind + ": " + err.Error()
}
