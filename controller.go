package tips

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// State is the stage the selection chain has reached
type State int

const (
	NoSport State = iota
	SportChosen
	LeagueChosen
	GameChosen
)

func (s State) String() string {
	switch s {
	case SportChosen:
		return "SportChosen"
	case LeagueChosen:
		return "LeagueChosen"
	case GameChosen:
		return "GameChosen"
	}
	return "NoSport"
}

// Controller coordinates the sport, league and game selectors and owns the
// cached catalog. It is safe for concurrent use; the lock is never held while
// a request is in flight. Each fetch is tagged with a per-stage generation and
// its result is dropped if the user has moved on in the meantime.
type Controller struct {
	service  TipService
	logger   *slog.Logger
	observer func(Surface)
	sports   []Sport

	mu          sync.Mutex
	surface     Surface
	catalog     Catalog
	catalogGen  uint64
	analysisGen uint64
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithObserver registers a callback receiving a snapshot after every surface change
func WithObserver(fn func(Surface)) ControllerOption {
	return func(c *Controller) { c.observer = fn }
}

func WithSports(sports []Sport) ControllerOption {
	return func(c *Controller) { c.sports = sports }
}

func NewController(service TipService, opts ...ControllerOption) *Controller {
	c := &Controller{
		service: service,
		logger:  slog.Default(),
		sports:  DefaultSports,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.surface = newSurface(c.sports)
	return c
}

// SelectSport resets everything downstream of the sport selector and loads
// the new sport's catalog. An empty sport clears all stages.
func (c *Controller) SelectSport(ctx context.Context, sport string) {
	c.update(func() bool {
		c.surface.Sport.Selected = sport
		c.surface.League.reset(true, Option{Label: LeaguePlaceholder})
		c.surface.Game.reset(true, Option{Label: GamePlaceholder})
		c.analysisGen++
		c.surface.Results.hide()
		if sport == "" {
			// nothing in flight may repopulate the cleared selectors
			c.catalogGen++
		}
		return true
	})

	c.LoadCatalog(ctx, sport)
}

// SelectLeague fills the game selector from the cached catalog. Unknown or
// empty leagues leave the game selector disabled.
func (c *Controller) SelectLeague(league string) {
	c.update(func() bool {
		c.surface.Game.reset(true, Option{Label: GamePlaceholder})
		c.analysisGen++
		c.surface.Results.hide()

		if league == "" {
			c.surface.League.Selected = ""
			return true
		}
		if c.surface.League.Disabled || !slices.Contains(c.surface.League.Values(), league) {
			c.logger.Warn("League not offered by the league selector", "league", league)
			c.surface.League.Selected = ""
			return true
		}
		c.surface.League.Selected = league

		fixtures, ok := c.catalog.Fixtures(league)
		if !ok || len(fixtures) == 0 {
			return true
		}
		for _, f := range fixtures {
			c.surface.Game.Options = append(c.surface.Game.Options, Option{Value: string(f.GameID), Label: f.Label()})
		}
		c.surface.Game.Disabled = false
		return true
	})
}

// SelectGame shows the analysis of a game offered by the game selector, or
// hides the results for the placeholder.
func (c *Controller) SelectGame(ctx context.Context, gameID string) {
	valid := true
	c.update(func() bool {
		if gameID != "" && (c.surface.Game.Disabled || !slices.Contains(c.surface.Game.Values(), gameID)) {
			c.logger.Warn("Game not offered by the game selector", "gameID", gameID)
			valid = false
		}
		if valid {
			c.surface.Game.Selected = gameID
		} else {
			c.surface.Game.Selected = ""
		}
		return true
	})

	if !valid {
		gameID = ""
	}
	c.ShowAnalysis(ctx, gameID)
}

// State derives the stage of the selection chain from the selected values
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.surface.Sport.Selected == "":
		return NoSport
	case c.surface.League.Selected == "":
		return SportChosen
	case c.surface.Game.Selected == "":
		return LeagueChosen
	}
	return GameChosen
}

// Snapshot returns a copy of the current surface
func (c *Controller) Snapshot() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface.clone()
}

// Catalog returns the cached catalog of the most recent successful load
func (c *Controller) Catalog() Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Catalog{Leagues: slices.Clone(c.catalog.Leagues)}
}

// Sports is the list offered by the sport selector
func (c *Controller) Sports() []Sport {
	return slices.Clone(c.sports)
}

// update applies fn under the lock and notifies the observer if fn reports a change
func (c *Controller) update(fn func() bool) {
	c.mu.Lock()
	changed := fn()
	if changed {
		c.surface.Revision++
	}
	var snapshot Surface
	if changed && c.observer != nil {
		snapshot = c.surface.clone()
	}
	c.mu.Unlock()

	if changed && c.observer != nil {
		c.observer(snapshot)
	}
}
