package tips

import (
	"fmt"
	"slices"
)

// Element ids of the host surface
const (
	SportSelectID      = "sport-select"
	LeagueSelectID     = "league-select"
	GameSelectID       = "game-select"
	ResultsContainerID = "bettingResults"
)

// Fixed labels used by the selectors and the results container
const (
	SportPlaceholder   = "Select a sport"
	LeaguePlaceholder  = "Select a league"
	GamePlaceholder    = "Select a game"
	LoadingLeagues     = "Loading leagues..."
	AnalyzingMessage   = "Analyzing..."
	InsufficientData   = "Insufficient data for a high-confidence analysis."
	transportErrorKind = "Error"
)

// Option is one entry of a selector. The placeholder has an empty value.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Selector is a dropdown of the host surface
type Selector struct {
	ID       string   `json:"id"`
	Options  []Option `json:"options"`
	Selected string   `json:"selected"`
	Disabled bool     `json:"disabled"`
}

func (s *Selector) reset(disabled bool, options ...Option) {
	s.Options = options
	s.Selected = ""
	s.Disabled = disabled
}

// Values lists the non-placeholder option values in order
func (s Selector) Values() []string {
	var values []string
	for _, o := range s.Options {
		if o.Value != "" {
			values = append(values, o.Value)
		}
	}
	return values
}

// CardKind tells the renderer how to draw a card
type CardKind string

const (
	CardTip     CardKind = "tip"
	CardNeutral CardKind = "neutral"
	CardError   CardKind = "error"
	CardLoading CardKind = "loading"
)

// Card is one block of the results container
type Card struct {
	Kind          CardKind `json:"kind"`
	Market        string   `json:"market,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
	Justification string   `json:"justification,omitempty"`
	Confidence    int      `json:"confidence,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// BarPercent is the filled fraction of the confidence bar, clamped to 0-100
func (c Card) BarPercent() int {
	return min(max(c.Confidence, 0), 100)
}

// BarWidth is BarPercent as a CSS width
func (c Card) BarWidth() string {
	return fmt.Sprintf("%d%%", c.BarPercent())
}

// Results is the container the analysis view owns while visible
type Results struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Header  string `json:"header,omitempty"`
	Cards   []Card `json:"cards"`
}

func (r *Results) hide() {
	r.Visible = false
	r.Header = ""
	r.Cards = nil
}

func (r *Results) show(header string, cards ...Card) {
	r.Visible = true
	r.Header = header
	r.Cards = cards
}

// TipCards counts the cards of kind CardTip
func (r Results) TipCards() int {
	n := 0
	for _, c := range r.Cards {
		if c.Kind == CardTip {
			n++
		}
	}
	return n
}

// Surface is the whole host surface: three selectors and the results container
type Surface struct {
	// Revision increases with every change, so late snapshots can be told apart
	Revision uint64   `json:"revision"`
	Sport    Selector `json:"sport"`
	League   Selector `json:"league"`
	Game     Selector `json:"game"`
	Results  Results  `json:"results"`
}

func newSurface(sports []Sport) Surface {
	options := []Option{{Label: SportPlaceholder}}
	for _, s := range sports {
		options = append(options, Option{Value: s.ID, Label: s.Name})
	}
	return Surface{
		Sport:   Selector{ID: SportSelectID, Options: options},
		League:  Selector{ID: LeagueSelectID, Options: []Option{{Label: LeaguePlaceholder}}, Disabled: true},
		Game:    Selector{ID: GameSelectID, Options: []Option{{Label: GamePlaceholder}}, Disabled: true},
		Results: Results{ID: ResultsContainerID},
	}
}

// clone deep-copies the slices so a snapshot never aliases controller state
func (s Surface) clone() Surface {
	s.Sport.Options = slices.Clone(s.Sport.Options)
	s.League.Options = slices.Clone(s.League.Options)
	s.Game.Options = slices.Clone(s.Game.Options)
	s.Results.Cards = slices.Clone(s.Results.Cards)
	return s
}
