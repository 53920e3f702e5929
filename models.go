package tips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Sport is an entry of the sport selector. ID is passed as-is to the listing endpoint.
type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fixture is a scheduled match as returned by the listing endpoint
type Fixture struct {
	GameID GameID `json:"game_id"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Time   string `json:"time"`
}

// Label is the text shown for the fixture in the game selector, i.e. "A vs B (20:00)"
func (f Fixture) Label() string {
	return fmt.Sprintf("%s vs %s (%s)", f.Home, f.Away, f.Time)
}

// GameID is an opaque game identifier. Some sports return it as a JSON number,
// so both forms are accepted and kept as a string.
type GameID string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (id *GameID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = GameID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("game_id must be a string or a number: %w", err)
	}
	*id = GameID(num.String())
	return nil
}

// League groups the fixtures of one competition for the day
type League struct {
	Name     string    `json:"name"`
	Fixtures []Fixture `json:"fixtures"`
}

// Catalog is the day's fixtures for one sport grouped by league, in the order
// the listing endpoint returned them.
type Catalog struct {
	Leagues []League `json:"leagues"`
}

// UnmarshalJSON decodes the listing object {league: [fixture, ...], ...}
// keeping the key order of the payload.
func (c *Catalog) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog must be a JSON object, got %v", tok)
	}

	var leagues []League
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var fixtures []Fixture
		if err := dec.Decode(&fixtures); err != nil {
			return fmt.Errorf("league %q: %w", name, err)
		}
		leagues = append(leagues, League{Name: name, Fixtures: fixtures})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	c.Leagues = leagues
	return nil
}

// Fixtures returns the fixtures of a league and whether the league exists
func (c Catalog) Fixtures(league string) ([]Fixture, bool) {
	for _, l := range c.Leagues {
		if l.Name == league {
			return l.Fixtures, true
		}
	}
	return nil, false
}

// Presentable lists the names of the leagues that have at least one fixture
func (c Catalog) Presentable() []string {
	var names []string
	for _, l := range c.Leagues {
		if len(l.Fixtures) > 0 {
			names = append(names, l.Name)
		}
	}
	return names
}

// Fixture finds a fixture by game id within a league
func (c Catalog) Fixture(league string, gameID string) (Fixture, bool) {
	fixtures, _ := c.Fixtures(league)
	for _, f := range fixtures {
		if string(f.GameID) == gameID {
			return f, true
		}
	}
	return Fixture{}, false
}

// Locate finds a fixture by game id in any league
func (c Catalog) Locate(gameID string) (string, Fixture, bool) {
	for _, l := range c.Leagues {
		if f, ok := c.Fixture(l.Name, gameID); ok {
			return l.Name, f, true
		}
	}
	return "", Fixture{}, false
}

// Tip is a recommended bet from the analysis endpoint
type Tip struct {
	Market        string `json:"market"`
	Suggestion    string `json:"suggestion"`
	Justification string `json:"justification"`
	Confidence    int    `json:"confidence"` // 0-100
}

// TipList is the ordered analysis of one game
type TipList []Tip

// EmptyOfConfidence reports whether the service signalled that no
// high-confidence analysis is available: an empty list, or a list whose first
// tip has zero confidence.
func (l TipList) EmptyOfConfidence() bool {
	return len(l) == 0 || l[0].Confidence == 0
}

// AtLeast returns the tips with confidence >= min, keeping their order
func (l TipList) AtLeast(min int) TipList {
	var out TipList
	for _, t := range l {
		if t.Confidence >= min {
			out = append(out, t)
		}
	}
	return out
}

// TipAlertRequest is the input of TipAlertWorkflow
type TipAlertRequest struct {
	Sport         string    `json:"sport"`
	League        string    `json:"league"`
	Fixture       Fixture   `json:"fixture"`
	NotifyAt      time.Time `json:"notifyAt"`
	MinConfidence int       `json:"minConfidence"`
	Channels      []string  `json:"channels"`
}

// Notification is a single message sent on a notification channel
type Notification struct {
	Title   string
	Message string
}

// SendNotifications is the input of the SendNotificationList activity
type SendNotifications struct {
	Channel          string
	NotificationList []Notification
}
