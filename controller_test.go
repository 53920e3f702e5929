package tips

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedResponse struct {
	status int
	body   string
}

// newTipServer fakes the tip service with canned answers per sport and per game id
func newTipServer(t *testing.T, listings map[string]cannedResponse, analyses map[string]cannedResponse) *APIClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp cannedResponse
		var ok bool
		switch r.URL.Path {
		case "/jogos-do-dia":
			resp, ok = listings[r.URL.Query().Get("sport")]
		case "/analisar-jogo":
			resp, ok = analyses[r.URL.Query().Get("game_id")]
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		w.Write([]byte(resp.body))
	}))
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL, server.Client(), nil)
}

const soccerListing = `{"Premier":[{"game_id":"g1","home":"A","away":"B","time":"20:00"}],"Empty":[]}`

func scenarioController(t *testing.T) *Controller {
	t.Helper()
	api := newTipServer(t,
		map[string]cannedResponse{
			"soccer": {200, soccerListing},
			"tennis": {200, `{"Erro":[{"home":"quota exceeded"}]}`},
			"hockey": {503, ``},
			"basketball": {200, `{"NBA":[
				{"game_id":"n1","home":"Lakers","away":"Celtics","time":"01:00"},
				{"game_id":"n2","home":"Bulls","away":"Knicks","time":"02:30"},
				{"game_id":"n3","home":"Heat","away":"Suns","time":"03:00"}
			],"WNBA":[{"game_id":"w1","home":"Aces","away":"Liberty","time":"23:00"}]}`},
		},
		map[string]cannedResponse{
			"g1": {200, `[{"market":"Goals","suggestion":"Over 2.5","justification":"j","confidence":72}]`},
			"n1": {200, `[]`},
			"n2": {200, `[{"market":"x","suggestion":"y","justification":"z","confidence":0}]`},
			"n3": {500, ``},
			"w1": {200, `[
				{"market":"Winner","suggestion":"Aces","justification":"form","confidence":81},
				{"market":"Points","suggestion":"Under 160.5","justification":"pace","confidence":55},
				{"market":"Spread","suggestion":"Aces -4.5","justification":"depth","confidence":140}
			]`},
		},
	)
	return NewController(api)
}

func TestController_InitialSurface(t *testing.T) {
	c := NewController(nil, WithSports([]Sport{{ID: "soccer", Name: "Soccer"}}))

	s := c.Snapshot()
	assert.Equal(t, SportSelectID, s.Sport.ID)
	assert.Equal(t, LeagueSelectID, s.League.ID)
	assert.Equal(t, GameSelectID, s.Game.ID)
	assert.Equal(t, ResultsContainerID, s.Results.ID)
	assert.Equal(t, []string{"soccer"}, s.Sport.Values())
	assert.True(t, s.League.Disabled)
	assert.True(t, s.Game.Disabled)
	assert.False(t, s.Results.Visible)
	assert.Equal(t, NoSport, c.State())
}

func TestController_Scenarios(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)

	// 1. sport with one populated league and one empty league
	c.SelectSport(ctx, "soccer")
	s := c.Snapshot()
	require.Len(t, s.League.Options, 2)
	assert.Equal(t, Option{Label: LeaguePlaceholder}, s.League.Options[0])
	assert.Equal(t, Option{Value: "Premier", Label: "Premier"}, s.League.Options[1])
	assert.False(t, s.League.Disabled)
	assert.Equal(t, SportChosen, c.State())

	// 2. league fills the game selector
	c.SelectLeague("Premier")
	s = c.Snapshot()
	require.Len(t, s.Game.Options, 2)
	assert.Equal(t, Option{Label: GamePlaceholder}, s.Game.Options[0])
	assert.Equal(t, Option{Value: "g1", Label: "A vs B (20:00)"}, s.Game.Options[1])
	assert.False(t, s.Game.Disabled)
	assert.Equal(t, LeagueChosen, c.State())

	// 3. game renders one tip card
	c.SelectGame(ctx, "g1")
	s = c.Snapshot()
	require.True(t, s.Results.Visible)
	assert.Equal(t, "A vs B (20:00)", s.Results.Header)
	require.Len(t, s.Results.Cards, 1)
	card := s.Results.Cards[0]
	assert.Equal(t, CardTip, card.Kind)
	assert.Equal(t, "Goals", card.Market)
	assert.Equal(t, "Over 2.5", card.Suggestion)
	assert.Equal(t, "j", card.Justification)
	assert.Equal(t, "72%", card.BarWidth())
	assert.Equal(t, GameChosen, c.State())

	// 6. rejected listing keeps the previous catalog
	c.SelectSport(ctx, "tennis")
	s = c.Snapshot()
	require.Len(t, s.League.Options, 1)
	assert.Equal(t, "Erro: quota exceeded", s.League.Options[0].Label)
	assert.True(t, s.League.Disabled)
	assert.False(t, s.Results.Visible)
	assert.Equal(t, []string{"Premier"}, c.Catalog().Presentable())
	assert.Equal(t, SportChosen, c.State())
}

func TestController_NeutralAnalysis(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "basketball")
	c.SelectLeague("NBA")

	for _, gameID := range []string{"n1", "n2"} {
		t.Run(gameID, func(t *testing.T) {
			c.SelectGame(ctx, gameID)
			s := c.Snapshot()
			require.True(t, s.Results.Visible)
			require.Len(t, s.Results.Cards, 1)
			assert.Equal(t, CardNeutral, s.Results.Cards[0].Kind)
			assert.Equal(t, InsufficientData, s.Results.Cards[0].Message)
			assert.Zero(t, s.Results.TipCards())
		})
	}
}

func TestController_TipCardsMatchTips(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "basketball")
	c.SelectLeague("WNBA")
	c.SelectGame(ctx, "w1")

	s := c.Snapshot()
	assert.Equal(t, "Aces vs Liberty (23:00)", s.Results.Header)
	require.Equal(t, 3, s.Results.TipCards())
	assert.Equal(t, "81%", s.Results.Cards[0].BarWidth())
	assert.Equal(t, "55%", s.Results.Cards[1].BarWidth())
	assert.Equal(t, "100%", s.Results.Cards[2].BarWidth())
}

func TestController_AnalysisFailure(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "basketball")
	c.SelectLeague("NBA")
	catalogBefore := c.Catalog()

	c.SelectGame(ctx, "n3")

	s := c.Snapshot()
	require.True(t, s.Results.Visible)
	require.Len(t, s.Results.Cards, 1)
	assert.Equal(t, CardError, s.Results.Cards[0].Kind)
	assert.Contains(t, s.Results.Cards[0].Message, "Internal Server Error")
	assert.Equal(t, catalogBefore, c.Catalog())
}

func TestController_ListingTransportFailure(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "soccer")

	c.SelectSport(ctx, "hockey")

	s := c.Snapshot()
	require.Len(t, s.League.Options, 1)
	assert.Contains(t, s.League.Options[0].Label, "Error: ")
	assert.Contains(t, s.League.Options[0].Label, "503")
	assert.True(t, s.League.Disabled)
	assert.True(t, s.Game.Disabled)
	assert.Equal(t, []string{"Premier"}, c.Catalog().Presentable())
}

func TestController_PlaceholderClearsDownstream(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "soccer")
	c.SelectLeague("Premier")
	c.SelectGame(ctx, "g1")
	require.Equal(t, GameChosen, c.State())

	c.SelectGame(ctx, "")
	assert.Equal(t, LeagueChosen, c.State())
	assert.False(t, c.Snapshot().Results.Visible)

	c.SelectGame(ctx, "g1")
	c.SelectLeague("")
	s := c.Snapshot()
	assert.Equal(t, SportChosen, c.State())
	assert.True(t, s.Game.Disabled)
	assert.Len(t, s.Game.Options, 1)
	assert.False(t, s.Results.Visible)

	c.SelectSport(ctx, "")
	s = c.Snapshot()
	assert.Equal(t, NoSport, c.State())
	assert.True(t, s.League.Disabled)
	assert.Equal(t, []Option{{Label: LeaguePlaceholder}}, s.League.Options)
}

func TestController_UnknownSelections(t *testing.T) {
	ctx := context.Background()
	c := scenarioController(t)
	c.SelectSport(ctx, "soccer")

	// "Empty" has no fixtures, so it is never offered
	c.SelectLeague("Empty")
	s := c.Snapshot()
	assert.Empty(t, s.League.Selected)
	assert.True(t, s.Game.Disabled)

	c.SelectLeague("Premier")
	c.SelectGame(ctx, "not-a-game")
	s = c.Snapshot()
	assert.Empty(t, s.Game.Selected)
	assert.False(t, s.Results.Visible)
}

// stubService lets a test hold a request open
type stubService struct {
	games   func(ctx context.Context, sport string) (Catalog, error)
	analyze func(ctx context.Context, gameID string) (TipList, error)
}

func (s *stubService) GamesOfTheDay(ctx context.Context, sport string) (Catalog, error) {
	return s.games(ctx, sport)
}

func (s *stubService) AnalyzeGame(ctx context.Context, gameID string) (TipList, error) {
	return s.analyze(ctx, gameID)
}

func premierCatalog() Catalog {
	return Catalog{Leagues: []League{{Name: "Premier", Fixtures: []Fixture{{GameID: "g1", Home: "A", Away: "B", Time: "20:00"}}}}}
}

func TestController_SportChangeClearsBeforeFetchCompletes(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	svc := &stubService{
		games: func(ctx context.Context, sport string) (Catalog, error) {
			if sport == "tennis" {
				started <- struct{}{}
				<-release
			}
			return premierCatalog(), nil
		},
		analyze: func(ctx context.Context, gameID string) (TipList, error) {
			return TipList{{Market: "Goals", Confidence: 70}}, nil
		},
	}
	c := NewController(svc)
	c.SelectSport(ctx, "soccer")
	c.SelectLeague("Premier")
	c.SelectGame(ctx, "g1")
	require.True(t, c.Snapshot().Results.Visible)

	done := make(chan struct{})
	go func() {
		c.SelectSport(ctx, "tennis")
		close(done)
	}()
	<-started

	s := c.Snapshot()
	assert.Equal(t, []Option{{Label: LoadingLeagues, Disabled: true}}, s.League.Options)
	assert.True(t, s.League.Disabled)
	assert.True(t, s.Game.Disabled)
	assert.Equal(t, []Option{{Label: GamePlaceholder}}, s.Game.Options)
	assert.False(t, s.Results.Visible)

	close(release)
	<-done
	assert.False(t, c.Snapshot().League.Disabled)
}

func TestController_StaleCatalogDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	svc := &stubService{
		games: func(ctx context.Context, sport string) (Catalog, error) {
			if sport == "soccer" {
				started <- struct{}{}
				<-release
				return premierCatalog(), nil
			}
			return Catalog{Leagues: []League{{Name: "NBA", Fixtures: []Fixture{{GameID: "n1", Home: "L", Away: "C", Time: "01:00"}}}}}, nil
		},
	}
	c := NewController(svc)

	done := make(chan struct{})
	go func() {
		c.SelectSport(ctx, "soccer")
		close(done)
	}()
	<-started

	c.SelectSport(ctx, "basketball")
	close(release)
	<-done

	s := c.Snapshot()
	assert.Equal(t, "basketball", s.Sport.Selected)
	assert.Equal(t, []string{"NBA"}, s.League.Values())
	assert.Equal(t, []string{"NBA"}, c.Catalog().Presentable())
}

func TestController_StaleAnalysisDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	svc := &stubService{
		games: func(ctx context.Context, sport string) (Catalog, error) {
			return Catalog{Leagues: []League{{Name: "Premier", Fixtures: []Fixture{
				{GameID: "g1", Home: "A", Away: "B", Time: "20:00"},
				{GameID: "g2", Home: "C", Away: "D", Time: "21:00"},
			}}}}, nil
		},
		analyze: func(ctx context.Context, gameID string) (TipList, error) {
			if gameID == "g1" {
				started <- struct{}{}
				<-release
				return TipList{{Market: "slow", Confidence: 10}}, nil
			}
			return TipList{{Market: "fast", Confidence: 90}}, nil
		},
	}
	c := NewController(svc)
	c.SelectSport(ctx, "soccer")
	c.SelectLeague("Premier")

	done := make(chan struct{})
	go func() {
		c.SelectGame(ctx, "g1")
		close(done)
	}()
	<-started

	c.SelectGame(ctx, "g2")
	close(release)
	<-done

	s := c.Snapshot()
	assert.Equal(t, "C vs D (21:00)", s.Results.Header)
	require.Len(t, s.Results.Cards, 1)
	assert.Equal(t, "fast", s.Results.Cards[0].Market)
}

func TestController_ShowsLoadingCardWhileAnalyzing(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var seen []Surface
	svc := &stubService{
		games: func(ctx context.Context, sport string) (Catalog, error) { return premierCatalog(), nil },
		analyze: func(ctx context.Context, gameID string) (TipList, error) {
			return nil, &TransportFailure{Endpoint: analysisPath, Err: errors.New("connection reset")}
		},
	}
	c := NewController(svc, WithObserver(func(s Surface) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}))

	c.SelectSport(ctx, "soccer")
	c.SelectLeague("Premier")
	c.SelectGame(ctx, "g1")

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(seen), 2)
	loading := seen[len(seen)-2].Results
	assert.True(t, loading.Visible)
	require.Len(t, loading.Cards, 1)
	assert.Equal(t, CardLoading, loading.Cards[0].Kind)
	assert.Equal(t, AnalyzingMessage, loading.Cards[0].Message)

	final := seen[len(seen)-1].Results
	require.Len(t, final.Cards, 1)
	assert.Equal(t, CardError, final.Cards[0].Kind)
	assert.Contains(t, final.Cards[0].Message, "connection reset")
}

func TestController_ContextCancelled(t *testing.T) {
	svc := &stubService{
		games: func(ctx context.Context, sport string) (Catalog, error) {
			select {
			case <-ctx.Done():
				return Catalog{}, &TransportFailure{Endpoint: listingPath, Err: ctx.Err()}
			case <-time.After(time.Second):
				return premierCatalog(), nil
			}
		},
	}
	c := NewController(svc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.SelectSport(ctx, "soccer")

	s := c.Snapshot()
	assert.True(t, s.League.Disabled)
	assert.Contains(t, s.League.Options[0].Label, "context canceled")
	assert.Empty(t, c.Catalog().Leagues)
}

func TestController_LoadCatalogEmptySportIsNoop(t *testing.T) {
	c := NewController(&stubService{})
	before := c.Snapshot()

	c.LoadCatalog(context.Background(), "")

	assert.Equal(t, before, c.Snapshot())
}

func TestController_SnapshotDoesNotAlias(t *testing.T) {
	c := NewController(nil)
	s := c.Snapshot()
	s.Sport.Options[0].Label = "changed"

	assert.Equal(t, SportPlaceholder, c.Snapshot().Sport.Options[0].Label)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "NoSport", NoSport.String())
	assert.Equal(t, "SportChosen", SportChosen.String())
	assert.Equal(t, "LeagueChosen", LeagueChosen.String())
	assert.Equal(t, "GameChosen", GameChosen.String())
}
