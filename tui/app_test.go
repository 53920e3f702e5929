package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tips "temporal-betting-tips"
)

type fakeService struct {
	catalog tips.Catalog
	tips    tips.TipList
}

func (f fakeService) GamesOfTheDay(context.Context, string) (tips.Catalog, error) {
	return f.catalog, nil
}

func (f fakeService) AnalyzeGame(context.Context, string) (tips.TipList, error) {
	return f.tips, nil
}

func newTestModel() model {
	svc := fakeService{
		catalog: tips.Catalog{Leagues: []tips.League{{
			Name:     "NBA",
			Fixtures: []tips.Fixture{{GameID: "n1", Home: "Lakers", Away: "Celtics", Time: "20:00"}},
		}}},
		tips: tips.TipList{{Market: "Winner", Suggestion: "Lakers", Justification: "Home form", Confidence: 72}},
	}
	ctrl := tips.NewController(svc, tips.WithSports([]tips.Sport{{ID: "basketball", Name: "Basketball"}}))
	return initialModel(ctrl)
}

func press(t *testing.T, m model, key tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(model), cmd
}

// chooseAndWait presses enter and feeds the finished selection back into the model
func chooseAndWait(t *testing.T, m model) model {
	t.Helper()
	stage := m.focus
	value := m.selector(stage).Options[m.cursor[stage]].Value

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.pending)

	next, _ := m.Update(m.selectCmd(stage, value)())
	return next.(model)
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		confidence int
		want       string
	}{
		{72, strings.Repeat("█", 14) + strings.Repeat("░", 6) + " 72%"},
		{0, strings.Repeat("░", 20) + " 0%"},
		{100, strings.Repeat("█", 20) + " 100%"},
		{150, strings.Repeat("█", 20) + " 100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renderBar(tips.Card{Kind: tips.CardTip, Confidence: tt.confidence}))
	}
}

func TestModel_FocusWraps(t *testing.T) {
	m := newTestModel()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, stageGame, m.focus)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, stageSport, m.focus)
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	m := newTestModel()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor[stageSport])

	for i := 0; i < 5; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 1, m.cursor[stageSport])
}

func TestModel_SelectionChain(t *testing.T) {
	m := newTestModel()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = chooseAndWait(t, m)
	assert.Equal(t, 0, m.pending)
	assert.Equal(t, "basketball", m.surface.Sport.Selected)
	assert.Equal(t, stageLeague, m.focus)
	assert.False(t, m.surface.League.Disabled)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = chooseAndWait(t, m)
	assert.Equal(t, "NBA", m.surface.League.Selected)
	assert.Equal(t, stageGame, m.focus)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = chooseAndWait(t, m)
	assert.Equal(t, tips.GameChosen, m.ctrl.State())

	view := m.View()
	assert.Contains(t, view, "Lakers vs Celtics (20:00)")
	assert.Contains(t, view, "Winner")
	assert.Contains(t, view, "Home form")
	assert.Contains(t, view, " 72%")
}

func TestModel_DisabledSelectorIgnoresEnter(t *testing.T) {
	m := newTestModel()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.pending)
}

func TestModel_DropsOlderSnapshots(t *testing.T) {
	m := newTestModel()
	old := m.surface

	m = chooseAndWaitOnSport(t, m)
	require.Greater(t, m.surface.Revision, old.Revision)

	next, _ := m.Update(surfaceMsg(old))
	assert.Equal(t, "basketball", next.(model).surface.Sport.Selected)
}

func chooseAndWaitOnSport(t *testing.T, m model) model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	return chooseAndWait(t, m)
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel()

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewShowsPlaceholders(t *testing.T) {
	view := newTestModel().View()

	assert.Contains(t, view, tips.SportPlaceholder)
	assert.Contains(t, view, tips.LeaguePlaceholder)
	assert.Contains(t, view, tips.GamePlaceholder)
	assert.Contains(t, view, "Basketball")
}
