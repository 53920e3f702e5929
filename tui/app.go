package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tips "temporal-betting-tips"
)

// Dracula colors
var (
	foreground = lipgloss.Color("#f8f8f2")
	comment    = lipgloss.Color("#6272a4")
	cyan       = lipgloss.Color("#8be9fd")
	green      = lipgloss.Color("#50fa7b")
	pink       = lipgloss.Color("#ff79c6")
	purple     = lipgloss.Color("#bd93f9")
	red        = lipgloss.Color("#ff5555")
	yellow     = lipgloss.Color("#f1fa8c")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(comment).
			Padding(0, 1).
			Width(36)

	focusedBoxStyle = boxStyle.BorderForeground(purple)

	optionStyle   = lipgloss.NewStyle().Foreground(foreground)
	disabledStyle = lipgloss.NewStyle().Foreground(comment)
	cursorStyle   = lipgloss.NewStyle().Foreground(pink).Bold(true)
	marketStyle   = lipgloss.NewStyle().Foreground(cyan).Bold(true)
	suggestStyle  = lipgloss.NewStyle().Foreground(green)
	reasonStyle   = lipgloss.NewStyle().Foreground(comment).Italic(true)
	barStyle      = lipgloss.NewStyle().Foreground(green)
	neutralStyle  = lipgloss.NewStyle().Foreground(yellow)
	helpStyle     = lipgloss.NewStyle().Foreground(comment)
	errorStyle    = lipgloss.NewStyle().Foreground(red)
)

// barCells is the width of the confidence bar in terminal cells
const barCells = 20

// stages in focus order
const (
	stageSport = iota
	stageLeague
	stageGame
	stageCount
)

var stageTitles = [stageCount]string{"Sport", "League", "Game"}

// surfaceMsg carries a snapshot pushed by the controller's observer
type surfaceMsg tips.Surface

// selectionDoneMsg is returned once a selection and its fetch have finished
type selectionDoneMsg struct {
	surface tips.Surface
}

type model struct {
	ctrl    *tips.Controller
	surface tips.Surface
	focus   int
	cursor  [stageCount]int
	pending int
	spinner spinner.Model
}

func initialModel(ctrl *tips.Controller) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(pink)

	return model{
		ctrl:    ctrl,
		surface: ctrl.Snapshot(),
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.focus = (m.focus + 1) % stageCount
		case "shift+tab":
			m.focus = (m.focus + stageCount - 1) % stageCount
		case "up", "k":
			if m.cursor[m.focus] > 0 {
				m.cursor[m.focus]--
			}
		case "down", "j":
			if m.cursor[m.focus] < len(m.selector(m.focus).Options)-1 {
				m.cursor[m.focus]++
			}
		case "enter":
			return m.choose()
		}

	case surfaceMsg:
		m.apply(tips.Surface(msg))

	case selectionDoneMsg:
		m.pending--
		m.apply(msg.surface)

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// choose applies the option under the cursor of the focused selector
func (m model) choose() (tea.Model, tea.Cmd) {
	sel := m.selector(m.focus)
	if sel.Disabled || m.cursor[m.focus] >= len(sel.Options) {
		return m, nil
	}
	opt := sel.Options[m.cursor[m.focus]]
	if opt.Disabled {
		return m, nil
	}

	stage := m.focus
	if opt.Value != "" && m.focus < stageGame {
		m.focus++
	}
	m.pending++
	cmds := []tea.Cmd{m.selectCmd(stage, opt.Value)}
	if m.pending == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m model) selectCmd(stage int, value string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx := context.Background()
		switch stage {
		case stageSport:
			ctrl.SelectSport(ctx, value)
		case stageLeague:
			ctrl.SelectLeague(value)
		case stageGame:
			ctrl.SelectGame(ctx, value)
		}
		return selectionDoneMsg{surface: ctrl.Snapshot()}
	}
}

// apply takes a snapshot unless a newer one has already been shown
func (m *model) apply(s tips.Surface) {
	if s.Revision < m.surface.Revision {
		return
	}
	m.surface = s
	for i := 0; i < stageCount; i++ {
		if n := len(m.selector(i).Options); m.cursor[i] >= n {
			m.cursor[i] = max(0, n-1)
		}
	}
}

func (m model) selector(stage int) tips.Selector {
	switch stage {
	case stageLeague:
		return m.surface.League
	case stageGame:
		return m.surface.Game
	}
	return m.surface.Sport
}

func (m model) renderSelector(stage int) string {
	sel := m.selector(stage)
	focused := stage == m.focus

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(stageTitles[stage]))
	sb.WriteString("\n")
	for i, opt := range sel.Options {
		prefix := "  "
		if focused && i == m.cursor[stage] {
			prefix = cursorStyle.Render("> ")
		}
		label := opt.Label
		if opt.Value != "" && opt.Value == sel.Selected {
			label = "● " + label
		}
		style := optionStyle
		if sel.Disabled || opt.Disabled {
			style = disabledStyle
		}
		sb.WriteString(prefix + style.Render(label) + "\n")
	}

	box := boxStyle
	if focused {
		box = focusedBoxStyle
	}
	return box.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m model) renderResults() string {
	res := m.surface.Results
	if !res.Visible {
		return ""
	}

	var sb strings.Builder
	if res.Header != "" {
		sb.WriteString(titleStyle.Render(res.Header))
		sb.WriteString("\n\n")
	}
	for _, card := range res.Cards {
		switch card.Kind {
		case tips.CardTip:
			sb.WriteString(marketStyle.Render(card.Market + ": "))
			sb.WriteString(suggestStyle.Render(card.Suggestion))
			sb.WriteString("\n")
			if card.Justification != "" {
				sb.WriteString(reasonStyle.Render(card.Justification))
				sb.WriteString("\n")
			}
			sb.WriteString(barStyle.Render(renderBar(card)))
		case tips.CardLoading:
			sb.WriteString(m.spinner.View() + " " + card.Message)
		case tips.CardError:
			sb.WriteString(errorStyle.Render(card.Message))
		default:
			sb.WriteString(neutralStyle.Render(card.Message))
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// renderBar draws the confidence of a tip card as a fixed-width bar
func renderBar(card tips.Card) string {
	pct := card.BarPercent()
	filled := pct * barCells / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled) + fmt.Sprintf(" %d%%", pct)
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Betting Tips"))
	if m.pending > 0 {
		sb.WriteString(" " + m.spinner.View())
	}
	sb.WriteString("\n\n")

	boxes := make([]string, 0, stageCount)
	for i := 0; i < stageCount; i++ {
		boxes = append(boxes, m.renderSelector(i))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderResults())
	sb.WriteString(helpStyle.Render("Tab: next selector • ↑/↓: move • Enter: choose • q: quit"))

	return sb.String()
}

// Run starts the terminal front-end on top of a new controller
func Run(service tips.TipService, sports []tips.Sport, logger *slog.Logger) error {
	var p *tea.Program
	ctrl := tips.NewController(service,
		tips.WithSports(sports),
		tips.WithLogger(logger),
		tips.WithObserver(func(s tips.Surface) {
			if p != nil {
				p.Send(surfaceMsg(s))
			}
		}),
	)

	p = tea.NewProgram(initialModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
