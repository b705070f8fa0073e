package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	minigame "github.com/foundbox/foundbox/internal/game"
)

// pollTick keeps the countdown display live; the timer itself is recomputed
// from the stored deadline on every tick, not accumulated.
const pollTick = 100 * time.Millisecond

var (
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	overStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(pollTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the root Bubble Tea state for the minigame.
type model struct {
	engine *minigame.Engine
	input  textinput.Model
	bar    progress.Model
	epoch  int
}

func newModel(engine *minigame.Engine) model {
	input := textinput.New()
	input.Placeholder = "Type here (auto-detect)"
	input.Focus()
	input.CharLimit = 32

	return model{
		engine: engine,
		input:  input,
		bar:    progress.New(progress.WithDefaultGradient()),
		epoch:  -1,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.engine.Tick()
		m.syncInput()
		return m, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}

		switch m.engine.Snapshot().State {
		case minigame.StateIdle:
			if msg.String() == "enter" {
				m.engine.Start()
				m.syncInput()
			}
			return m, nil

		case minigame.StateGameOver:
			if msg.String() == "r" || msg.String() == "enter" {
				m.engine.Restart()
				m.engine.Start()
				m.syncInput()
			}
			return m, nil

		case minigame.StatePlaying:
			if msg.String() == "enter" && m.engine.Snapshot().Mode == minigame.ModePlanet {
				// In planet mode a submitted miss lets the planet advance.
				if !m.engine.Submit(m.input.Value()) {
					m.engine.Advance()
				}
				m.syncInput()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			// Words are detected as you type; no enter needed.
			m.engine.Submit(m.input.Value())
			m.syncInput()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncInput clears the visible input whenever the engine demands a fresh one.
func (m *model) syncInput() {
	snap := m.engine.Snapshot()
	if snap.InputEpoch != m.epoch {
		m.epoch = snap.InputEpoch
		m.input.SetValue("")
	}
}

func (m model) View() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(wordStyle.Render("Space Typing"))
	b.WriteString("\n\n")

	switch snap.State {
	case minigame.StateIdle:
		b.WriteString("Press ")
		b.WriteString(wordStyle.Render("enter"))
		b.WriteString(" to start.\n")

	case minigame.StatePlaying:
		b.WriteString(fmt.Sprintf("%s %s   %s %d\n",
			labelStyle.Render("Lives:"), strings.Repeat("♥ ", snap.Lives),
			labelStyle.Render("Score:"), snap.Score))

		if snap.Mode == minigame.ModeTimer {
			fraction := 0.0
			if snap.TimeLimit > 0 {
				fraction = float64(snap.Remaining) / float64(snap.TimeLimit)
			}
			b.WriteString(fmt.Sprintf("%s %.1fs\n%s\n",
				labelStyle.Render("Time:"), snap.Remaining.Seconds(),
				m.bar.ViewAs(fraction)))
		} else {
			fraction := 1 - float64(snap.Distance)/float64(snap.MaxDistance)
			b.WriteString(fmt.Sprintf("%s %d/%d\n%s\n",
				labelStyle.Render("Distance:"), snap.Distance, snap.MaxDistance,
				m.bar.ViewAs(fraction)))
		}

		b.WriteString(fmt.Sprintf("\nTarget: %s\n\n", wordStyle.Render(snap.Word)))
		b.WriteString(m.input.View())
		b.WriteString("\n")

	case minigame.StateGameOver:
		b.WriteString(overStyle.Render("GAME OVER"))
		b.WriteString(fmt.Sprintf("\nFinal score: %d\n\nPress r to play again.\n", snap.Score))
	}

	b.WriteString(helpStyle.Render("\nesc to quit"))
	return b.String()
}
