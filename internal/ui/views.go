package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jh3/spot-trainer/internal/config"
	"github.com/jh3/spot-trainer/internal/session"
)

const sliderWidth = 30

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	exerciseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	restStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	exitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(1, 4).
			Width(20).
			Align(lipgloss.Center).
			Bold(true)
	sheetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2)
)

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.screen == screenSession:
		body = m.sessionView()
	case m.modal != modalNone:
		body = m.modalView()
	default:
		body = m.setupView()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m appModel) setupView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Exercise Duration:") + "\n")
	b.WriteString(boxStyle.Render(m.snap.ExerciseDisplay) + "\n")
	b.WriteString(titleStyle.Render("Rest Duration:") + "\n")
	b.WriteString(boxStyle.Render(m.snap.RestDisplay) + "\n\n")

	b.WriteString(renderSlider("Set Exercise Duration:", m.exercise, m.slider == sliderExercise) + "\n")
	b.WriteString(renderSlider("Set Rest Duration:", m.rest, m.slider == sliderRest) + "\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("%d exercises saved", m.exercises.Len())) + "\n\n")
	b.WriteString(helpStyle.Render("enter: start • ←/→: adjust • tab: switch • l: show • a: add • r: remove • q/esc: quit"))
	return b.String()
}

// renderSlider draws a fixed-width track with a knob at value
func renderSlider(label string, value int, focused bool) string {
	pos := (value - config.MinSeconds) * (sliderWidth - 1) / (config.MaxSeconds - config.MinSeconds)
	track := strings.Repeat("─", pos) + "●" + strings.Repeat("─", sliderWidth-1-pos)

	prefix := "  "
	if focused {
		prefix = cursorStyle.Render("> ")
		track = cursorStyle.Render(track)
	} else {
		track = dimStyle.Render(track)
	}
	return fmt.Sprintf("%s%s\n  %s %2ds", prefix, label, track, value)
}

func (m appModel) sessionView() string {
	var b strings.Builder
	s := m.snap

	if s.Phase == session.PhaseRest {
		b.WriteString(restStyle.Render("Rest") + "\n\n")
	} else {
		b.WriteString(exerciseStyle.Render("Exercise") + "\n\n")
	}

	if name, ok := m.currentExercise(); ok {
		label := "Exercise is: "
		if s.Phase == session.PhaseRest {
			label = "Next exercise is: "
		}
		b.WriteString(titleStyle.Render(label+name) + "\n\n")
	}

	b.WriteString(m.bar.ViewAs(s.Progress) + "\n\n")
	b.WriteString(boxStyle.Render(s.Display()) + "\n\n")
	b.WriteString(exitStyle.Render("esc: exit session"))
	if id := shortRunID(s.RunID); id != "" {
		b.WriteString(dimStyle.Render(" • run " + id))
	}
	return b.String()
}

// shortRunID trims a run id to its first uuid group
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m appModel) currentExercise() (string, bool) {
	if !m.snap.HasExercise() {
		return "", false
	}
	return m.exercises.At(m.snap.ExerciseIndex)
}

func (m appModel) modalView() string {
	var b strings.Builder

	switch m.modal {
	case modalList:
		b.WriteString(titleStyle.Render("Exercises") + "\n\n")
		names := m.exercises.Names()
		if len(names) == 0 {
			b.WriteString(dimStyle.Render("No exercises added yet.") + "\n")
		}
		for _, name := range names {
			b.WriteString(name + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("esc: close"))

	case modalAdd:
		b.WriteString(titleStyle.Render("Enter Exercise") + "\n\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: submit • esc: cancel"))

	case modalRemove:
		b.WriteString(titleStyle.Render("Enter Exercise to Remove") + "\n\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: submit • esc: cancel"))
	}

	return sheetStyle.Render(b.String())
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
