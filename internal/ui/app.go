package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jh3/spot-trainer/internal/config"
	"github.com/jh3/spot-trainer/internal/exercise"
	"github.com/jh3/spot-trainer/internal/session"
)

// screen is the top-level view being shown
type screen int

const (
	screenSetup screen = iota
	screenSession
)

// modal is a sheet drawn over the setup screen
type modal int

const (
	modalNone modal = iota
	modalList
	modalAdd
	modalRemove
)

// slider selects which duration the arrow keys adjust
type slider int

const (
	sliderExercise slider = iota
	sliderRest
)

// tickMsg drives the countdown
type tickMsg time.Time

// ExercisesChangedMsg tells the model the stored list changed on disk
type ExercisesChangedMsg struct{}

// Options wires the model to its collaborators
type Options struct {
	Controller   *session.Controller
	Exercises    *exercise.List
	TickInterval time.Duration
	Log          *slog.Logger
}

// appModel is the bubbletea model for the trainer
type appModel struct {
	ctrl      *session.Controller
	exercises *exercise.List
	log       *slog.Logger
	interval  time.Duration
	now       func() time.Time

	snap     session.Snapshot
	screen   screen
	modal    modal
	slider   slider
	exercise int // slider values, seconds
	rest     int
	input    textinput.Model
	bar      progress.Model
	width    int
	height   int
	quitting bool
}

func newAppModel(opts Options) appModel {
	ti := textinput.New()
	ti.Placeholder = "Ex: Pushups"
	ti.CharLimit = 100
	ti.Width = 30

	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	d := opts.Controller.Durations()
	return appModel{
		ctrl:      opts.Controller,
		exercises: opts.Exercises,
		log:       log,
		interval:  interval,
		now:       time.Now,
		snap:      opts.Controller.Snapshot(),
		exercise:  d.Exercise,
		rest:      d.Rest,
		input:     ti,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:     80,
		height:    24,
	}
}

func (m appModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m appModel) Init() tea.Cmd {
	return m.tick()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.ctrl.Advance(time.Time(msg))
		return m, m.tick()

	case ExercisesChangedMsg:
		m.exercises.Reload()
		m.log.Debug("exercise list reloaded", "count", m.exercises.Len())
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(40, msg.Width-10))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.ctrl.Reset()
			m.quitting = true
			return m, tea.Quit
		}
		if m.screen == screenSession {
			return m.updateSession(msg)
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateSetup(msg)
	}

	return m, nil
}

func (m appModel) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		if m.slider == sliderExercise {
			m.slider = sliderRest
		} else {
			m.slider = sliderExercise
		}

	case "left":
		m.adjust(-1)
	case "right":
		m.adjust(1)
	case "shift+left":
		m.adjust(-5)
	case "shift+right":
		m.adjust(5)

	case "enter", "s":
		if m.ctrl.Active() {
			return m, nil
		}
		m.ctrl.Begin(m.exercises.Len(), m.now())
		m.snap = m.ctrl.Snapshot()
		m.screen = screenSession

	case "l":
		m.modal = modalList
	case "a":
		return m.openInput(modalAdd)
	case "r":
		return m.openInput(modalRemove)
	}
	return m, nil
}

// adjust moves the focused slider and pushes both values to the controller
func (m *appModel) adjust(delta int) {
	if m.ctrl.Active() {
		return
	}
	if m.slider == sliderExercise {
		m.exercise = config.ClampSeconds(m.exercise + delta)
	} else {
		m.rest = config.ClampSeconds(m.rest + delta)
	}
	m.ctrl.Configure(float64(m.exercise), float64(m.rest))
	m.snap = m.ctrl.Snapshot()
}

func (m appModel) openInput(which modal) (tea.Model, tea.Cmd) {
	m.modal = which
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m appModel) closeModal() appModel {
	m.modal = modalNone
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalList {
		switch msg.String() {
		case "esc", "enter", "q", "l":
			return m.closeModal(), nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.closeModal(), nil

	case "enter":
		if isBlank(m.input.Value()) {
			return m, nil
		}
		if m.modal == modalAdd {
			if _, err := m.exercises.Add(m.input.Value()); err != nil {
				m.log.Error("adding exercise", "err", err)
			}
		} else if _, err := m.exercises.Remove(m.input.Value()); err != nil {
			m.log.Error("removing exercise", "err", err)
		}
		return m.closeModal(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "x":
		m.ctrl.Reset()
		d := m.ctrl.Durations()
		m.exercise, m.rest = d.Exercise, d.Rest
		m.snap = m.ctrl.Snapshot()
		m.screen = screenSetup
	}
	return m, nil
}

// Run starts the trainer. ready is called with the program before it runs
// so callers can forward external events with Send.
func Run(opts Options, ready func(*tea.Program)) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithAltScreen())
	if ready != nil {
		ready(p)
	}
	_, err := p.Run()
	return err
}
