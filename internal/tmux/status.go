package tmux

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jh3/spot-trainer/internal/session"
)

// StatusSetter is the subset of Manager the mirror needs
type StatusSetter interface {
	SetStatus(sessionName, text string) error
	ClearStatus(sessionName string) error
	RefreshClient() error
}

// StatusMirror copies the countdown into a tmux user option. Observe is
// called from the UI loop and never blocks; a worker goroutine applies only
// the most recent label.
type StatusMirror struct {
	setter  StatusSetter
	session string
	log     *slog.Logger

	last    string
	pending chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewStatusMirror starts the worker for the given tmux session
func NewStatusMirror(setter StatusSetter, sessionName string, log *slog.Logger) *StatusMirror {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &StatusMirror{
		setter:  setter,
		session: sessionName,
		log:     log,
		pending: make(chan string, 1),
		done:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

// Label renders a snapshot as status text; empty when inactive
func Label(s session.Snapshot) string {
	if !s.Active {
		return ""
	}
	return fmt.Sprintf("%s %ss", s.Phase, s.Display())
}

// Observe implements session.Observer
func (m *StatusMirror) Observe(s session.Snapshot) {
	label := Label(s)
	if label == m.last {
		return
	}
	m.last = label

	select {
	case m.pending <- label:
	default:
		// drop the stale label, keep the newest
		select {
		case <-m.pending:
		default:
		}
		m.pending <- label
	}
}

func (m *StatusMirror) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case label := <-m.pending:
			m.apply(label)
		}
	}
}

func (m *StatusMirror) apply(label string) {
	var err error
	if label == "" {
		err = m.setter.ClearStatus(m.session)
	} else {
		err = m.setter.SetStatus(m.session, label)
	}
	if err != nil {
		m.log.Debug("tmux status", "err", err)
		return
	}
	if err := m.setter.RefreshClient(); err != nil {
		m.log.Debug("tmux refresh", "err", err)
	}
}

// Close stops the worker and clears the option
func (m *StatusMirror) Close() {
	close(m.done)
	m.wg.Wait()
	if err := m.setter.ClearStatus(m.session); err != nil {
		m.log.Debug("tmux status", "err", err)
	}
}
