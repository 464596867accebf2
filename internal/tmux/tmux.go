package tmux

import (
	"fmt"
	"os"
	"strings"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// SessionName is the tmux session the trainer opens in
const SessionName = "workout"

// StatusOption is the user option mirroring the countdown. Reference it
// from status-right as #{@spot-trainer}.
const StatusOption = "@spot-trainer"

// Manager handles tmux operations
type Manager struct {
	tmux *gotmux.Tmux
}

// New creates a tmux manager
func New() (*Manager, error) {
	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, err
	}
	return &Manager{tmux: t}, nil
}

// IsInsideTmux checks if we're running inside tmux
func IsInsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// SessionExists checks if a tmux session exists
func (m *Manager) SessionExists(name string) bool {
	return m.tmux.HasSession(name)
}

// CreateTrainerSession creates a detached session running shellCommand
// in dir
func (m *Manager) CreateTrainerSession(name, dir, shellCommand string) error {
	sess, err := m.tmux.NewSession(&gotmux.SessionOptions{
		Name:           name,
		StartDirectory: dir,
		ShellCommand:   shellCommand,
	})
	if err != nil {
		return err
	}

	windows, err := sess.ListWindows()
	if err == nil && len(windows) > 0 {
		windows[0].Rename("trainer")
	}
	return nil
}

// SwitchToSession switches the client to a session
func (m *Manager) SwitchToSession(name string) error {
	return m.tmux.SwitchClient(&gotmux.SwitchClientOptions{
		TargetSession: name,
	})
}

// CurrentSession returns the name of the session this process runs in
func (m *Manager) CurrentSession() (string, error) {
	out, err := m.tmux.Command("display-message", "-p", "#S")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(out)
	if name == "" {
		return "", fmt.Errorf("tmux reported no current session")
	}
	return name, nil
}

// SetStatus sets the status user option on a session
func (m *Manager) SetStatus(sessionName, text string) error {
	_, err := m.tmux.Command("set-option", "-t", sessionName, StatusOption, text)
	return err
}

// ClearStatus unsets the status user option on a session
func (m *Manager) ClearStatus(sessionName string) error {
	_, err := m.tmux.Command("set-option", "-u", "-t", sessionName, StatusOption)
	return err
}

// RefreshClient redraws the status line
func (m *Manager) RefreshClient() error {
	_, err := m.tmux.Command("refresh-client", "-S")
	return err
}
