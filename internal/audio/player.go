// Package audio plays the phase-change beep through whatever command-line
// audio player the system has.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jh3/spot-trainer/internal/session"
)

// SoundName is the base name of the bundled notification sound
const SoundName = "beep"

var soundExts = []string{".mp3", ".wav", ".aiff", ".ogg"}

// knownPlayers are tried in order when no player is configured
var knownPlayers = [][]string{
	{"afplay"},
	{"paplay"},
	{"aplay", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpg123", "-q"},
}

// ErrNoSound is returned when the beep resource cannot be found
var ErrNoSound = errors.New("sound file not found")

// ErrNoPlayer is returned when no audio player is installed
var ErrNoPlayer = errors.New("no audio player found")

// Player plays the beep on every phase change
type Player struct {
	sound   string
	command []string
	log     *slog.Logger

	lookPath func(string) (string, error)
}

// New resolves the sound file and player command. Resolution failures are
// logged, not returned: a Player that cannot play simply stays quiet.
func New(dir, file, player string, log *slog.Logger) *Player {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Player{log: log, lookPath: exec.LookPath}

	sound, err := FindSound(dir, file)
	if err != nil {
		log.Warn("sound disabled", "err", err, "dir", dir)
	}
	p.sound = sound

	cmd, err := p.findPlayer(player)
	if err != nil {
		log.Warn("sound disabled", "err", err)
	}
	p.command = cmd
	return p
}

// FindSound returns file when set, otherwise the first beep.* in dir
func FindSound(dir, file string) (string, error) {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNoSound, file)
		}
		return file, nil
	}
	for _, ext := range soundExts {
		path := filepath.Join(dir, SoundName+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s.* in %s", ErrNoSound, SoundName, dir)
}

func (p *Player) findPlayer(configured string) ([]string, error) {
	if configured != "" {
		args := strings.Fields(configured)
		if _, err := p.lookPath(args[0]); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoPlayer, args[0])
		}
		return args, nil
	}
	for _, cand := range knownPlayers {
		if _, err := p.lookPath(cand[0]); err == nil {
			return cand, nil
		}
	}
	return nil, ErrNoPlayer
}

// Ready reports whether Play can produce sound
func (p *Player) Ready() bool {
	return p.sound != "" && len(p.command) > 0
}

// Play starts the player in the background and returns immediately
func (p *Player) Play() error {
	if p.sound == "" {
		return ErrNoSound
	}
	if len(p.command) == 0 {
		return ErrNoPlayer
	}

	args := append(append([]string{}, p.command[1:]...), p.sound)
	cmd := exec.Command(p.command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.command[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			p.log.Warn("playing sound", "player", p.command[0], "err", err)
		}
	}()
	return nil
}

// NotifyPhaseChange implements session.Notifier
func (p *Player) NotifyPhaseChange(to session.Phase) {
	if !p.Ready() {
		p.log.Debug("phase change without sound", "phase", to)
		return
	}
	if err := p.Play(); err != nil {
		p.log.Warn("playing sound", "phase", to, "err", err)
	}
}
