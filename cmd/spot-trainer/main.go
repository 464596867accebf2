package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jh3/spot-trainer/internal/audio"
	"github.com/jh3/spot-trainer/internal/config"
	"github.com/jh3/spot-trainer/internal/exercise"
	"github.com/jh3/spot-trainer/internal/session"
	"github.com/jh3/spot-trainer/internal/store"
	"github.com/jh3/spot-trainer/internal/tmux"
	"github.com/jh3/spot-trainer/internal/ui"
)

var cfg *config.Config

func main() {
	cfg = config.Load()
	args := os.Args[1:]

	// Parse flags
	var filtered []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-e", "--exercise", "-r", "--rest":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s needs a number of seconds\n", arg)
				os.Exit(1)
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", arg, err)
				os.Exit(1)
			}
			i++
			if arg == "-e" || arg == "--exercise" {
				cfg.ExerciseSeconds = config.ClampSeconds(n)
			} else {
				cfg.RestSeconds = config.ClampSeconds(n)
			}
		default:
			filtered = append(filtered, arg)
		}
	}

	if len(filtered) > 0 {
		switch filtered[0] {
		case "list":
			listExercises()
		case "add":
			addExercise(strings.Join(filtered[1:], " "))
		case "remove":
			removeExercise(strings.Join(filtered[1:], " "))
		case "clear":
			clearExercises()
		case "tmux":
			openInTmux()
		case "-h", "--help":
			printHelp()
		default:
			printHelp()
		}
		return
	}
	runInteractive()
}

func printHelp() {
	fmt.Printf(`spot-trainer - Exercise/rest interval timer

Usage: spot-trainer [flags] [command]

Commands:
  (none)          Interactive trainer
  list            Print saved exercises
  add <name>      Add an exercise
  remove [name]   Remove every matching exercise (fuzzy picker if no name)
  clear           Delete all saved exercises
  tmux            Open the trainer in its own tmux session
  -h, --help      Show this help

Flags:
  -e, --exercise N   Exercise duration in seconds (1-60)
  -r, --rest N       Rest duration in seconds (1-60)

Keybindings (setup):
  Enter/s         Start session
  Left/Right      Adjust duration (shift: 5s)
  Tab             Switch between exercise and rest
  l / a / r       Show / add / remove exercises
  q, Esc, Ctrl-C  Quit

Keybindings (session):
  Esc/x           Exit session
  Ctrl-C          Quit

Tmux Integration:
  Inside tmux the countdown is published as the %s session option.
  Add it to your status line:
    set -g status-right '#{%s} %%H:%%M'

Sound:
  Put beep.mp3 (or .wav/.aiff/.ogg) in %s

Configuration:
  Config file: %s

  Example config:
    exercise_seconds: 45
    rest_seconds: 15
    store:
      backend: sqlite
    sound:
      player: paplay
`, tmux.StatusOption, tmux.StatusOption, cfg.Sound.Dir, config.Path())
}

func runInteractive() {
	log, logFile := newLogger()
	defer logFile.Close()

	kv, workouts := openWorkouts(log)
	defer kv.Close()

	list := exercise.New(workouts, log)
	player := audio.New(cfg.Sound.Dir, cfg.Sound.File, cfg.Sound.Player, log)
	ctrl := session.New(session.Durations{
		Exercise: cfg.ExerciseSeconds,
		Rest:     cfg.RestSeconds,
	}, player, log)

	if mirror := startStatusMirror(log); mirror != nil {
		ctrl.Subscribe(mirror.Observe)
		defer mirror.Close()
	}

	var watcher *store.Watcher
	err := ui.Run(ui.Options{
		Controller:   ctrl,
		Exercises:    list,
		TickInterval: cfg.TickInterval,
		Log:          log,
	}, func(p *tea.Program) {
		w, err := store.Watch(workouts.Path(), func() {
			p.Send(ui.ExercisesChangedMsg{})
		}, log)
		if err != nil {
			log.Warn("live reload disabled", "err", err)
			return
		}
		watcher = w
	})
	if watcher != nil {
		watcher.Close()
	}
	if err != nil {
		log.Error("trainer exited", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func startStatusMirror(log *slog.Logger) *tmux.StatusMirror {
	if !cfg.Tmux.Status || !tmux.IsInsideTmux() {
		return nil
	}
	mgr, err := tmux.New()
	if err != nil {
		log.Debug("tmux unavailable", "err", err)
		return nil
	}
	name, err := mgr.CurrentSession()
	if err != nil {
		log.Debug("tmux session lookup", "err", err)
		return nil
	}
	return tmux.NewStatusMirror(mgr, name, log)
}

func openInTmux() {
	if !tmux.IsInsideTmux() {
		runInteractive()
		return
	}

	mgr, err := tmux.New()
	if err != nil {
		runInteractive()
		return
	}

	if !mgr.SessionExists(tmux.SessionName) {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error locating executable: %v\n", err)
			os.Exit(1)
		}
		wd, _ := os.Getwd()
		if err := mgr.CreateTrainerSession(tmux.SessionName, wd, exe); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating tmux session: %v\n", err)
			os.Exit(1)
		}
	}

	if err := mgr.SwitchToSession(tmux.SessionName); err != nil {
		fmt.Fprintf(os.Stderr, "Error switching to session: %v\n", err)
		os.Exit(1)
	}
}

func listExercises() {
	log, logFile := newLogger()
	defer logFile.Close()
	kv, workouts := openWorkouts(log)
	defer kv.Close()

	for _, name := range workouts.Load() {
		fmt.Println(name)
	}
}

func addExercise(name string) {
	log, logFile := newLogger()
	defer logFile.Close()
	kv, workouts := openWorkouts(log)
	defer kv.Close()

	ok, err := exercise.New(workouts, log).Add(name)
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: exercise name is empty")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Added %q.\n", strings.TrimSpace(name))
}

func removeExercise(name string) {
	log, logFile := newLogger()
	defer logFile.Close()
	kv, workouts := openWorkouts(log)
	defer kv.Close()

	list := exercise.New(workouts, log)
	if strings.TrimSpace(name) == "" {
		picked, err := ui.PickExercise(list.Names())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if picked == "" {
			return
		}
		name = picked
	}

	n, err := list.Remove(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d × %q.\n", n, strings.TrimSpace(name))
}

func clearExercises() {
	log, logFile := newLogger()
	defer logFile.Close()
	kv, workouts := openWorkouts(log)
	defer kv.Close()

	if err := workouts.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Exercises cleared.")
}

func openWorkouts(log *slog.Logger) (store.KV, *store.Workouts) {
	kv, err := store.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	return kv, store.NewWorkouts(kv, log)
}

// newLogger writes to the log file; the TUI owns the terminal
func newLogger() (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err == nil {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, opts)), f
		}
	}
	return slog.New(slog.DiscardHandler), io.NopCloser(nil)
}
