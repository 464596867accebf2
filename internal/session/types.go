package session

import (
	"strconv"
	"time"
)

// Phase is the half of the interval cycle the session is in
type Phase int

const (
	PhaseExercise Phase = iota
	PhaseRest
)

func (p Phase) String() string {
	if p == PhaseRest {
		return "Rest"
	}
	return "Exercise"
}

// Default durations used before the user touches the sliders
const (
	DefaultExerciseSeconds = 30
	DefaultRestSeconds     = 10
)

// Durations holds the configured length of each phase in whole seconds
type Durations struct {
	Exercise int
	Rest     int
}

// DefaultDurations returns the 30s/10s start-up configuration
func DefaultDurations() Durations {
	return Durations{Exercise: DefaultExerciseSeconds, Rest: DefaultRestSeconds}
}

// For returns the configured length of the given phase
func (d Durations) For(p Phase) time.Duration {
	if p == PhaseRest {
		return time.Duration(d.Rest) * time.Second
	}
	return time.Duration(d.Exercise) * time.Second
}

// Snapshot is an immutable view of the controller state, handed to the
// presentation layer after every command or tick.
type Snapshot struct {
	RunID           string
	Active          bool
	Phase           Phase
	Durations       Durations
	Remaining       time.Duration
	Deadline        time.Time
	Progress        float64
	ExerciseIndex   int // -1 when ExerciseCount is 0
	ExerciseCount   int
	ExerciseDisplay string
	RestDisplay     string
}

// Display returns the countdown text for the current phase
func (s Snapshot) Display() string {
	if s.Phase == PhaseRest {
		return s.RestDisplay
	}
	return s.ExerciseDisplay
}

// HasExercise reports whether ExerciseIndex points into the exercise list
func (s Snapshot) HasExercise() bool {
	return s.ExerciseIndex >= 0 && s.ExerciseIndex < s.ExerciseCount
}

// Notifier is told about every phase transition. Implementations must not
// block and must swallow their own failures.
type Notifier interface {
	NotifyPhaseChange(to Phase)
}

// Observer receives a snapshot each time the controller publishes one
type Observer func(Snapshot)

type nopNotifier struct{}

func (nopNotifier) NotifyPhaseChange(Phase) {}

func seconds(n int) string {
	return strconv.Itoa(n)
}
