package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Controller runs the exercise/rest countdown. It is owned by a single
// caller (the UI event loop) and is not safe for concurrent use.
type Controller struct {
	durations Durations
	notifier  Notifier
	log       *slog.Logger
	observers []Observer

	runID     string
	active    bool
	phase     Phase
	deadline  time.Time
	remaining time.Duration
	index     int
	count     int

	exerciseDisplay string
	restDisplay     string
}

// New creates an inactive controller with the given durations. A nil
// notifier or logger is replaced with a no-op.
func New(d Durations, notifier Notifier, log *slog.Logger) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		durations: d,
		notifier:  notifier,
		log:       log,
		index:     -1,
	}
	c.exerciseDisplay = seconds(d.Exercise)
	c.restDisplay = seconds(d.Rest)
	return c
}

// Subscribe registers an observer for published snapshots
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Configure replaces the phase durations. Fractional seconds are
// truncated; callers are expected to clamp. Ignored while active.
func (c *Controller) Configure(exerciseSeconds, restSeconds float64) {
	if c.active {
		return
	}
	c.durations = Durations{Exercise: int(exerciseSeconds), Rest: int(restSeconds)}
	c.exerciseDisplay = seconds(c.durations.Exercise)
	c.restDisplay = seconds(c.durations.Rest)
	c.publish()
}

// Begin starts a fresh session in the Exercise phase with the exercise
// index rewound to the first entry.
func (c *Controller) Begin(exerciseCount int, now time.Time) {
	c.runID = uuid.NewString()
	c.phase = PhaseExercise
	c.count = max(0, exerciseCount)
	c.index = -1
	if c.count > 0 {
		c.index = 0
	}
	c.log.Info("session started",
		"run", c.runID,
		"exercise_seconds", c.durations.Exercise,
		"rest_seconds", c.durations.Rest,
		"exercises", c.count)
	c.Start(now)
}

// Start arms the countdown for the current phase
func (c *Controller) Start(now time.Time) {
	c.active = true
	c.remaining = c.durations.For(c.phase)
	c.deadline = now.Add(c.remaining)
	c.publish()
}

// ToggleMode switches to the other phase, notifies, and restarts the countdown
func (c *Controller) ToggleMode(now time.Time) {
	if c.phase == PhaseExercise {
		c.phase = PhaseRest
	} else {
		c.phase = PhaseExercise
	}
	c.log.Debug("phase change", "run", c.runID, "phase", c.phase, "index", c.index)
	c.notifier.NotifyPhaseChange(c.phase)
	c.Start(now)
}

// Reset stops the session and returns to setup
func (c *Controller) Reset() {
	if c.active {
		c.log.Info("session exited", "run", c.runID)
	}
	c.active = false
	c.phase = PhaseExercise
	c.remaining = 0
	c.deadline = time.Time{}
	c.exerciseDisplay = seconds(c.durations.Exercise)
	c.restDisplay = seconds(c.durations.Rest)
	c.publish()
}

// Tick recomputes the countdown at now. It reports expired=true when the
// current phase ran out; the caller must then call ToggleMode once the
// returned snapshot has been handled. Tick itself never toggles.
func (c *Controller) Tick(now time.Time) (Snapshot, bool) {
	if !c.active {
		return c.Snapshot(), false
	}

	remaining := c.deadline.Sub(now)
	if remaining > 0 {
		c.remaining = remaining
		display := seconds(int(remaining / time.Second))
		if c.phase == PhaseRest {
			c.restDisplay = display
		} else {
			c.exerciseDisplay = display
		}
		return c.Snapshot(), false
	}

	c.active = false
	c.remaining = 0
	if c.phase == PhaseRest {
		c.restDisplay = seconds(c.durations.Rest)
	} else {
		c.exerciseDisplay = seconds(c.durations.Exercise)
		c.advanceIndex()
	}
	return c.Snapshot(), true
}

// Advance runs one tick and, on expiry, publishes the expired state before
// toggling into the next phase.
func (c *Controller) Advance(now time.Time) Snapshot {
	snap, expired := c.Tick(now)
	if !expired {
		if snap.Active {
			c.publish()
		}
		return snap
	}
	c.publish()
	c.ToggleMode(now)
	return c.Snapshot()
}

func (c *Controller) advanceIndex() {
	if c.count == 0 {
		return
	}
	if c.index >= c.count-1 {
		c.index = 0
	} else {
		c.index++
	}
}

// RemainingProgress is the fraction of the current phase still to run
func (c *Controller) RemainingProgress() float64 {
	return Progress(c.remaining, c.durations.For(c.phase))
}

// Progress returns remaining/total clamped to [0, 1]
func Progress(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(remaining)/float64(total), 0), 1)
}

// Active reports whether a countdown is running
func (c *Controller) Active() bool {
	return c.active
}

// Durations returns the configured phase lengths
func (c *Controller) Durations() Durations {
	return c.durations
}

// Snapshot returns the current observable state
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		RunID:           c.runID,
		Active:          c.active,
		Phase:           c.phase,
		Durations:       c.durations,
		Remaining:       c.remaining,
		Deadline:        c.deadline,
		Progress:        c.RemainingProgress(),
		ExerciseIndex:   c.index,
		ExerciseCount:   c.count,
		ExerciseDisplay: c.exerciseDisplay,
		RestDisplay:     c.restDisplay,
	}
}

func (c *Controller) publish() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, o := range c.observers {
		o(snap)
	}
}
