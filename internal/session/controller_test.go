package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type recordingNotifier struct {
	phases []Phase
}

func (r *recordingNotifier) NotifyPhaseChange(p Phase) {
	r.phases = append(r.phases, p)
}

var t0 = time.Date(2025, 7, 26, 9, 0, 0, 0, time.UTC)

func at(d float64) time.Time {
	return t0.Add(time.Duration(d * float64(time.Second)))
}

// TestConfigureDisplays verifies that every slider value lands in both
// display strings verbatim.
func TestConfigureDisplays(t *testing.T) {
	c := New(DefaultDurations(), nil, nil)
	for e := 1; e <= 60; e++ {
		for _, r := range []int{1, 7, 30, 60} {
			c.Configure(float64(e), float64(r))
			s := c.Snapshot()
			if s.ExerciseDisplay != fmt.Sprint(e) || s.RestDisplay != fmt.Sprint(r) {
				t.Fatalf("Configure(%d, %d) displays = %q/%q", e, r, s.ExerciseDisplay, s.RestDisplay)
			}
		}
	}
}

func TestConfigureTruncates(t *testing.T) {
	c := New(DefaultDurations(), nil, nil)
	c.Configure(12.9, 4.2)
	if got := c.Durations(); got != (Durations{Exercise: 12, Rest: 4}) {
		t.Errorf("Durations() = %+v, want 12/4", got)
	}
}

// TestConfigureWhileActive verifies the sliders are locked during a session.
func TestConfigureWhileActive(t *testing.T) {
	c := New(DefaultDurations(), nil, nil)
	c.Begin(2, t0)
	before := c.Snapshot()

	c.Configure(5, 5)

	if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
		t.Errorf("Configure while active changed state (-before +after):\n%s", diff)
	}
}

func TestBeginArmsExercisePhase(t *testing.T) {
	c := New(Durations{Exercise: 20, Rest: 5}, nil, nil)
	c.Begin(4, t0)

	s := c.Snapshot()
	if !s.Active || s.Phase != PhaseExercise {
		t.Fatalf("after Begin: active=%v phase=%v", s.Active, s.Phase)
	}
	if !s.Deadline.Equal(t0.Add(20 * time.Second)) {
		t.Errorf("deadline = %v, want t0+20s", s.Deadline)
	}
	if s.ExerciseIndex != 0 || s.ExerciseCount != 4 {
		t.Errorf("index/count = %d/%d, want 0/4", s.ExerciseIndex, s.ExerciseCount)
	}
	if s.RunID == "" {
		t.Error("expected a run id")
	}
}

func TestBeginWithoutExercises(t *testing.T) {
	c := New(DefaultDurations(), nil, nil)
	c.Begin(0, t0)

	c.Advance(at(31))
	s := c.Snapshot()
	if s.ExerciseIndex != -1 || s.HasExercise() {
		t.Errorf("index = %d, want -1 with no exercises", s.ExerciseIndex)
	}
	if s.Phase != PhaseRest || !s.Active {
		t.Errorf("phase=%v active=%v, want running Rest", s.Phase, s.Active)
	}
}

func TestTickInactiveIsNoop(t *testing.T) {
	c := New(DefaultDurations(), nil, nil)
	before := c.Snapshot()
	snap, expired := c.Tick(at(100))
	if expired {
		t.Error("inactive tick reported expiry")
	}
	if diff := cmp.Diff(before, snap); diff != "" {
		t.Errorf("inactive tick changed state:\n%s", diff)
	}
}

// TestTickUpdatesOnlyActiveDisplay verifies the rest display is left alone
// while exercising and vice versa.
func TestTickUpdatesOnlyActiveDisplay(t *testing.T) {
	c := New(Durations{Exercise: 10, Rest: 8}, nil, nil)
	c.Begin(1, t0)

	s, _ := c.Tick(at(3.5))
	if s.ExerciseDisplay != "6" || s.RestDisplay != "8" {
		t.Fatalf("exercise tick displays = %q/%q, want 6/8", s.ExerciseDisplay, s.RestDisplay)
	}

	c.Advance(at(10))
	s, _ = c.Tick(at(12.2))
	if s.ExerciseDisplay != "10" || s.RestDisplay != "5" {
		t.Errorf("rest tick displays = %q/%q, want 10/5", s.ExerciseDisplay, s.RestDisplay)
	}
}

func TestTickExpiryDoesNotToggle(t *testing.T) {
	n := &recordingNotifier{}
	c := New(Durations{Exercise: 2, Rest: 1}, n, nil)
	c.Begin(3, t0)

	s, expired := c.Tick(at(2))
	if !expired {
		t.Fatal("expected expiry at the deadline")
	}
	if s.Active || s.Remaining != 0 || s.Phase != PhaseExercise {
		t.Errorf("expired snapshot = active:%v remaining:%v phase:%v", s.Active, s.Remaining, s.Phase)
	}
	if len(n.phases) != 0 {
		t.Errorf("Tick notified %v; toggling belongs to the caller", n.phases)
	}
}

// TestAdvanceScenario walks the two-second/one-second cycle end to end.
func TestAdvanceScenario(t *testing.T) {
	n := &recordingNotifier{}
	c := New(DefaultDurations(), n, nil)
	c.Configure(2, 1)
	c.Begin(3, at(0))

	s := c.Advance(at(1))
	if s.ExerciseDisplay != "1" || s.Remaining != time.Second {
		t.Fatalf("t=1: display=%q remaining=%v", s.ExerciseDisplay, s.Remaining)
	}

	s = c.Advance(at(2.1))
	if s.ExerciseDisplay != "2" {
		t.Errorf("t=2.1: exercise display = %q, want 2", s.ExerciseDisplay)
	}
	if s.ExerciseIndex != 1 {
		t.Errorf("t=2.1: index = %d, want 1", s.ExerciseIndex)
	}
	if s.Phase != PhaseRest || !s.Active {
		t.Errorf("t=2.1: phase=%v active=%v, want running Rest", s.Phase, s.Active)
	}
	if !s.Deadline.Equal(at(3.1)) {
		t.Errorf("t=2.1: deadline = %v, want t+1s", s.Deadline.Sub(t0))
	}

	s = c.Advance(at(3.2))
	if s.RestDisplay != "1" {
		t.Errorf("t=3.2: rest display = %q, want 1", s.RestDisplay)
	}
	if s.Phase != PhaseExercise || !s.Active {
		t.Errorf("t=3.2: phase=%v active=%v, want running Exercise", s.Phase, s.Active)
	}
	if !s.Deadline.Equal(at(5.2)) {
		t.Errorf("t=3.2: deadline = %v, want t+2s", s.Deadline.Sub(t0))
	}
	if s.ExerciseIndex != 1 {
		t.Errorf("t=3.2: index = %d, want 1 (rest expiry must not advance)", s.ExerciseIndex)
	}

	if diff := cmp.Diff([]Phase{PhaseRest, PhaseExercise}, n.phases); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

// TestAdvancePublishesExpiryBeforeToggle verifies observers see the fully
// expired state before the next phase is armed.
func TestAdvancePublishesExpiryBeforeToggle(t *testing.T) {
	c := New(Durations{Exercise: 2, Rest: 1}, nil, nil)
	c.Begin(2, t0)

	var seen []Snapshot
	c.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	c.Advance(at(2.5))

	if len(seen) != 2 {
		t.Fatalf("published %d snapshots, want 2", len(seen))
	}
	expired, toggled := seen[0], seen[1]
	if expired.Active || expired.Phase != PhaseExercise || expired.ExerciseIndex != 1 {
		t.Errorf("first snapshot = active:%v phase:%v index:%d, want inactive Exercise index 1",
			expired.Active, expired.Phase, expired.ExerciseIndex)
	}
	if !toggled.Active || toggled.Phase != PhaseRest {
		t.Errorf("second snapshot = active:%v phase:%v, want running Rest", toggled.Active, toggled.Phase)
	}
}

func TestIndexWrap(t *testing.T) {
	tests := []struct {
		count int
		start int
		want  int
	}{
		{count: 1, start: 0, want: 0},
		{count: 3, start: 0, want: 1},
		{count: 3, start: 1, want: 2},
		{count: 3, start: 2, want: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.start, tt.count), func(t *testing.T) {
			c := New(Durations{Exercise: 1, Rest: 1}, nil, nil)
			c.Begin(tt.count, t0)
			c.index = tt.start

			c.Advance(at(1))
			if got := c.Snapshot().ExerciseIndex; got != tt.want {
				t.Errorf("index after exercise expiry = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestCycleRunsForever verifies the session never stops on its own, even
// after more rounds than there are exercises.
func TestCycleRunsForever(t *testing.T) {
	c := New(Durations{Exercise: 1, Rest: 1}, nil, nil)
	c.Begin(2, t0)

	now := t0
	for i := 0; i < 20; i++ {
		now = now.Add(time.Second)
		s := c.Advance(now)
		if !s.Active {
			t.Fatalf("round %d: session stopped", i)
		}
	}
	if got := c.Snapshot().ExerciseIndex; got != 0 {
		t.Errorf("index after 10 exercise rounds of 2 = %d, want 0", got)
	}
}

func TestReset(t *testing.T) {
	c := New(Durations{Exercise: 2, Rest: 1}, nil, nil)
	c.Begin(3, t0)
	c.Advance(at(2.5))
	c.Advance(at(3.0))

	c.Reset()
	s := c.Snapshot()
	if s.Active || s.Phase != PhaseExercise {
		t.Errorf("after Reset: active=%v phase=%v", s.Active, s.Phase)
	}
	if s.ExerciseDisplay != "2" || s.RestDisplay != "1" {
		t.Errorf("after Reset displays = %q/%q, want 2/1", s.ExerciseDisplay, s.RestDisplay)
	}
	if s.Remaining != 0 || s.Progress != 0 {
		t.Errorf("after Reset remaining=%v progress=%v, want zero", s.Remaining, s.Progress)
	}
	if s.ExerciseIndex != 1 {
		t.Errorf("Reset touched index: %d", s.ExerciseIndex)
	}

	c.Configure(9, 9)
	if c.Durations() != (Durations{Exercise: 9, Rest: 9}) {
		t.Error("Configure ignored after Reset")
	}
}

func TestProgressClamps(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		total     time.Duration
		want      float64
	}{
		{"negative", -3 * time.Second, 10 * time.Second, 0},
		{"zero", 0, 10 * time.Second, 0},
		{"half", 5 * time.Second, 10 * time.Second, 0.5},
		{"full", 10 * time.Second, 10 * time.Second, 1},
		{"over", 30 * time.Second, 10 * time.Second, 1},
		{"degenerate total", 5 * time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.remaining, tt.total); got != tt.want {
				t.Errorf("Progress(%v, %v) = %v, want %v", tt.remaining, tt.total, got, tt.want)
			}
		})
	}
}

func TestRemainingProgressDuringPhase(t *testing.T) {
	c := New(Durations{Exercise: 10, Rest: 4}, nil, nil)
	c.Begin(1, t0)
	c.Advance(at(2.5))
	if got := c.RemainingProgress(); got != 0.75 {
		t.Errorf("exercise progress = %v, want 0.75", got)
	}

	c.Advance(at(10))
	c.Advance(at(11))
	if got := c.RemainingProgress(); got != 0.75 {
		t.Errorf("rest progress = %v, want 0.75", got)
	}
}
