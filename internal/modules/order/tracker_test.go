// README: Order tracker tests (steps, display gate, auto-advance, countdown).
package order

import (
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/yksu0/GoTawee/internal/schedule"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, cfg Config) (*Tracker, *schedule.Fake, *[]Snapshot) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	clock := schedule.NewFake(epoch)
	var seen []Snapshot
	tr := NewTracker(cfg, clock, logger, func(s Snapshot) { seen = append(seen, s) })
	t.Cleanup(tr.Stop)
	return tr, clock, &seen
}

func TestStepProgress(t *testing.T) {
	want := map[Step]int{StepPlaced: 0, StepPreparing: 25, StepOnTheWay: 60, StepDelivered: 100}
	prev := -1
	for s := StepPlaced; s <= StepDelivered; s++ {
		if got := s.Progress(); got != want[s] {
			t.Errorf("%s progress = %d, want %d", s, got, want[s])
		}
		if s.Progress() < prev {
			t.Errorf("progress decreased at %s", s)
		}
		prev = s.Progress()
	}
}

func TestTracker_InitialSnapshot(t *testing.T) {
	tr, _, _ := newTestTracker(t, DefaultConfig())
	snap := tr.Snapshot()

	if snap.Index != 1 || snap.Step != "preparing" || snap.Progress != 25 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if snap.ShowDriver || snap.Courier != nil {
		t.Errorf("driver must be hidden while preparing")
	}
	if snap.EstimatedTime != "28 minutes" {
		t.Errorf("EstimatedTime = %q", snap.EstimatedTime)
	}
	wantStates := []StepState{StateCompleted, StateActive, StatePending, StatePending}
	for i, e := range snap.Timeline {
		if e.State != wantStates[i] {
			t.Errorf("timeline[%d] = %s, want %s", i, e.State, wantStates[i])
		}
	}
}

func TestTracker_JumpShowsDriverFromOnTheWay(t *testing.T) {
	tests := []struct {
		step       Step
		showDriver bool
		title      string
	}{
		{StepPlaced, false, "Order Placed"},
		{StepPreparing, false, "Preparing Your Order"},
		{StepOnTheWay, true, "On the Way"},
		{StepDelivered, true, "Order Delivered!"},
	}
	tr, _, _ := newTestTracker(t, DefaultConfig())
	for _, tt := range tests {
		snap, err := tr.Jump(tt.step)
		if err != nil {
			t.Fatalf("jump %s: %v", tt.step, err)
		}
		if snap.ShowDriver != tt.showDriver || snap.Title != tt.title {
			t.Errorf("jump %s: showDriver=%v title=%q", tt.step, snap.ShowDriver, snap.Title)
		}
		if tt.showDriver && (snap.Courier == nil || snap.Courier.Name != "Miguel Santos") {
			t.Errorf("jump %s: expected courier details", tt.step)
		}
	}

	// jumping backwards is allowed
	if snap, _ := tr.Jump(StepPlaced); snap.Progress != 0 {
		t.Errorf("expected to jump back to placed, got %+v", snap)
	}
}

func TestTracker_JumpRejectsOutOfRange(t *testing.T) {
	tr, _, _ := newTestTracker(t, DefaultConfig())
	for _, s := range []Step{-1, 4, 99} {
		if _, err := tr.Jump(s); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("Jump(%d) error = %v, want ErrInvalidStep", s, err)
		}
	}
	if tr.Snapshot().Index != 1 {
		t.Errorf("invalid jump must not change step")
	}
}

func TestTracker_AdvanceOneStepAtATime(t *testing.T) {
	tr, _, _ := newTestTracker(t, DefaultConfig())

	for want := 2; want <= 3; want++ {
		snap, err := tr.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if snap.Index != want {
			t.Fatalf("index = %d, want %d", snap.Index, want)
		}
	}
	if _, err := tr.Advance(); !errors.Is(err, ErrDelivered) {
		t.Fatalf("expected ErrDelivered, got %v", err)
	}
}

func TestTracker_AutoAdvanceStopsAtDelivered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialStep = StepPlaced
	tr, clock, seen := newTestTracker(t, cfg)
	tr.StartAutoAdvance()

	clock.Advance(9 * time.Second)
	if tr.Snapshot().Index != 0 {
		t.Fatalf("advanced too early")
	}

	var progress []int
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		progress = append(progress, tr.Snapshot().Progress)
	}

	want := []int{25, 60, 100, 100, 100}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress = %v, want %v", progress, want)
		}
	}
	if clock.Pending() != 0 {
		t.Errorf("auto-advance timer still pending after delivery")
	}
	if len(*seen) != 3 {
		t.Errorf("expected 3 step notifications, got %d", len(*seen))
	}
}

func TestTracker_Countdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CountdownStart = 3
	tr, clock, _ := newTestTracker(t, cfg)
	tr.StartCountdown()

	wants := []string{"2 minutes", "1 minute", "Arriving soon!"}
	for _, want := range wants {
		clock.Advance(time.Minute)
		if got := tr.Snapshot().EstimatedTime; got != want {
			t.Fatalf("EstimatedTime = %q, want %q", got, want)
		}
	}
	if clock.Pending() != 0 {
		t.Errorf("countdown timer still pending at zero")
	}
	clock.Advance(10 * time.Minute)
	if tr.Snapshot().MinutesRemaining != 0 {
		t.Errorf("countdown went below zero")
	}
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("on-the-way")
	if err != nil || s != StepOnTheWay {
		t.Fatalf("ParseStep() = %v, %v", s, err)
	}
	if _, err := ParseStep("lost"); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := map[int]string{28: "28 minutes", 2: "2 minutes", 1: "1 minute", 0: "Arriving soon!", -1: "Arriving soon!"}
	for in, want := range cases {
		if got := FormatCountdown(in); got != want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}
