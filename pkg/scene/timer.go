package scene

// TimerState is the tri-state lifecycle of a timer. Stopping resets elapsed
// time; pausing keeps it.
type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
	TimerPaused
)

func (s TimerState) String() string {
	switch s {
	case TimerStopped:
		return "stopped"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	}
	return "unknown"
}

// Timer executes an action list once its running time reaches its duration.
// Timers are journaled on the world and advanced once per tick; executing
// the fired actions is the session's job, so the model stays free of effect
// dispatch.
type Timer struct {
	ID       string
	Duration float64

	// Room is the timer's owner, used to suppress messages when the room is
	// not foregrounded. Effects always apply.
	Room *Room

	Actions []*Combination

	state   TimerState
	elapsed float64
}

// State returns the timer's current state.
func (t *Timer) State() TimerState {
	return t.state
}

// Elapsed returns the accumulated running time in seconds.
func (t *Timer) Elapsed() float64 {
	return t.elapsed
}

// Start sets the timer running. Elapsed time is kept, so Start after Pause
// resumes.
func (t *Timer) Start() {
	t.state = TimerRunning
}

// Stop halts the timer and resets elapsed time.
func (t *Timer) Stop() {
	t.state = TimerStopped
	t.elapsed = 0
}

// Pause halts the timer without resetting elapsed time.
func (t *Timer) Pause() {
	if t.state == TimerRunning {
		t.state = TimerPaused
	}
}

// Advance accumulates dt while running. When the duration is reached it
// returns the action list in stable descending-priority order and stops;
// otherwise it returns nil.
func (t *Timer) Advance(dt float64) []*Combination {
	if t.state != TimerRunning {
		return nil
	}

	t.elapsed += dt
	if t.elapsed < t.Duration {
		return nil
	}

	t.Stop()
	return SortedByPriority(t.Actions)
}
