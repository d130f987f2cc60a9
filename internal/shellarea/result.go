package shellarea

import "fmt"

// Outcome classifies what an operation actually did.
type Outcome int

const (
	// OutcomeApplied means at least one state change was carried out and no
	// step failed.
	OutcomeApplied Outcome = iota
	// OutcomeSkipped means there was nothing to do.
	OutcomeSkipped
	// OutcomeNoHandle means the taskbar window was absent.
	OutcomeNoHandle
	// OutcomeFailed means a native call failed; Err carries the details.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoHandle:
		return "no-handle"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Mode records which toggle mechanism ToggleVisibility chose.
type Mode int

const (
	ModeNone Mode = iota
	// ModeWorkArea toggles only the work area (a maximized window is present).
	ModeWorkArea
	// ModeDesktop toggles only the taskbar's OS visibility.
	ModeDesktop
)

func (m Mode) String() string {
	switch m {
	case ModeWorkArea:
		return "work-area"
	case ModeDesktop:
		return "desktop"
	default:
		return "none"
	}
}

// Result reports the path an operation took. Operations never return an
// error to the caller; Err is informational.
type Result struct {
	Op      string
	Outcome Outcome
	Mode    Mode
	Err     error
}

// OK reports whether the operation neither failed nor lacked a handle.
func (r Result) OK() bool {
	return r.Outcome == OutcomeApplied || r.Outcome == OutcomeSkipped
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", r.Op, r.Outcome, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Op, r.Outcome)
}
