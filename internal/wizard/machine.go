package wizard

import (
	"fmt"

	"github.com/shotwright/shotwright/internal/session"
)

// Phase is the coarse wizard state.
type Phase int

const (
	PhaseConfiguring Phase = iota // editing one shot
	PhaseReviewing                // all shots complete, final look before submit
	PhaseSubmitting               // generation request handed to the backend
)

// Machine drives wizard navigation. Next is the only transition that
// validates; Previous always succeeds. The machine never touches the
// per-shot configuration tables, it only moves the cursor, so any amount
// of back-and-forth leaves the user's selections intact. Callers should
// reset transient view state (active tab, scroll position) whenever Seq
// changes.
type Machine struct {
	validator *Validator
	slots     []int // shot slots in scene order

	phase Phase
	index int // current position in slots while configuring
	seq   int // bumped on every completed transition

	// Errors from the last blocked Next, surfaced until the next transition
	// attempt.
	lastErrors []string
}

// NewMachine creates a machine positioned at the first shot.
func NewMachine(v *Validator, slots []int) *Machine {
	if len(slots) == 0 {
		panic("wizard: machine needs at least one shot")
	}
	return &Machine{validator: v, slots: slots}
}

// Phase returns the current wizard phase.
func (m *Machine) Phase() Phase { return m.phase }

// Seq returns the transition counter. It changes exactly when the wizard
// moves to a different step, which is the signal to reset transient UI
// state.
func (m *Machine) Seq() int { return m.seq }

// CurrentSlot returns the slot being configured. Panics outside the
// configuring phase, which would be a caller bug.
func (m *Machine) CurrentSlot() int {
	if m.phase != PhaseConfiguring {
		panic(fmt.Sprintf("wizard: CurrentSlot in phase %d", m.phase))
	}
	return m.slots[m.index]
}

// Index returns the zero-based position of the current shot.
func (m *Machine) Index() int { return m.index }

// Total returns the number of shots in the wizard.
func (m *Machine) Total() int { return len(m.slots) }

// Errors returns the validation errors from the last blocked transition.
func (m *Machine) Errors() []string { return m.lastErrors }

// Next validates the current shot against the session snapshot and, when
// clean, advances to the next shot or to review. When validation fails the
// machine stays put and the errors are retained for display.
func (m *Machine) Next(s *session.Session) ([]string, bool) {
	if m.phase != PhaseConfiguring {
		return nil, false
	}

	errs := m.validator.ValidateShot(s, m.CurrentSlot())
	if len(errs) > 0 {
		m.lastErrors = errs
		return errs, false
	}

	m.lastErrors = nil
	if m.index == len(m.slots)-1 {
		m.phase = PhaseReviewing
	} else {
		m.index++
	}
	m.seq++
	return nil, true
}

// Previous steps back without validation: to the prior shot, or from review
// back to the last shot. At the first shot it is a no-op.
func (m *Machine) Previous() bool {
	switch m.phase {
	case PhaseReviewing:
		m.phase = PhaseConfiguring
		m.index = len(m.slots) - 1
	case PhaseConfiguring:
		if m.index == 0 {
			return false
		}
		m.index--
	default:
		return false
	}
	m.lastErrors = nil
	m.seq++
	return true
}

// Jump moves directly to a shot by position, without validation. Used by
// the review screen's "edit this shot" affordance.
func (m *Machine) Jump(index int) bool {
	if m.phase == PhaseSubmitting || index < 0 || index >= len(m.slots) {
		return false
	}
	m.phase = PhaseConfiguring
	m.index = index
	m.lastErrors = nil
	m.seq++
	return true
}

// Generate moves from review to submitting. The actual generation call is
// the caller's job; the machine only records that the wizard is past the
// point of editing.
func (m *Machine) Generate() bool {
	if m.phase != PhaseReviewing {
		return false
	}
	m.phase = PhaseSubmitting
	m.seq++
	return true
}

// Reopen returns from submitting to review after a failed submission.
func (m *Machine) Reopen() bool {
	if m.phase != PhaseSubmitting {
		return false
	}
	m.phase = PhaseReviewing
	m.seq++
	return true
}
