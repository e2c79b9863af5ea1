package hunt

import "fmt"

// DefaultWaypoints is the number of waypoints in the shipped story.
const DefaultWaypoints = 5

// RejectReason says why a scan was not accepted.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonUnparseable
	ReasonWrongTarget
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnparseable:
		return "unparseable"
	case ReasonWrongTarget:
		return "wrong target"
	default:
		return fmt.Sprintf("RejectReason(%d)", int(r))
	}
}

// Decision is the result of validating one scan.
type Decision struct {
	Accepted bool
	Next     int
	Reason   RejectReason
	// Target is the value the payload encoded, set for WrongTarget.
	Target int
}

// Accept is a decision that moves progress to next.
func Accept(next int) Decision { return Decision{Accepted: true, Next: next} }

// Reject is a decision that leaves progress unchanged.
func Reject(reason RejectReason) Decision { return Decision{Reason: reason} }

func (d Decision) String() string {
	if d.Accepted {
		return fmt.Sprintf("accepted(%d)", d.Next)
	}
	return fmt.Sprintf("rejected(%s)", d.Reason)
}

// Machine is the linear progress state machine. States are 0..Waypoints,
// 0 is "not started" and Waypoints is terminal.
type Machine struct {
	Waypoints int
}

// NewMachine returns a machine with the given number of waypoints. A
// non-positive count falls back to DefaultWaypoints.
func NewMachine(waypoints int) Machine {
	if waypoints <= 0 {
		waypoints = DefaultWaypoints
	}
	return Machine{Waypoints: waypoints}
}

// Terminal reports whether progress is the final state.
func (m Machine) Terminal(progress int) bool { return progress >= m.Waypoints }

// Valid reports whether progress is a state of the machine.
func (m Machine) Valid(progress int) bool { return progress >= 0 && progress <= m.Waypoints }

// Validate decides whether raw advances a user standing at current. The only
// accepted payload encodes current+1; at the terminal state nothing is
// accepted.
func (m Machine) Validate(raw string, current int) Decision {
	target, err := ParsePayload(raw)
	if err != nil {
		return Reject(ReasonUnparseable)
	}
	if m.Terminal(current) || target != current+1 {
		d := Reject(ReasonWrongTarget)
		d.Target = target
		return d
	}
	return Accept(target)
}
