package patch

// Status is the outcome of classifying a rule against live bytes.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusOn
	StatusOff
	StatusMatched
)

func (s Status) String() string {
	switch s {
	case StatusOn:
		return "on"
	case StatusOff:
		return "off"
	case StatusMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// State is the classification of a rule. Choice is set only when Status is
// StatusMatched. States are computed on demand and never cached.
type State struct {
	Status Status
	Choice string
}

var (
	StateUnknown = State{Status: StatusUnknown}
	StateOn      = State{Status: StatusOn}
	StateOff     = State{Status: StatusOff}
)

// Matched returns the state of a union whose live bytes equal choice.
func Matched(choice string) State {
	return State{Status: StatusMatched, Choice: choice}
}

// Known reports whether the live bytes were recognized.
func (s State) Known() bool { return s.Status != StatusUnknown }

func (s State) String() string {
	switch s.Status {
	case StatusOn:
		return "enabled"
	case StatusOff:
		return "disabled"
	case StatusMatched:
		return "has " + s.Choice
	default:
		return "not found"
	}
}

// verdict accumulates the entries of a toggle rule:
//
//	unset -> on | off -> conflict
//
// The first recognized entry fixes on or off; any later entry on the other
// side moves to conflict, which is terminal.
type verdict uint8

const (
	verdictUnset verdict = iota
	verdictOn
	verdictOff
	verdictConflict
)

func (v verdict) observe(on bool) verdict {
	next := verdictOff
	if on {
		next = verdictOn
	}
	switch v {
	case verdictUnset:
		return next
	case next:
		return v
	default:
		return verdictConflict
	}
}

func (v verdict) state() State {
	switch v {
	case verdictOn:
		return StateOn
	case verdictOff:
		return StateOff
	default:
		return StateUnknown
	}
}

func (v verdict) String() string {
	switch v {
	case verdictOn:
		return "on"
	case verdictOff:
		return "off"
	case verdictConflict:
		return "conflict"
	default:
		return "unset"
	}
}
