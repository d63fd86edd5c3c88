package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindIO            ErrKind = iota // file missing, unreadable, unwritable
	ErrKindOutOfRange                   // offset/length outside the file
	ErrKindUnrecognized                 // live bytes match no declared alternative
	ErrKindAmbiguous                    // toggle entries disagree on on/off
	ErrKindUnknownChoice                // union apply with an undeclared choice
	ErrKindConfig                       // malformed or inconsistent rule records
	ErrKindNotFound                     // missing file/rule name
	ErrKindType                         // rule exists but has the other kind
	ErrKindState                        // invalid operation for current state (e.g., closed)
	ErrKindPartial                      // multi-entry write failed partway
)

var kindNames = [...]string{
	ErrKindIO:            "io",
	ErrKindOutOfRange:    "out of range",
	ErrKindUnrecognized:  "unrecognized",
	ErrKindAmbiguous:     "ambiguous",
	ErrKindUnknownChoice: "unknown choice",
	ErrKindConfig:        "config",
	ErrKindNotFound:      "not found",
	ErrKindType:          "type mismatch",
	ErrKindState:         "state",
	ErrKindPartial:       "partial write",
}

func (k ErrKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This lets callers
// write errors.Is(err, types.ErrOutOfRange) for any out-of-range failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrIO indicates the target file could not be opened, read or written.
	ErrIO = &Error{Kind: ErrKindIO, Msg: "i/o failure"}
	// ErrOutOfRange indicates a window that does not fit inside the file.
	ErrOutOfRange = &Error{Kind: ErrKindOutOfRange, Msg: "offset out of range"}
	// ErrUnrecognized indicates live bytes that match no declared alternative.
	ErrUnrecognized = &Error{Kind: ErrKindUnrecognized, Msg: "bytes not recognized"}
	// ErrAmbiguous indicates toggle entries that disagree on the rule state.
	ErrAmbiguous = &Error{Kind: ErrKindAmbiguous, Msg: "on/off mismatch"}
	// ErrUnknownChoice indicates a union choice name absent from the rule.
	ErrUnknownChoice = &Error{Kind: ErrKindUnknownChoice, Msg: "unknown choice"}
	// ErrConfig indicates malformed rule records.
	ErrConfig = &Error{Kind: ErrKindConfig, Msg: "invalid configuration"}
	// ErrNotFound indicates a missing file or rule name.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTypeMismatch indicates a rule looked up as the wrong kind.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "rule has different kind"}
	// ErrClosed indicates use of a released window or target.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "use of closed file"}
	// ErrPartial indicates a multi-entry write that stopped partway.
	ErrPartial = &Error{Kind: ErrKindPartial, Msg: "partial write"}
)

// New builds an error of the given kind.
func New(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
