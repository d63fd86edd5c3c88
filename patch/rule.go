package patch

// ByteIO is what a rule needs from the file it patches.
type ByteIO interface {
	// Equal reports whether the live bytes at off equal want.
	Equal(off int64, want []byte) (bool, error)
	// Write overwrites len(b) bytes at off. It must be durable on return.
	Write(off int64, b []byte) error
}

// Rule is a declared patch bound to one file.
type Rule interface {
	Name() string
	Kind() Kind
	// Classify recomputes the state from the live bytes. A non-nil error
	// always comes with StateUnknown and explains why.
	Classify() (State, error)
	// Spans lists the byte ranges the rule reads or writes.
	Spans() []Span
}

// NewRule binds spec to io, returning a *Toggle or *Union.
func NewRule(spec Spec, io ByteIO) (Rule, error) {
	if spec.Kind == KindUnion {
		u, err := NewUnion(spec, io)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	t, err := NewToggle(spec, io)
	if err != nil {
		return nil, err
	}
	return t, nil
}
