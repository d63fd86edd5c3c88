package patch

import (
	"fmt"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// Union is a mutually exclusive choice between byte patterns at one offset.
type Union struct {
	name    string
	offset  int64
	choices []Choice
	io      ByteIO
}

// NewUnion binds a union spec to io.
func NewUnion(spec Spec, io ByteIO) (*Union, error) {
	if spec.Kind != KindUnion {
		return nil, types.New(types.ErrKindType, fmt.Sprintf("rule %q is a %s, not a union", spec.Name, spec.Kind), nil)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	c := spec.clone()
	return &Union{name: c.Name, offset: c.Offset, choices: c.Choices, io: io}, nil
}

func (u *Union) Name() string { return u.name }

func (u *Union) Kind() Kind { return KindUnion }

// Offset returns the offset shared by all choices.
func (u *Union) Offset() int64 { return u.offset }

// Choices returns the choice names in declared order.
func (u *Union) Choices() []string {
	out := make([]string, len(u.choices))
	for i, c := range u.choices {
		out[i] = c.Name
	}
	return out
}

func (u *Union) Spans() []Span {
	return Spec{Kind: KindUnion, Offset: u.offset, Choices: u.choices}.Spans()
}

// Classify compares each choice, in declared order, against the live bytes
// at the offset. The first match wins.
func (u *Union) Classify() (State, error) {
	for _, c := range u.choices {
		ok, err := u.io.Equal(u.offset, c.Bytes)
		if err != nil {
			return StateUnknown, fmt.Errorf("choice %q at 0x%x: %w", c.Name, u.offset, err)
		}
		if ok {
			return Matched(c.Name), nil
		}
	}
	return StateUnknown, types.New(types.ErrKindUnrecognized,
		fmt.Sprintf("no choice matches the bytes at 0x%x", u.offset), nil)
}

// Apply writes the bytes of the named choice. An undeclared name fails with
// ErrUnknownChoice and writes nothing.
func (u *Union) Apply(choice string) error {
	for _, c := range u.choices {
		if c.Name != choice {
			continue
		}
		if err := u.io.Write(u.offset, c.Bytes); err != nil {
			return fmt.Errorf("rule %q: %w", u.name, err)
		}
		return nil
	}
	return types.New(types.ErrKindUnknownChoice,
		fmt.Sprintf("rule %q has no choice %q", u.name, choice), nil)
}
