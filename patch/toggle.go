package patch

import (
	"fmt"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// Toggle is an independent on/off rule made of one or more entries.
type Toggle struct {
	name    string
	entries []Entry
	io      ByteIO
}

// NewToggle binds a toggle spec to io.
func NewToggle(spec Spec, io ByteIO) (*Toggle, error) {
	if spec.Kind != KindToggle {
		return nil, types.New(types.ErrKindType, fmt.Sprintf("rule %q is a %s, not a toggle", spec.Name, spec.Kind), nil)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	c := spec.clone()
	return &Toggle{name: c.Name, entries: c.Entries, io: io}, nil
}

func (t *Toggle) Name() string { return t.name }

func (t *Toggle) Kind() Kind { return KindToggle }

// Entries returns a copy of the declared entries.
func (t *Toggle) Entries() []Entry {
	return Spec{Kind: KindToggle, Entries: t.entries}.clone().Entries
}

func (t *Toggle) Spans() []Span {
	return Spec{Kind: KindToggle, Entries: t.entries}.Spans()
}

// Classify walks the entries in declared order. It stops at the first entry
// that matches neither side (ErrUnrecognized) or contradicts the entries
// before it (ErrAmbiguous).
func (t *Toggle) Classify() (State, error) {
	v := verdictUnset
	for i, e := range t.entries {
		on, err := t.io.Equal(e.Offset, e.On)
		if err != nil {
			return StateUnknown, fmt.Errorf("patch %d at 0x%x: %w", i, e.Offset, err)
		}
		off := false
		if !on {
			if off, err = t.io.Equal(e.Offset, e.Off); err != nil {
				return StateUnknown, fmt.Errorf("patch %d at 0x%x: %w", i, e.Offset, err)
			}
		}
		if !on && !off {
			return StateUnknown, types.New(types.ErrKindUnrecognized,
				fmt.Sprintf("patch %d at 0x%x: neither on nor off", i, e.Offset), nil)
		}

		prev := v
		v = v.observe(on)
		if v == verdictConflict {
			side := "off"
			if on {
				side = "on"
			}
			return StateUnknown, types.New(types.ErrKindAmbiguous,
				fmt.Sprintf("patch %d at 0x%x is %s but earlier patches are %s", i, e.Offset, side, prev), nil)
		}
	}
	return v.state(), nil
}

// Enabled reports whether every entry holds its on bytes.
func (t *Toggle) Enabled() (bool, error) {
	st, err := t.Classify()
	if err != nil {
		return false, err
	}
	return st.Status == StatusOn, nil
}

// Apply writes the on or off bytes of every entry, in declared order. There
// is no rollback: if entry i fails after entries before it were written, the
// returned error is an ErrPartial wrapping the cause.
func (t *Toggle) Apply(on bool) error {
	for i, e := range t.entries {
		b := e.Off
		if on {
			b = e.On
		}
		if err := t.io.Write(e.Offset, b); err != nil {
			if i == 0 {
				return fmt.Errorf("rule %q: %w", t.name, err)
			}
			return types.New(types.ErrKindPartial, fmt.Sprintf(
				"rule %q: patch %d of %d at 0x%x failed after %d written",
				t.name, i, len(t.entries), e.Offset, i), err)
		}
	}
	return nil
}
