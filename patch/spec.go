package patch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// Kind is the variant of a rule.
type Kind uint8

const (
	KindToggle Kind = iota
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindUnion:
		return "union"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind maps a config type marker to a Kind. An empty marker means toggle.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "toggle", "checkbox":
		return KindToggle, nil
	case "union", "radio":
		return KindUnion, nil
	default:
		return 0, types.New(types.ErrKindConfig, fmt.Sprintf("unknown rule type %q", s), nil)
	}
}

// Entry is one byte window of a toggle rule.
type Entry struct {
	Offset int64
	On     []byte
	Off    []byte
}

// Choice is one alternative of a union rule.
type Choice struct {
	Name  string
	Bytes []byte
}

// Spec is a parsed rule record. Toggle specs use Entries; union specs use
// Offset and Choices.
type Spec struct {
	Name    string
	Kind    Kind
	Entries []Entry

	Offset  int64
	Choices []Choice
}

// File is the ordered rule list of one target file. Name is the config key,
// without the file suffix.
type File struct {
	Name  string
	Rules []Spec
}

// Span is a byte range inside a target file.
type Span struct {
	Off int64
	Len int
}

// End returns the offset one past the span.
func (s Span) End() int64 { return s.Off + int64(s.Len) }

// Validate checks the shape invariants of a spec: equal on/off lengths for
// every toggle entry, equal and pairwise distinct patterns for union choices.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return configError("", "rule has no name")
	}
	switch s.Kind {
	case KindToggle:
		return s.validateToggle()
	case KindUnion:
		return s.validateUnion()
	default:
		return configError(s.Name, fmt.Sprintf("unknown kind %d", s.Kind))
	}
}

func (s Spec) validateToggle() error {
	if len(s.Entries) == 0 {
		return configError(s.Name, "toggle has no patches")
	}
	for i, e := range s.Entries {
		switch {
		case e.Offset < 0:
			return configError(s.Name, fmt.Sprintf("patch %d: negative offset %d", i, e.Offset))
		case len(e.On) == 0:
			return configError(s.Name, fmt.Sprintf("patch %d: empty on bytes", i))
		case len(e.On) != len(e.Off):
			return configError(s.Name, fmt.Sprintf(
				"patch %d at 0x%x: on is %d bytes but off is %d bytes", i, e.Offset, len(e.On), len(e.Off)))
		case bytes.Equal(e.On, e.Off):
			return configError(s.Name, fmt.Sprintf("patch %d at 0x%x: on and off bytes are identical", i, e.Offset))
		}
	}
	return nil
}

func (s Spec) validateUnion() error {
	if s.Offset < 0 {
		return configError(s.Name, fmt.Sprintf("negative offset %d", s.Offset))
	}
	if len(s.Choices) == 0 {
		return configError(s.Name, "union has no choices")
	}
	width := len(s.Choices[0].Bytes)
	seen := make(map[string]struct{}, len(s.Choices))
	for i, c := range s.Choices {
		if strings.TrimSpace(c.Name) == "" {
			return configError(s.Name, fmt.Sprintf("choice %d has no name", i))
		}
		if _, dup := seen[c.Name]; dup {
			return configError(s.Name, fmt.Sprintf("duplicate choice %q", c.Name))
		}
		seen[c.Name] = struct{}{}
		if len(c.Bytes) == 0 {
			return configError(s.Name, fmt.Sprintf("choice %q has no bytes", c.Name))
		}
		if len(c.Bytes) != width {
			return configError(s.Name, fmt.Sprintf(
				"choice %q is %d bytes but %q is %d bytes", c.Name, len(c.Bytes), s.Choices[0].Name, width))
		}
		for _, prev := range s.Choices[:i] {
			if bytes.Equal(prev.Bytes, c.Bytes) {
				return configError(s.Name, fmt.Sprintf("choices %q and %q have the same bytes", prev.Name, c.Name))
			}
		}
	}
	return nil
}

// Spans returns every byte range the spec reads or writes.
func (s Spec) Spans() []Span {
	switch s.Kind {
	case KindToggle:
		out := make([]Span, 0, len(s.Entries))
		for _, e := range s.Entries {
			out = append(out, Span{Off: e.Offset, Len: len(e.On)})
		}
		return out
	case KindUnion:
		out := make([]Span, 0, len(s.Choices))
		for _, c := range s.Choices {
			out = append(out, Span{Off: s.Offset, Len: len(c.Bytes)})
		}
		return out
	}
	return nil
}

func (s Spec) clone() Spec {
	out := Spec{Name: s.Name, Kind: s.Kind, Offset: s.Offset}
	if len(s.Entries) > 0 {
		out.Entries = make([]Entry, len(s.Entries))
		for i, e := range s.Entries {
			out.Entries[i] = Entry{Offset: e.Offset, On: bytes.Clone(e.On), Off: bytes.Clone(e.Off)}
		}
	}
	if len(s.Choices) > 0 {
		out.Choices = make([]Choice, len(s.Choices))
		for i, c := range s.Choices {
			out.Choices[i] = Choice{Name: c.Name, Bytes: bytes.Clone(c.Bytes)}
		}
	}
	return out
}

func configError(rule, msg string) error {
	if rule != "" {
		msg = fmt.Sprintf("rule %q: %s", rule, msg)
	}
	return types.New(types.ErrKindConfig, msg, nil)
}
