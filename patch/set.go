package patch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// Set is every target of a session. Targets share no state; each owns its
// own file.
type Set struct {
	dir     string
	targets []*Target
	byName  map[string]*Target
}

// Open opens one target per file, at dir/<name><suffix>. If any target fails
// the ones already opened are closed before returning.
func Open(dir string, files []File, opts ...Option) (_ *Set, err error) {
	o := buildOptions(opts)

	s := &Set{
		dir:     dir,
		targets: make([]*Target, 0, len(files)),
		byName:  make(map[string]*Target, len(files)),
	}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	for _, f := range files {
		if f.Name == "" {
			return nil, types.New(types.ErrKindConfig, "file entry has no name", nil)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, types.New(types.ErrKindConfig, fmt.Sprintf("file %q declared twice", f.Name), nil)
		}
		path := filepath.Join(dir, f.Name+o.suffix)
		t, err := OpenTarget(path, f.Name, f.Rules, opts...)
		if err != nil {
			return nil, err
		}
		s.targets = append(s.targets, t)
		s.byName[f.Name] = t
	}
	return s, nil
}

// Dir returns the directory the targets were opened from.
func (s *Set) Dir() string { return s.dir }

// Targets returns the targets in config order.
func (s *Set) Targets() []*Target {
	out := make([]*Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Target looks up a target by config name.
func (s *Set) Target(name string) (*Target, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, types.New(types.ErrKindNotFound, fmt.Sprintf("no file %q", name), nil)
	}
	return t, nil
}

// ValidateAll validates every target. Files whose rules were all recognized
// are omitted, so an empty map means success.
func (s *Set) ValidateAll() map[string][]string {
	out := make(map[string][]string)
	for _, t := range s.targets {
		if msgs := t.Validate(); len(msgs) > 0 {
			out[t.name] = msgs
		}
	}
	return out
}

// Problems returns every unrecognized rule across all targets, in config
// order.
func (s *Set) Problems() []Problem {
	var out []Problem
	for _, t := range s.targets {
		out = append(out, t.Check()...)
	}
	return out
}

// Close closes every target and joins their errors.
func (s *Set) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, t := range s.targets {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
