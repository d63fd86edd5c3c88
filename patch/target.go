package patch

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/dllpatch/internal/mmfile"
	"github.com/joshuapare/dllpatch/pkg/types"
)

// Target is one opened file and the ordered rules that apply to it. It owns
// the file handle from OpenTarget until Close.
type Target struct {
	name  string
	win   *mmfile.Window
	rules []Rule
	index map[string]Rule
	log   *slog.Logger
}

// Problem is a rule whose live bytes were not recognized.
type Problem struct {
	File string
	Rule string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("%q not found: %v", p.Rule, p.Err)
}

// OpenTarget opens path read-write and binds specs to it. Every spec is
// validated and every byte span is checked against the file size; any
// failure is fatal and releases the file before returning.
func OpenTarget(path, name string, specs []Spec, opts ...Option) (_ *Target, err error) {
	o := buildOptions(opts)

	seen := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: %w", name, configError(s.Name, "declared twice"))
		}
		seen[s.Name] = struct{}{}
	}

	win, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	t := &Target{
		name:  name,
		win:   win,
		rules: make([]Rule, 0, len(specs)),
		index: make(map[string]Rule, len(specs)),
		log:   o.logger.With("file", name),
	}
	defer func() {
		if err != nil {
			_ = t.Close()
		}
	}()

	for _, s := range specs {
		r, err := NewRule(s, t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, sp := range r.Spans() {
			if !win.Contains(sp.Off, sp.Len) {
				return nil, types.New(types.ErrKindOutOfRange, fmt.Sprintf(
					"%s: rule %q: %d bytes at 0x%x exceed %s (%d bytes)",
					name, s.Name, sp.Len, sp.Off, path, win.Size()), nil)
			}
		}
		t.rules = append(t.rules, r)
		t.index[s.Name] = r
	}

	t.log.Debug("target opened", "path", path, "size", win.Size(), "rules", len(t.rules), "mapped", win.Mapped())
	return t, nil
}

// Name returns the config key of the target.
func (t *Target) Name() string { return t.name }

// Path returns the file path.
func (t *Target) Path() string { return t.win.Path() }

// Size returns the file size in bytes.
func (t *Target) Size() int64 { return t.win.Size() }

// Rules returns the rules in declared order.
func (t *Target) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Rule looks up a rule by name.
func (t *Target) Rule(name string) (Rule, error) {
	r, ok := t.index[name]
	if !ok {
		return nil, types.New(types.ErrKindNotFound, fmt.Sprintf("%s has no rule %q", t.name, name), nil)
	}
	return r, nil
}

// Toggle looks up a toggle rule by name.
func (t *Target) Toggle(name string) (*Toggle, error) {
	r, err := t.Rule(name)
	if err != nil {
		return nil, err
	}
	tg, ok := r.(*Toggle)
	if !ok {
		return nil, types.New(types.ErrKindType, fmt.Sprintf("%s: rule %q is a %s", t.name, name, r.Kind()), nil)
	}
	return tg, nil
}

// Union looks up a union rule by name.
func (t *Target) Union(name string) (*Union, error) {
	r, err := t.Rule(name)
	if err != nil {
		return nil, err
	}
	u, ok := r.(*Union)
	if !ok {
		return nil, types.New(types.ErrKindType, fmt.Sprintf("%s: rule %q is a %s", t.name, name, r.Kind()), nil)
	}
	return u, nil
}

// Check classifies every rule and returns one Problem per unrecognized rule.
// All rules are evaluated even when earlier ones fail.
func (t *Target) Check() []Problem {
	var problems []Problem
	for _, r := range t.rules {
		st, err := r.Classify()
		if err == nil && st.Known() {
			t.log.Debug(fmt.Sprintf("%q is %s", r.Name(), st), "rule", r.Name(), "state", st.String())
			continue
		}
		if err == nil {
			err = types.ErrUnrecognized
		}
		t.log.Warn("rule not recognized", "rule", r.Name(), "error", err)
		problems = append(problems, Problem{File: t.name, Rule: r.Name(), Err: err})
	}
	return problems
}

// Validate returns one message per unrecognized rule. An empty result means
// every rule matched a declared state. It never fails: the caller decides how
// to surface the messages.
func (t *Target) Validate() []string {
	problems := t.Check()
	if len(problems) == 0 {
		return nil
	}
	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.String()
	}
	return msgs
}

// Equal reports whether the live bytes at off equal want.
func (t *Target) Equal(off int64, want []byte) (bool, error) {
	return t.win.Equal(off, want)
}

// Read returns a copy of n bytes at off.
func (t *Target) Read(off int64, n int) ([]byte, error) {
	return t.win.Read(off, n)
}

// Write overwrites bytes at off, flushes them, and logs the mutation.
func (t *Target) Write(off int64, b []byte) error {
	if err := t.win.Write(off, b); err != nil {
		t.log.Error("write failed", "offset", off, "bytes", fmt.Sprintf("% x", b), "error", err)
		return err
	}
	t.log.Info("patched", "offset", fmt.Sprintf("0x%x", off), "bytes", fmt.Sprintf("% x", b))
	return nil
}

// Close flushes and releases the file. It is safe to call more than once.
func (t *Target) Close() error {
	if t == nil || t.win == nil {
		return nil
	}
	return t.win.Close()
}
