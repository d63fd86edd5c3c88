package patch

// RuleReport is the current state of one rule, as seen by a presentation
// layer.
type RuleReport struct {
	Name    string
	Kind    Kind
	State   State
	Choices []string // union only
	Err     error    // set when State is unknown
}

// FileReport groups the rule reports of one target.
type FileReport struct {
	Name  string
	Path  string
	Rules []RuleReport
}

// Report classifies every rule of the target.
func (t *Target) Report() FileReport {
	fr := FileReport{Name: t.name, Path: t.Path(), Rules: make([]RuleReport, 0, len(t.rules))}
	for _, r := range t.rules {
		fr.Rules = append(fr.Rules, reportRule(r))
	}
	return fr
}

// Report classifies every rule of every target, in config order.
func (s *Set) Report() []FileReport {
	out := make([]FileReport, 0, len(s.targets))
	for _, t := range s.targets {
		out = append(out, t.Report())
	}
	return out
}

func reportRule(r Rule) RuleReport {
	st, err := r.Classify()
	rr := RuleReport{Name: r.Name(), Kind: r.Kind(), State: st, Err: err}
	if u, ok := r.(*Union); ok {
		rr.Choices = u.Choices()
	}
	return rr
}
