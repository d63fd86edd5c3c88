package main

import (
	"strings"

	"github.com/joshuapare/dllpatch/patch"
)

type ruleJSON struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	State   string   `json:"state"`
	Choice  string   `json:"choice,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type fileJSON struct {
	Name  string     `json:"name"`
	Path  string     `json:"path"`
	Rules []ruleJSON `json:"rules"`
}

func toRuleJSON(r patch.RuleReport) ruleJSON {
	out := ruleJSON{
		Name:    r.Name,
		Kind:    r.Kind.String(),
		State:   r.State.Status.String(),
		Choice:  r.State.Choice,
		Choices: r.Choices,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

func toFileJSON(fr patch.FileReport) fileJSON {
	out := fileJSON{Name: fr.Name, Path: fr.Path, Rules: make([]ruleJSON, 0, len(fr.Rules))}
	for _, r := range fr.Rules {
		out.Rules = append(out.Rules, toRuleJSON(r))
	}
	return out
}

// marker renders a checkbox for toggles and a filled radio button for
// unions. Unrecognized rules of either kind show [?].
func marker(r patch.RuleReport) string {
	switch {
	case !r.State.Known():
		return "[?]"
	case r.State.Status == patch.StatusOn:
		return "[x]"
	case r.State.Status == patch.StatusOff:
		return "[ ]"
	default:
		return "(*)"
	}
}

// describe renders one status line.
func describe(r patch.RuleReport) string {
	var b strings.Builder
	b.WriteString(r.State.String())
	if r.Err != nil {
		b.WriteString(": ")
		b.WriteString(r.Err.Error())
	}
	if len(r.Choices) > 0 {
		b.WriteString(" (choices: ")
		b.WriteString(strings.Join(r.Choices, ", "))
		b.WriteString(")")
	}
	return b.String()
}
