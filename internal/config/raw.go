package config

import (
	"fmt"

	"github.com/joshuapare/dllpatch/patch"
	"github.com/joshuapare/dllpatch/pkg/types"
)

// rawFile, rawRule and rawPatch are the syntax-independent shape shared by
// the YAML and TOML decoders. loc is a human-readable position.
type rawFile struct {
	name  string
	loc   string
	rules []rawRule
}

type rawRule struct {
	loc       string
	name      string
	typ       string
	offset    int64
	hasOffset bool
	patches   []rawPatch
}

type rawPatch struct {
	loc       string
	name      string
	offset    int64
	hasOffset bool
	on        []byte
	off       []byte
	bytes     []byte
}

func build(raw []rawFile) ([]patch.File, error) {
	seen := make(map[string]string, len(raw))
	out := make([]patch.File, 0, len(raw))
	for _, rf := range raw {
		if rf.name == "" {
			return nil, locError(rf.loc, "empty file name")
		}
		if prev, dup := seen[rf.name]; dup {
			return nil, locError(rf.loc, fmt.Sprintf("file %q already declared at %s", rf.name, prev))
		}
		seen[rf.name] = rf.loc

		f := patch.File{Name: rf.name, Rules: make([]patch.Spec, 0, len(rf.rules))}
		for _, rr := range rf.rules {
			spec, err := buildRule(rr)
			if err != nil {
				return nil, err
			}
			f.Rules = append(f.Rules, spec)
		}
		out = append(out, f)
	}
	return out, nil
}

func buildRule(rr rawRule) (patch.Spec, error) {
	if rr.name == "" {
		return patch.Spec{}, locError(rr.loc, "rule has no name")
	}
	kind, err := patch.ParseKind(rr.typ)
	if err != nil {
		return patch.Spec{}, locError(rr.loc, err.Error())
	}

	spec := patch.Spec{Name: rr.name, Kind: kind}
	switch kind {
	case patch.KindUnion:
		if !rr.hasOffset {
			return patch.Spec{}, locError(rr.loc, fmt.Sprintf("union %q has no offset", rr.name))
		}
		spec.Offset = rr.offset
		for _, p := range rr.patches {
			if p.name == "" {
				return patch.Spec{}, locError(p.loc, "union choice has no name")
			}
			if p.bytes == nil {
				return patch.Spec{}, locError(p.loc, fmt.Sprintf("choice %q has no bytes", p.name))
			}
			spec.Choices = append(spec.Choices, patch.Choice{Name: p.name, Bytes: p.bytes})
		}
	default:
		if rr.hasOffset {
			return patch.Spec{}, locError(rr.loc, fmt.Sprintf("toggle %q: offset belongs on each patch", rr.name))
		}
		for _, p := range rr.patches {
			if !p.hasOffset {
				return patch.Spec{}, locError(p.loc, "patch has no offset")
			}
			if p.on == nil || p.off == nil {
				return patch.Spec{}, locError(p.loc, "patch needs both on and off bytes")
			}
			spec.Entries = append(spec.Entries, patch.Entry{Offset: p.offset, On: p.on, Off: p.off})
		}
	}

	if err := spec.Validate(); err != nil {
		return patch.Spec{}, fmt.Errorf("%s: %w", rr.loc, err)
	}
	return spec, nil
}

func locError(loc, msg string) error {
	return types.New(types.ErrKindConfig, loc+": "+msg, nil)
}
