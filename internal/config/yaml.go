package config

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// The YAML document is walked as nodes rather than decoded into maps so the
// order of files survives and "true"/"false" keys stay plain strings.

var (
	ruleKeys   = keySet("name", "type", "offset", "patches")
	toggleKeys = keySet("offset", "on", "off", "true", "false", "name")
	choiceKeys = keySet("name", "bytes", "patch")
)

func parseYAML(data []byte, source string) ([]rawFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, types.New(types.ErrKindConfig, "failed to parse config file "+source, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, types.New(types.ErrKindConfig, source+": no files declared", nil)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(source, root, "top level must map file names to rule lists")
	}

	files := make([]rawFile, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], deref(root.Content[i+1])
		rf := rawFile{name: key.Value, loc: fmt.Sprintf("%s:%d", source, key.Line)}

		switch {
		case isNull(val):
			// A file with no rules is valid; it is only opened.
		case val.Kind == yaml.SequenceNode:
			for j, rn := range val.Content {
				rr, err := yamlRule(source, rf.name, j, rn)
				if err != nil {
					return nil, err
				}
				rf.rules = append(rf.rules, rr)
			}
		default:
			return nil, nodeError(source, val, fmt.Sprintf("file %q: rules must be a list", rf.name))
		}
		files = append(files, rf)
	}
	return files, nil
}

func yamlRule(source, file string, idx int, n *yaml.Node) (rawRule, error) {
	rr := rawRule{loc: fmt.Sprintf("%s:%d: file %q rule %d", source, n.Line, file, idx)}
	fields, err := mappingFields(n, ruleKeys)
	if err != nil {
		return rr, locError(rr.loc, err.Error())
	}

	if v, ok := fields["name"]; ok {
		rr.name = v.Value
		rr.loc = fmt.Sprintf("%s:%d: file %q rule %q", source, n.Line, file, rr.name)
	}
	if v, ok := fields["type"]; ok {
		rr.typ = v.Value
	}
	if v, ok := fields["offset"]; ok {
		if rr.offset, err = parseOffset(v); err != nil {
			return rr, locError(rr.loc, err.Error())
		}
		rr.hasOffset = true
	}

	pn, ok := fields["patches"]
	if !ok || pn.Kind != yaml.SequenceNode {
		return rr, locError(rr.loc, "patches must be a list")
	}
	union := strings.EqualFold(strings.TrimSpace(rr.typ), "union")
	for j, p := range pn.Content {
		loc := fmt.Sprintf("%s:%d: file %q rule %q patch %d", source, p.Line, file, rr.name, j)
		var (
			rp  rawPatch
			err error
		)
		if union {
			rp, err = yamlChoice(p)
		} else {
			rp, err = yamlEntry(p)
		}
		if err != nil {
			return rr, locError(loc, err.Error())
		}
		rp.loc = loc
		rr.patches = append(rr.patches, rp)
	}
	return rr, nil
}

func yamlEntry(n *yaml.Node) (rawPatch, error) {
	var rp rawPatch
	fields, err := mappingFields(n, toggleKeys)
	if err != nil {
		return rp, err
	}
	if v, ok := fields["offset"]; ok {
		if rp.offset, err = parseOffset(v); err != nil {
			return rp, err
		}
		rp.hasOffset = true
	}
	if rp.on, err = pickBytes(fields, "on", "true"); err != nil {
		return rp, err
	}
	if rp.off, err = pickBytes(fields, "off", "false"); err != nil {
		return rp, err
	}
	return rp, nil
}

func yamlChoice(n *yaml.Node) (rawPatch, error) {
	var rp rawPatch
	fields, err := mappingFields(n, choiceKeys)
	if err != nil {
		return rp, err
	}
	if v, ok := fields["name"]; ok {
		rp.name = v.Value
	}
	rp.bytes, err = pickBytes(fields, "bytes", "patch")
	return rp, err
}

// mappingFields indexes a mapping node by lower-cased key, rejecting keys
// outside allowed.
func mappingFields(n *yaml.Node, allowed map[string]struct{}) (map[string]*yaml.Node, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping, got %s", nodeKind(n))
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := strings.ToLower(n.Content[i].Value)
		if _, ok := allowed[key]; !ok {
			return nil, fmt.Errorf("line %d: unknown key %q", n.Content[i].Line, n.Content[i].Value)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %q", n.Content[i].Line, n.Content[i].Value)
		}
		out[key] = deref(n.Content[i+1])
	}
	return out, nil
}

func pickBytes(fields map[string]*yaml.Node, primary, alias string) ([]byte, error) {
	n, ok := fields[primary]
	if a, aok := fields[alias]; aok {
		if ok {
			return nil, fmt.Errorf("both %q and %q given", primary, alias)
		}
		n, ok = a, true
	}
	if !ok {
		return nil, nil
	}
	b, err := parseBytes(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", primary, err)
	}
	return b, nil
}

func parseOffset(n *yaml.Node) (int64, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: offset must be a number", n.Line)
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(n.Value), "_", ""), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: bad offset %q", n.Line, n.Value)
	}
	if v < 0 {
		return 0, fmt.Errorf("line %d: negative offset %d", n.Line, v)
	}
	return v, nil
}

// parseBytes accepts a list of integers 0..255 or a hex string such as
// "90 90" or "9090".
func parseBytes(n *yaml.Node) ([]byte, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		out := make([]byte, 0, len(n.Content))
		for _, e := range n.Content {
			e = deref(e)
			if e.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: byte must be a number", e.Line)
			}
			v, err := strconv.ParseUint(strings.TrimSpace(e.Value), 0, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q is not a byte (0..255)", e.Line, e.Value)
			}
			out = append(out, byte(v))
		}
		return out, nil
	case yaml.ScalarNode:
		s := strings.Join(strings.Fields(n.Value), "")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad hex bytes %q", n.Line, n.Value)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("line %d: bytes must be a list or hex string", n.Line)
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// deref follows YAML aliases to the anchored node.
func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

func nodeError(source string, n *yaml.Node, msg string) error {
	return types.New(types.ErrKindConfig, fmt.Sprintf("%s:%d: %s", source, n.Line, msg), nil)
}

func keySet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}
