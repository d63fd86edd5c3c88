package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// TOML layout, one array of tables per file:
//
//	[[game]]
//	name = "Skip intro"
//	[[game.patches]]
//	offset = 0x64
//	on = [0x90, 0x90]
//	off = [0xE9, 0x10]

type tomlRule struct {
	Name    string      `toml:"name"`
	Type    string      `toml:"type"`
	Offset  *int64      `toml:"offset"`
	Patches []tomlPatch `toml:"patches"`
}

type tomlPatch struct {
	Name   string `toml:"name"`
	Offset *int64 `toml:"offset"`
	On     []int  `toml:"on"`
	Off    []int  `toml:"off"`
	Bytes  []int  `toml:"bytes"`
	Patch  []int  `toml:"patch"`
}

func parseTOML(data []byte, source string) ([]rawFile, error) {
	var doc map[string][]tomlRule
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, types.New(types.ErrKindConfig, "failed to parse config file "+source, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, types.New(types.ErrKindConfig,
			fmt.Sprintf("%s: unknown keys: %s", source, strings.Join(keys, ", ")), nil)
	}

	// Map iteration order is random; MetaData keeps document order.
	var order []string
	seen := make(map[string]struct{}, len(doc))
	for _, k := range md.Keys() {
		if len(k) != 1 {
			continue
		}
		if _, ok := seen[k[0]]; ok {
			continue
		}
		seen[k[0]] = struct{}{}
		order = append(order, k[0])
	}

	files := make([]rawFile, 0, len(order))
	for _, name := range order {
		rf := rawFile{name: name, loc: fmt.Sprintf("%s: file %q", source, name)}
		for i, tr := range doc[name] {
			rr, err := tomlToRaw(source, name, i, tr)
			if err != nil {
				return nil, err
			}
			rf.rules = append(rf.rules, rr)
		}
		files = append(files, rf)
	}
	return files, nil
}

func tomlToRaw(source, file string, idx int, tr tomlRule) (rawRule, error) {
	rr := rawRule{
		loc:  fmt.Sprintf("%s: file %q rule %d", source, file, idx),
		name: tr.Name,
		typ:  tr.Type,
	}
	if tr.Name != "" {
		rr.loc = fmt.Sprintf("%s: file %q rule %q", source, file, tr.Name)
	}
	if tr.Offset != nil {
		rr.offset, rr.hasOffset = *tr.Offset, true
	}
	for j, tp := range tr.Patches {
		loc := fmt.Sprintf("%s patch %d", rr.loc, j)
		rp := rawPatch{loc: loc, name: tp.Name}
		if tp.Offset != nil {
			rp.offset, rp.hasOffset = *tp.Offset, true
		}
		var err error
		if rp.on, err = intsToBytes(tp.On); err != nil {
			return rr, locError(loc, "on: "+err.Error())
		}
		if rp.off, err = intsToBytes(tp.Off); err != nil {
			return rr, locError(loc, "off: "+err.Error())
		}
		if tp.Bytes != nil && tp.Patch != nil {
			return rr, locError(loc, `both "bytes" and "patch" given`)
		}
		src := tp.Bytes
		if src == nil {
			src = tp.Patch
		}
		if rp.bytes, err = intsToBytes(src); err != nil {
			return rr, locError(loc, "bytes: "+err.Error())
		}
		rr.patches = append(rr.patches, rp)
	}
	return rr, nil
}

func intsToBytes(in []int) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]byte, len(in))
	for i, v := range in {
		if v < 0 || v > 0xff {
			return nil, fmt.Errorf("%d is not a byte (0..255)", v)
		}
		out[i] = byte(v)
	}
	return out, nil
}
