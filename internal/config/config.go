package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/dllpatch/patch"
	"github.com/joshuapare/dllpatch/pkg/types"
)

const (
	// EnvConfig overrides config discovery.
	EnvConfig = "DLLPATCH_CONFIG"
	// EnvDir overrides the directory the target files are opened from.
	EnvDir = "DLLPATCH_DIR"
)

// DefaultNames are tried, in order, in the working directory when no config
// path is given.
var DefaultNames = []string{"patches.yml", "patches.yaml", "patches.toml"}

// Format is a config file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatFromPath picks the format from the file extension. Anything that is
// not .toml is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses the config file at path.
func Load(path string) ([]patch.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "failed to read config file "+path, err)
	}
	files, err := Parse(data, FormatFromPath(path), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return files, nil
}

// Parse decodes config data. source names the input in error messages.
func Parse(data []byte, format Format, source string) ([]patch.File, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, types.New(types.ErrKindConfig, source+": cannot decode text", err)
	}

	var raw []rawFile
	switch format {
	case FormatTOML:
		raw, err = parseTOML(text, source)
	default:
		raw, err = parseYAML(text, source)
	}
	if err != nil {
		return nil, err
	}
	return build(raw)
}

// Discover returns the config path to use: explicit if set, then
// $DLLPATCH_CONFIG, then the first of DefaultNames that exists.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		return expandPath(explicit), nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return expandPath(env), nil
	}
	for _, name := range DefaultNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", types.New(types.ErrKindNotFound,
		fmt.Sprintf("no config file found (tried %s)", strings.Join(DefaultNames, ", ")), nil)
}

// ResolveDir returns the directory target files are opened from: flagDir if
// set, then $DLLPATCH_DIR, then the directory holding the config file.
func ResolveDir(flagDir, configPath string) string {
	if flagDir != "" {
		return expandPath(flagDir)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return expandPath(env)
	}
	return filepath.Dir(configPath)
}

// decodeText strips a UTF-8 BOM and transcodes UTF-16 input to UTF-8. Input
// without a BOM passes through unchanged.
func decodeText(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
	return out, err
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
