package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/dllpatch/internal/testutil"
	"github.com/joshuapare/dllpatch/patch"
)

const testConfig = `
game:
  - name: Skip intro
    patches:
      - offset: 100
        on: [0x90, 0x90]
        off: [0xE9, 0x10]
  - name: Mode
    type: union
    offset: 200
    patches:
      - name: A
        bytes: [0x01]
      - name: B
        bytes: [0x02]
audio:
  - name: Mixed
    patches:
      - offset: 0
        on: [0x90]
        off: [0x74]
      - offset: 8
        on: [0xEB]
        off: [0x75]
`

// setupSession writes testConfig plus game.dll and audio.dll into a temp dir,
// points the global flags at it, and returns the dir.
func setupSession(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "patches.yml"), []byte(testConfig))

	testutil.WriteTarget(t, dir, "game"+patch.DefaultSuffix, 256, testutil.Bytes{
		100: {0xe9, 0x10}, // Skip intro off
		200: {0x02},       // Mode B
	})
	testutil.WriteTarget(t, dir, "audio"+patch.DefaultSuffix, 16, testutil.Bytes{
		0: {0x90}, // on
		8: {0x75}, // off: mixed
	})

	resetFlags()
	configPath = filepath.Join(dir, "patches.yml")
	return dir
}

func resetFlags() {
	quiet = false
	verbose = false
	jsonOut = false
	logToFile = false
	configPath = ""
	targetDir = ""
	fileSuffix = patch.DefaultSuffix
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
