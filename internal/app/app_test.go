package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
    optimizer: {
        target: {
            compositionSpace: {blocks: [[1, 1, 3]]}
        }
    }
    stages: [stage1]
}
#define stage1
{
    type: QEspresso
    commandExecutable: 'pw.x'
    keepFolders: False
}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.uspex")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	return dir
}

func runApp(t *testing.T, cfg Config) (stdout, stderr bytes.Buffer, err error) {
	t.Helper()
	conf, cfgErr := NewConfig(cfg)
	require.NoError(t, cfgErr)
	a := New(&stdout, &stderr, conf)
	err = a.Run(context.Background())
	return stdout, stderr, err
}

func TestRun_JSONDump(t *testing.T) {
	dir := writeFixture(t)
	stdout, _, err := runApp(t, Config{
		InputPath: dir, // folder form: resolves to input.uspex inside
		Format:    "json",
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))

	require.Contains(t, got, "params")
	require.Contains(t, got, "metadata")

	metadata := got["metadata"].(map[string]any)
	assert.Equal(t, "bulk", metadata["system"])
	assert.Equal(t, float64(0), metadata["var_comp"])

	stages := metadata["opt_stages"].([]any)
	require.Len(t, stages, 1)
	stage := stages[0].(map[string]any)
	assert.Equal(t, "stage1", stage["name"])
	assert.NotContains(t, stage, "commandExecutable")
}

func TestRun_YAMLDump(t *testing.T) {
	dir := writeFixture(t)
	stdout, _, err := runApp(t, Config{
		InputPath: filepath.Join(dir, "input.uspex"), // direct file form
		Format:    "yaml",
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "params:")
	assert.Contains(t, out, "metadata:")
	assert.Contains(t, out, "system: bulk")
}

func TestRun_ParseErrorRendersDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.uspex")
	require.NoError(t, os.WriteFile(path, []byte("{a: }\n"), 0o644))

	_, stderr, err := runApp(t, Config{
		InputPath: path,
		Format:    "yaml",
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preamble")
	assert.Contains(t, stderr.String(), "invalid syntax", "diagnostic must be rendered with source context")
}

func TestRun_MissingInput(t *testing.T) {
	_, _, err := runApp(t, Config{
		InputPath: filepath.Join(t.TempDir(), "nope"),
		Format:    "yaml",
		LogFormat: "text",
		LogLevel:  "error",
	})
	require.Error(t, err)
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{Format: "yaml"})
	assert.Error(t, err, "InputPath is required")

	_, err = NewConfig(Config{InputPath: "x", Format: "toml"})
	assert.Error(t, err, "unknown format")

	cfg, err := NewConfig(Config{InputPath: "x", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.InputPath)
}
