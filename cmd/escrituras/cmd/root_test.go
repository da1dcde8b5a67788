package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahread/escrituras/internal/config"
)

// setupTestData copies the shared corpus fixture into a temp data directory
// and points the commands at it via environment and HOME isolation.
func setupTestData(t *testing.T) string {
	t.Helper()

	fixture, err := os.ReadFile(filepath.Join("..", "..", "..", "internal", "corpus", "testdata", "mini-scriptures.json"))
	require.NoError(t, err)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	dataDir := filepath.Join(home, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, config.CorpusFileName), fixture, 0o644))

	t.Setenv("ESCRITURAS_DATA_DIR", dataDir)
	return dataDir
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{
		"serve", "search", "lookup", "context", "books",
		"browse", "embed", "doctor", "config", "version",
	} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "escrituras version")
}

func TestCliError_WritesToStderr(t *testing.T) {
	setupTestData(t)

	cmd := NewRootCmd()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"books", "Apocrypha"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, errBuf.String(), "unknown volume")
}

func TestRootCmd_MissingCorpusFails(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("ESCRITURAS_DATA_DIR", filepath.Join(home, "empty"))

	_, err := execute(t, "lookup", "John 3:16")
	assert.Error(t, err)
}
