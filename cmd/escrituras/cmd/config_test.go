package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit_Project(t *testing.T) {
	setupTestData(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "config", "init", "--project")
	require.NoError(t, err)
	assert.Contains(t, out, ".escrituras.yaml")

	data, err := os.ReadFile(".escrituras.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# escrituras user configuration")

	// A second init refuses to clobber without --force.
	_, err = execute(t, "config", "init", "--project")
	assert.Error(t, err)

	_, err = execute(t, "config", "init", "--project", "--force")
	assert.NoError(t, err)
}

func TestConfigInit_UserPath(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")
}

func TestConfigShow_PrintsEffectiveConfig(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: builtin")
	assert.Contains(t, out, "default_limit: 10")
	assert.Contains(t, out, "title_tier_first: true")
}

func TestConfigShow_EnvOverride(t *testing.T) {
	setupTestData(t)
	t.Setenv("ESCRITURAS_DEFAULT_LIMIT", "7")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_limit: 7")
}
