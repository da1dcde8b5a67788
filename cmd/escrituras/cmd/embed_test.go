package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahread/escrituras/internal/config"
	"github.com/noahread/escrituras/internal/embed"
	"github.com/noahread/escrituras/internal/vector"
)

func TestEmbed_GeneratesVectorFile(t *testing.T) {
	dataDir := setupTestData(t)

	out, err := execute(t, "embed")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 17 vectors")

	vs, err := vector.Open(filepath.Join(dataDir, config.EmbeddingsFileName))
	require.NoError(t, err)
	assert.Equal(t, 17, vs.Count())
	assert.Equal(t, 256, vs.Dimensions())
	assert.Equal(t, "hash-projection-v1", vs.ModelName())
}

func TestEmbed_EnablesSemanticSearch(t *testing.T) {
	setupTestData(t)

	_, err := execute(t, "embed")
	require.NoError(t, err)

	out, err := execute(t, "doctor", "--json")
	require.NoError(t, err)

	var d diagnosis
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.EmbeddingsOK)
	assert.True(t, d.SemanticSearch)

	// Hybrid search now reports a both-tier match for verse text.
	searchOut, err := execute(t, "search", "faith", "--json")
	require.NoError(t, err)

	var results []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(searchOut), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "both", results[0].MatchedBy)
}

func TestEmbed_LockExcludesConcurrentRuns(t *testing.T) {
	dataDir := setupTestData(t)

	// Hold the generation lock as a concurrent run would.
	lock := embed.NewGenerationLock(dataDir)
	require.NoError(t, lock.Lock())
	defer func() { _ = lock.Unlock() }()

	_, err := execute(t, "embed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock")
}
