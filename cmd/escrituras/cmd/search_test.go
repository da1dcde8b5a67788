package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_KeywordOnly(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "search", "faith")
	require.NoError(t, err)
	assert.Contains(t, out, "Hebrews 11:1")
	assert.Contains(t, out, "Alma 32:21")
}

func TestSearch_Limit(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "search", "world", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "John 3:16")
	assert.NotContains(t, out, "John 3:17")
}

func TestSearch_JSON(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "search", "faith", "--json")
	require.NoError(t, err)

	var results []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "keyword", results[0].MatchedBy)
	assert.NotEmpty(t, results[0].Reference)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestSearch_NoMatches(t *testing.T) {
	setupTestData(t)

	out, err := execute(t, "search", "xylophone")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")
}
