package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahread/escrituras/internal/corpus"
)

func mkVerse(id int) *corpus.Verse {
	return &corpus.Verse{ID: id}
}

func ids(results []Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Verse.ID
	}
	return out
}

func TestMergeTiers_TierOrder(t *testing.T) {
	keyword := []Result{
		{Verse: mkVerse(1), Score: 0.5, MatchedBy: MatchTitle},
		{Verse: mkVerse(2), Score: 3.0, MatchedBy: MatchKeyword},
		{Verse: mkVerse(3), Score: 2.0, MatchedBy: MatchKeyword},
	}
	semantic := []Result{
		{Verse: mkVerse(2), Score: 0.9, MatchedBy: MatchSemantic},
		{Verse: mkVerse(4), Score: 0.8, MatchedBy: MatchSemantic},
	}

	merged := mergeTiers(keyword, semantic, 10, true)

	// title (1), both (2), semantic-only (4), keyword-only (3)
	assert.Equal(t, []int{1, 2, 4, 3}, ids(merged))
	assert.Equal(t, MatchTitle, merged[0].MatchedBy)
	assert.Equal(t, MatchBoth, merged[1].MatchedBy)
	assert.Equal(t, MatchSemantic, merged[2].MatchedBy)
	assert.Equal(t, MatchKeyword, merged[3].MatchedBy)
}

func TestMergeTiers_BothSumsLegScores(t *testing.T) {
	keyword := []Result{{Verse: mkVerse(7), Score: 2.5, MatchedBy: MatchKeyword}}
	semantic := []Result{{Verse: mkVerse(7), Score: 0.5, MatchedBy: MatchSemantic}}

	merged := mergeTiers(keyword, semantic, 10, true)

	require.Len(t, merged, 1)
	assert.Equal(t, MatchBoth, merged[0].MatchedBy)
	assert.InDelta(t, 3.0, merged[0].Score, 1e-9)
}

func TestMergeTiers_TitleNeverLeavesTopTier(t *testing.T) {
	// A verse matched by title and semantics stays in the title tier,
	// ahead of a higher-scored plain both-match.
	keyword := []Result{
		{Verse: mkVerse(1), Score: 0.1, MatchedBy: MatchTitle},
		{Verse: mkVerse(2), Score: 9.0, MatchedBy: MatchKeyword},
	}
	semantic := []Result{
		{Verse: mkVerse(1), Score: 0.2, MatchedBy: MatchSemantic},
		{Verse: mkVerse(2), Score: 0.9, MatchedBy: MatchSemantic},
	}

	merged := mergeTiers(keyword, semantic, 10, true)

	require.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Verse.ID)
	assert.Equal(t, MatchTitle, merged[0].MatchedBy)
	assert.InDelta(t, 0.3, merged[0].Score, 1e-9)
	assert.Equal(t, MatchBoth, merged[1].MatchedBy)
}

func TestMergeTiers_BothTierFirstWhenConfigured(t *testing.T) {
	keyword := []Result{
		{Verse: mkVerse(1), Score: 1.0, MatchedBy: MatchTitle},
		{Verse: mkVerse(2), Score: 1.0, MatchedBy: MatchKeyword},
	}
	semantic := []Result{
		{Verse: mkVerse(2), Score: 0.5, MatchedBy: MatchSemantic},
	}

	merged := mergeTiers(keyword, semantic, 10, false)

	assert.Equal(t, []int{2, 1}, ids(merged))
}

func TestMergeTiers_DedupsByVerseID(t *testing.T) {
	keyword := []Result{
		{Verse: mkVerse(1), Score: 1.0, MatchedBy: MatchKeyword},
		{Verse: mkVerse(2), Score: 0.5, MatchedBy: MatchKeyword},
	}
	semantic := []Result{
		{Verse: mkVerse(1), Score: 0.9, MatchedBy: MatchSemantic},
		{Verse: mkVerse(2), Score: 0.8, MatchedBy: MatchSemantic},
	}

	merged := mergeTiers(keyword, semantic, 10, true)

	seen := make(map[int]bool)
	for _, r := range merged {
		assert.False(t, seen[r.Verse.ID], "verse %d appears twice", r.Verse.ID)
		seen[r.Verse.ID] = true
	}
	assert.Len(t, merged, 2)
}

func TestMergeTiers_TiesWithinTierBreakCanonically(t *testing.T) {
	keyword := []Result{
		{Verse: mkVerse(9), Score: 1.0, MatchedBy: MatchKeyword},
		{Verse: mkVerse(3), Score: 1.0, MatchedBy: MatchKeyword},
	}

	merged := mergeTiers(keyword, nil, 10, true)
	assert.Equal(t, []int{3, 9}, ids(merged))
}

func TestMergeTiers_TruncatesToLimit(t *testing.T) {
	keyword := []Result{
		{Verse: mkVerse(1), Score: 3.0, MatchedBy: MatchKeyword},
		{Verse: mkVerse(2), Score: 2.0, MatchedBy: MatchKeyword},
		{Verse: mkVerse(3), Score: 1.0, MatchedBy: MatchKeyword},
	}

	merged := mergeTiers(keyword, nil, 2, true)
	assert.Equal(t, []int{1, 2}, ids(merged))

	assert.Nil(t, mergeTiers(keyword, nil, 0, true))
}

func TestMergeTiers_EmptyLegs(t *testing.T) {
	assert.Empty(t, mergeTiers(nil, nil, 5, true))

	semantic := []Result{{Verse: mkVerse(4), Score: 0.7, MatchedBy: MatchSemantic}}
	merged := mergeTiers(nil, semantic, 5, true)
	require.Len(t, merged, 1)
	assert.Equal(t, MatchSemantic, merged[0].MatchedBy)
}
