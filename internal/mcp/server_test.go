package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/search"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := corpus.Load(filepath.Join("..", "corpus", "testdata", "mini-scriptures.json"))
	require.NoError(t, err)

	idx, err := search.NewKeywordIndex(store)
	require.NoError(t, err)
	engine, err := search.NewEngine(idx, nil, search.DefaultEngineConfig())
	require.NoError(t, err)

	s, err := NewServer(store, engine)
	require.NoError(t, err)
	return s
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestLookupVerse_SingleVerse(t *testing.T) {
	s := newTestServer(t)

	result, output, err := s.handleLookupVerse(context.Background(), nil,
		LookupVerseInput{Reference: "John 3:16"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	require.Len(t, output.Verses, 1)
	v := output.Verses[0]
	assert.Equal(t, "New Testament", v.Volume)
	assert.Equal(t, "John", v.Book)
	assert.Equal(t, 3, v.Chapter)
	assert.Equal(t, 16, v.Verse)
	assert.Equal(t, "John 3:16", v.Reference)
	assert.Contains(t, v.Text, "For God so loved the world")
}

func TestLookupVerse_Range(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleLookupVerse(context.Background(), nil,
		LookupVerseInput{Reference: "1 Nephi 3:7-8"})
	require.NoError(t, err)

	require.Len(t, output.Verses, 2)
	assert.Equal(t, "1 Nephi 3:7", output.Verses[0].Reference)
	assert.Equal(t, "1 Nephi 3:8", output.Verses[1].Reference)
}

func TestLookupVerse_DomainErrorsKeepChannelOpen(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		reference string
	}{
		{"unrecognized book", "Johnzzz 99:99"},
		{"missing verse", "John 3:99"},
		{"missing chapter", "John 99:1"},
		{"range ends before start", "John 3:17-16"},
		{"book without verse", "Alma"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := s.handleLookupVerse(context.Background(), nil,
				LookupVerseInput{Reference: tt.reference})
			require.NoError(t, err, "domain failures are tool results, not protocol errors")
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestLookupVerse_EmptyReferenceIsInvalidParams(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleLookupVerse(context.Background(), nil, LookupVerseInput{})
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestLookupChapter(t *testing.T) {
	s := newTestServer(t)

	result, output, err := s.handleLookupChapter(context.Background(), nil,
		LookupChapterInput{Reference: "Genesis 1"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "Genesis", output.Book)
	assert.Equal(t, 1, output.Chapter)
	require.Len(t, output.Verses, 3)
	assert.Equal(t, 1, output.Verses[0].Verse)
	assert.Equal(t, 3, output.Verses[2].Verse)
}

func TestLookupChapter_IgnoresVersePart(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleLookupChapter(context.Background(), nil,
		LookupChapterInput{Reference: "Genesis 1:2"})
	require.NoError(t, err)
	assert.Len(t, output.Verses, 3, "whole chapter regardless of verse part")
}

func TestLookupChapter_BookOnlyIsToolError(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleLookupChapter(context.Background(), nil,
		LookupChapterInput{Reference: "Genesis"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSearchScriptures(t *testing.T) {
	s := newTestServer(t)

	result, output, err := s.handleSearch(context.Background(), nil,
		SearchInput{Query: "faith", Limit: 5})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NotEmpty(t, output.Results)
	assert.LessOrEqual(t, len(output.Results), 5)
	for _, r := range output.Results {
		assert.NotEmpty(t, r.Reference)
		assert.NotEmpty(t, r.MatchedBy)
	}
}

func TestSearchScriptures_NegativeLimit(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "faith", Limit: -1})
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestSearchScriptures_EmptyQueryBrowses(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "", Limit: 3})
	require.NoError(t, err)

	require.Len(t, output.Results, 3)
	assert.Equal(t, "Genesis 1:1", output.Results[0].Reference)
}

func TestGetContext_Defaults(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleGetContext(context.Background(), nil,
		GetContextInput{Reference: "Genesis 1:3"})
	require.NoError(t, err)

	assert.Equal(t, "Genesis 1:3", output.Target.Reference)
	// Default 2 before; only 2 verses exist before Genesis 1:3.
	require.Len(t, output.Preceding, 2)
	assert.Equal(t, "Genesis 1:1", output.Preceding[0].Reference)
	// Default 2 after, but Genesis has only one more verse.
	require.Len(t, output.Following, 1)
	assert.Equal(t, "Genesis 2:1", output.Following[0].Reference)
}

func TestGetContext_FirstVerseHasNoPreceding(t *testing.T) {
	s := newTestServer(t)

	zero := 0
	one := 1
	_, output, err := s.handleGetContext(context.Background(), nil,
		GetContextInput{Reference: "Genesis 1:1", Before: &one, After: &one})
	require.NoError(t, err)
	assert.Empty(t, output.Preceding)
	require.Len(t, output.Following, 1)

	// Explicit zero is honored, not replaced by the default.
	_, output, err = s.handleGetContext(context.Background(), nil,
		GetContextInput{Reference: "Genesis 1:2", Before: &zero, After: &zero})
	require.NoError(t, err)
	assert.Empty(t, output.Preceding)
	assert.Empty(t, output.Following)
}

func TestGetContext_NegativeCountsAreInvalidParams(t *testing.T) {
	s := newTestServer(t)

	neg := -1
	_, _, err := s.handleGetContext(context.Background(), nil,
		GetContextInput{Reference: "Genesis 1:2", Before: &neg})
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestListBooks_GroupsByVolume(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleListBooks(context.Background(), nil, ListBooksInput{})
	require.NoError(t, err)

	require.Len(t, output.Volumes, 5)
	assert.Equal(t, "Old Testament", output.Volumes[0].Title)
	require.Len(t, output.Volumes[0].Books, 3)
	assert.Equal(t, "Genesis", output.Volumes[0].Books[0].Title)
	assert.Equal(t, 2, output.Volumes[0].Books[0].Chapters)
}

func TestListBooks_VolumeFilter(t *testing.T) {
	s := newTestServer(t)

	_, output, err := s.handleListBooks(context.Background(), nil,
		ListBooksInput{Volume: "Book of Mormon"})
	require.NoError(t, err)

	require.Len(t, output.Volumes, 1)
	assert.Equal(t, "Book of Mormon", output.Volumes[0].Title)
	assert.Len(t, output.Volumes[0].Books, 3)
}

func TestListBooks_UnknownVolumeIsToolError(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleListBooks(context.Background(), nil,
		ListBooksInput{Volume: "Apocrypha"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
