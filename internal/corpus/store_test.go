package corpus

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/noahread/escrituras/internal/errors"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "mini-scriptures.json"))
	require.NoError(t, err)
	return s
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, serr.ErrCodeCorpusNotFound, serr.GetCode(err))
	assert.True(t, serr.IsFatal(err))
}

func TestLoadReader_MalformedJSON(t *testing.T) {
	_, err := LoadReader(strings.NewReader(`[{"volume_title": `))
	require.Error(t, err)
	assert.Equal(t, serr.ErrCodeCorpusInvalid, serr.GetCode(err))
}

func TestLoadReader_EmptyCorpus(t *testing.T) {
	_, err := LoadReader(strings.NewReader(`[]`))
	require.Error(t, err)
	assert.Equal(t, serr.ErrCodeCorpusInvalid, serr.GetCode(err))
}

func TestLoadReader_RejectsUnknownBookReference(t *testing.T) {
	structured := `{
		"volumes": [{"id": 1, "title": "Old Testament"}],
		"books": [{"id": 1, "volume_id": 1, "title": "Genesis", "book_short_title": "Gen."}],
		"scriptures": [
			{"verse_id": 1, "volume_id": 1, "book_id": 99, "chapter_number": 1, "verse_number": 1,
			 "verse_title": "Genesis 1:1", "scripture_text": "In the beginning"}
		]
	}`
	_, err := LoadReader(strings.NewReader(structured))
	require.Error(t, err)
	assert.Equal(t, serr.ErrCodeCorpusInvalid, serr.GetCode(err))
	assert.Contains(t, err.Error(), "unknown book id 99")
}

func TestLoadReader_RejectsBookWithUnknownVolume(t *testing.T) {
	structured := `{
		"volumes": [{"id": 1, "title": "Old Testament"}],
		"books": [{"id": 1, "volume_id": 7, "title": "Genesis"}],
		"scriptures": [
			{"verse_id": 1, "volume_id": 1, "book_id": 1, "chapter_number": 1, "verse_number": 1,
			 "verse_title": "Genesis 1:1", "scripture_text": "In the beginning"}
		]
	}`
	_, err := LoadReader(strings.NewReader(structured))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown volume id 7")
}

func TestLoadReader_RejectsNonIncreasingVerseIDs(t *testing.T) {
	structured := `{
		"volumes": [{"id": 1, "title": "Old Testament"}],
		"books": [{"id": 1, "volume_id": 1, "title": "Genesis"}],
		"scriptures": [
			{"verse_id": 2, "volume_id": 1, "book_id": 1, "chapter_number": 1, "verse_number": 1,
			 "verse_title": "Genesis 1:1", "scripture_text": "a"},
			{"verse_id": 2, "volume_id": 1, "book_id": 1, "chapter_number": 1, "verse_number": 2,
			 "verse_title": "Genesis 1:2", "scripture_text": "b"}
		]
	}`
	_, err := LoadReader(strings.NewReader(structured))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}

func TestLoad_SynthesizesVolumesAndBooksInCanonicalOrder(t *testing.T) {
	s := loadFixture(t)

	volumes := s.Volumes()
	require.Len(t, volumes, 5)
	assert.Equal(t, "Old Testament", volumes[0].Title)
	assert.Equal(t, "New Testament", volumes[1].Title)
	assert.Equal(t, "Book of Mormon", volumes[2].Title)
	assert.Equal(t, "Doctrine and Covenants", volumes[3].Title)
	assert.Equal(t, "Pearl of Great Price", volumes[4].Title)

	books := s.Books()
	require.NotEmpty(t, books)
	assert.Equal(t, "Genesis", books[0].Title)

	// Verse ids are positional and strictly increasing.
	verses := s.AllVerses()
	for i := range verses {
		assert.Equal(t, i+1, verses[i].ID)
	}
}

func TestVerseByID(t *testing.T) {
	s := loadFixture(t)

	v, ok := s.VerseByID(1)
	require.True(t, ok)
	assert.Equal(t, "Genesis 1:1", v.Title)

	_, ok = s.VerseByID(9999)
	assert.False(t, ok)
}

func TestVersesByBook_MatchesAnyTitleVariantCaseInsensitive(t *testing.T) {
	s := loadFixture(t)

	for _, name := range []string{"Genesis", "genesis", "GEN.", "gen"} {
		verses := s.VersesByBook(name)
		require.Len(t, verses, 4, "name %q", name)
		assert.Equal(t, "Genesis 1:1", verses[0].Title)
		assert.Equal(t, "Genesis 2:1", verses[3].Title)
	}

	assert.Nil(t, s.VersesByBook("Johnzzz"))
}

func TestChapter_ReturnsOrderedVerses(t *testing.T) {
	s := loadFixture(t)

	book, ok := s.FindBook("Genesis")
	require.True(t, ok)

	ch1 := s.Chapter(book.ID, 1)
	require.Len(t, ch1, 3)
	assert.Equal(t, 1, ch1[0].Number)
	assert.Equal(t, 3, ch1[2].Number)

	assert.Empty(t, s.Chapter(book.ID, 99))
}

func TestChapterCount(t *testing.T) {
	s := loadFixture(t)

	gen, _ := s.FindBook("Genesis")
	assert.Equal(t, 2, s.ChapterCount(gen.ID))

	john, _ := s.FindBook("John")
	assert.Equal(t, 1, s.ChapterCount(john.ID))
}

func TestChapters_SparseNumbering(t *testing.T) {
	s := loadFixture(t)

	gen, _ := s.FindBook("Genesis")
	assert.Equal(t, []int{1, 2}, s.Chapters(gen.ID))

	// Psalms carries only chapter 23 in the fixture; the chapter list
	// reflects what exists, not a 1..N assumption.
	psalms, _ := s.FindBook("Psalms")
	assert.Equal(t, []int{23}, s.Chapters(psalms.ID))

	assert.Empty(t, s.Chapters(999))
}

func TestBooksByVolume(t *testing.T) {
	s := loadFixture(t)

	vol, ok := s.VolumeByTitle("Old Testament")
	require.True(t, ok)

	books := s.BooksByVolume(vol.ID)
	require.Len(t, books, 3)
	assert.Equal(t, "Genesis", books[0].Title)
	assert.Equal(t, "Exodus", books[1].Title)
	assert.Equal(t, "Psalms", books[2].Title)
}

func TestVersesForReference(t *testing.T) {
	s := loadFixture(t)
	john, _ := s.FindBook("John")

	t.Run("single verse", func(t *testing.T) {
		verses, err := s.VersesForReference(&Reference{BookID: john.ID, Chapter: 3, VerseStart: 16, VerseEnd: 16})
		require.NoError(t, err)
		require.Len(t, verses, 1)
		assert.Equal(t, "John 3:16", verses[0].Title)
	})

	t.Run("range", func(t *testing.T) {
		verses, err := s.VersesForReference(&Reference{BookID: john.ID, Chapter: 3, VerseStart: 16, VerseEnd: 17})
		require.NoError(t, err)
		assert.Len(t, verses, 2)
	})

	t.Run("whole chapter", func(t *testing.T) {
		verses, err := s.VersesForReference(&Reference{BookID: john.ID, Chapter: 3})
		require.NoError(t, err)
		assert.Len(t, verses, 2)
	})

	t.Run("missing chapter", func(t *testing.T) {
		_, err := s.VersesForReference(&Reference{BookID: john.ID, Chapter: 99})
		require.Error(t, err)
		assert.Equal(t, serr.ErrCodeReferenceNotFound, serr.GetCode(err))
	})

	t.Run("missing verse", func(t *testing.T) {
		_, err := s.VersesForReference(&Reference{BookID: john.ID, Chapter: 3, VerseStart: 99, VerseEnd: 99})
		require.Error(t, err)
		assert.Equal(t, serr.ErrCodeReferenceNotFound, serr.GetCode(err))
	})
}
