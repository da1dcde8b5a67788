package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/noahread/escrituras/internal/errors"
)

func verseByTitle(t *testing.T, s *Store, title string) *Verse {
	t.Helper()
	for _, v := range s.AllVerses() {
		if v.Title == title {
			return &v
		}
	}
	t.Fatalf("fixture has no verse %q", title)
	return nil
}

func TestContext_FirstVerseOfCorpus(t *testing.T) {
	s := loadFixture(t)
	gen11 := verseByTitle(t, s, "Genesis 1:1")

	ctx, err := s.Context(gen11.ID, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, "Genesis 1:1", ctx.Target.Title)
	assert.Empty(t, ctx.Preceding)
	require.Len(t, ctx.Following, 1)
	assert.Equal(t, "Genesis 1:2", ctx.Following[0].Title)
}

func TestContext_PrecedingInReadingOrder(t *testing.T) {
	s := loadFixture(t)
	gen13 := verseByTitle(t, s, "Genesis 1:3")

	ctx, err := s.Context(gen13.ID, 2, 0)
	require.NoError(t, err)

	require.Len(t, ctx.Preceding, 2)
	assert.Equal(t, "Genesis 1:1", ctx.Preceding[0].Title)
	assert.Equal(t, "Genesis 1:2", ctx.Preceding[1].Title)
	assert.Empty(t, ctx.Following)
}

func TestContext_CrossesChapterBoundary(t *testing.T) {
	s := loadFixture(t)
	gen13 := verseByTitle(t, s, "Genesis 1:3")

	ctx, err := s.Context(gen13.ID, 0, 2)
	require.NoError(t, err)

	// Genesis 2:1 follows Genesis 1:3; chapters do not stop the walk.
	require.Len(t, ctx.Following, 1)
	assert.Equal(t, "Genesis 2:1", ctx.Following[0].Title)
}

func TestContext_StopsAtBookBoundary(t *testing.T) {
	s := loadFixture(t)

	t.Run("following", func(t *testing.T) {
		gen21 := verseByTitle(t, s, "Genesis 2:1")
		ctx, err := s.Context(gen21.ID, 0, 5)
		require.NoError(t, err)
		// Exodus 1:1 is next in the corpus but belongs to another book.
		assert.Empty(t, ctx.Following)
	})

	t.Run("preceding", func(t *testing.T) {
		ex11 := verseByTitle(t, s, "Exodus 1:1")
		ctx, err := s.Context(ex11.ID, 5, 0)
		require.NoError(t, err)
		assert.Empty(t, ctx.Preceding)
	})
}

func TestContext_ZeroCounts(t *testing.T) {
	s := loadFixture(t)
	john316 := verseByTitle(t, s, "John 3:16")

	ctx, err := s.Context(john316.ID, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "John 3:16", ctx.Target.Title)
	assert.Empty(t, ctx.Preceding)
	assert.Empty(t, ctx.Following)
}

func TestContext_Errors(t *testing.T) {
	s := loadFixture(t)

	t.Run("unknown verse id", func(t *testing.T) {
		_, err := s.Context(9999, 2, 2)
		require.Error(t, err)
		assert.Equal(t, serr.ErrCodeReferenceNotFound, serr.GetCode(err))
	})

	t.Run("negative counts", func(t *testing.T) {
		_, err := s.Context(1, -1, 2)
		require.Error(t, err)
		assert.Equal(t, serr.ErrCodeInvalidInput, serr.GetCode(err))
	})
}
