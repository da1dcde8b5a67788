package corpus

import (
	"fmt"

	serr "github.com/noahread/escrituras/internal/errors"
)

// Context returns the target verse with up to before/after ordered neighbors
// in canonical reading order. The walk stops early at book boundaries, so a
// context never crosses into a different book. before/after of 0 are valid
// and yield empty slices.
func (s *Store) Context(verseID, before, after int) (*VerseContext, error) {
	if before < 0 || after < 0 {
		return nil, serr.New(serr.ErrCodeInvalidInput,
			fmt.Sprintf("context counts must be non-negative, got before=%d after=%d", before, after), nil)
	}

	idx, ok := s.verseByID[verseID]
	if !ok {
		return nil, serr.New(serr.ErrCodeReferenceNotFound,
			fmt.Sprintf("no verse with id %d", verseID), nil)
	}
	target := &s.verses[idx]

	preceding := make([]*Verse, 0, before)
	for i := idx - 1; i >= 0 && len(preceding) < before; i-- {
		if s.verses[i].BookID != target.BookID {
			break
		}
		preceding = append(preceding, &s.verses[i])
	}
	// Collected walking backward; flip into reading order.
	for i, j := 0, len(preceding)-1; i < j; i, j = i+1, j-1 {
		preceding[i], preceding[j] = preceding[j], preceding[i]
	}

	following := make([]*Verse, 0, after)
	for i := idx + 1; i < len(s.verses) && len(following) < after; i++ {
		if s.verses[i].BookID != target.BookID {
			break
		}
		following = append(following, &s.verses[i])
	}

	return &VerseContext{Target: target, Preceding: preceding, Following: following}, nil
}
