// Package corpus loads the static scripture dataset into memory and provides
// reference parsing and surrounding-context retrieval over it.
//
// The store is built once at startup and is immutable afterward, so all
// methods are safe for concurrent use without locking.
package corpus

// Volume is a top-level grouping (e.g., "Old Testament").
type Volume struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	LongTitle  string `json:"long_title"`
	ShortTitle string `json:"short_title"`
}

// Book belongs to exactly one Volume, referenced by id.
type Book struct {
	ID         int    `json:"id"`
	VolumeID   int    `json:"volume_id"`
	Title      string `json:"title"`
	LongTitle  string `json:"long_title"`
	ShortTitle string `json:"short_title"`
	Subtitle   string `json:"subtitle"`
}

// Verse is the atomic unit of the corpus.
//
// ID is a stable integer surrogate in canonical reading order (volume, book,
// chapter, verse). It is the dedup and alignment key across the keyword and
// semantic subsystems, and makes surrounding-context retrieval an
// integer-adjacent walk.
type Verse struct {
	ID         int    `json:"id"`
	VolumeID   int    `json:"volume_id"`
	BookID     int    `json:"book_id"`
	Chapter    int    `json:"chapter"`
	Number     int    `json:"verse"`
	Title      string `json:"title"`       // e.g. "Genesis 1:1"
	ShortTitle string `json:"short_title"` // e.g. "Gen. 1:1"
	Text       string `json:"text"`
}

// Reference is a parsed structured citation. Chapter of 0 means the
// reference names only a book; VerseStart of 0 means a whole chapter.
// VerseEnd is always >= VerseStart when both are set.
type Reference struct {
	BookID     int
	Chapter    int
	VerseStart int
	VerseEnd   int
}

// VerseContext holds a target verse with its ordered neighbors.
// Preceding and Following never cross a book boundary.
type VerseContext struct {
	Target    *Verse
	Preceding []*Verse
	Following []*Verse
}
