package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	serr "github.com/noahread/escrituras/internal/errors"
)

// Store is the in-memory corpus: volumes, books, and verses in canonical
// reading order, with lookup indices built once at load.
type Store struct {
	volumes []Volume
	books   []Book
	verses  []Verse

	volumeByID   map[int]int   // volume id -> index into volumes
	bookByID     map[int]int   // book id -> index into books
	verseByID    map[int]int   // verse id -> index into verses
	versesByBook map[int][]int // book id -> ordered verse indexes
}

// verseRecord is the wire form of a verse in the published dataset.
type verseRecord struct {
	VerseID          int    `json:"verse_id"`
	VolumeID         int    `json:"volume_id"`
	BookID           int    `json:"book_id"`
	VolumeTitle      string `json:"volume_title"`
	VolumeLongTitle  string `json:"volume_long_title"`
	VolumeShortTitle string `json:"volume_short_title"`
	BookTitle        string `json:"book_title"`
	BookLongTitle    string `json:"book_long_title"`
	BookShortTitle   string `json:"book_short_title"`
	BookSubtitle     string `json:"book_subtitle"`
	ChapterNumber    int    `json:"chapter_number"`
	VerseNumber      int    `json:"verse_number"`
	VerseTitle       string `json:"verse_title"`
	VerseShortTitle  string `json:"verse_short_title"`
	ScriptureText    string `json:"scripture_text"`
}

// structuredFile is the object form with explicit volume and book tables.
type structuredFile struct {
	Volumes    []Volume      `json:"volumes"`
	Books      []Book        `json:"books"`
	Scriptures []verseRecord `json:"scriptures"`
}

// Load reads and indexes the corpus file at path.
// A missing or malformed file is a fatal startup error.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serr.New(serr.ErrCodeCorpusNotFound,
			fmt.Sprintf("corpus file not found: %s", path), err).
			WithSuggestion("Download lds-scriptures.json into the data directory.")
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f)
}

// LoadReader decodes and indexes a corpus from r. Two formats are accepted:
// a flat JSON array of verse records (the published form, volumes and books
// synthesized in first-appearance order) or an object with explicit
// volumes/books/scriptures tables.
func LoadReader(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, serr.New(serr.ErrCodeCorpusInvalid, "failed to read corpus", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, serr.New(serr.ErrCodeCorpusInvalid, "corpus file is empty", nil)
	}

	var file structuredFile
	switch trimmed[0] {
	case '[':
		var records []verseRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, serr.New(serr.ErrCodeCorpusInvalid, "corpus is not valid JSON", err)
		}
		file.Scriptures = records
	case '{':
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, serr.New(serr.ErrCodeCorpusInvalid, "corpus is not valid JSON", err)
		}
	default:
		return nil, serr.New(serr.ErrCodeCorpusInvalid, "corpus must be a JSON array or object", nil)
	}

	return build(file)
}

// build assembles the store, synthesizing volume and book tables when the
// flat form omits them, and validates all cross-references.
func build(file structuredFile) (*Store, error) {
	if len(file.Scriptures) == 0 {
		return nil, serr.New(serr.ErrCodeCorpusInvalid, "corpus contains no verses", nil)
	}

	s := &Store{
		volumes:      file.Volumes,
		books:        file.Books,
		volumeByID:   make(map[int]int),
		bookByID:     make(map[int]int),
		verseByID:    make(map[int]int),
		versesByBook: make(map[int][]int),
	}

	synthesize := len(file.Volumes) == 0 && len(file.Books) == 0
	volumeIDByTitle := make(map[string]int)
	bookIDByTitle := make(map[string]int)

	for i := range s.volumes {
		v := &s.volumes[i]
		if _, dup := s.volumeByID[v.ID]; dup {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("duplicate volume id %d", v.ID), nil)
		}
		s.volumeByID[v.ID] = i
	}
	for i := range s.books {
		b := &s.books[i]
		if _, dup := s.bookByID[b.ID]; dup {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("duplicate book id %d", b.ID), nil)
		}
		if _, ok := s.volumeByID[b.VolumeID]; !ok {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("book %q references unknown volume id %d", b.Title, b.VolumeID), nil)
		}
		s.bookByID[b.ID] = i
	}

	s.verses = make([]Verse, 0, len(file.Scriptures))
	lastID := 0
	for i, rec := range file.Scriptures {
		verse := Verse{
			ID:         rec.VerseID,
			VolumeID:   rec.VolumeID,
			BookID:     rec.BookID,
			Chapter:    rec.ChapterNumber,
			Number:     rec.VerseNumber,
			Title:      rec.VerseTitle,
			ShortTitle: rec.VerseShortTitle,
			Text:       rec.ScriptureText,
		}
		if verse.ID == 0 {
			// The published flat form carries no surrogate ids; file order is
			// canonical order, so positional ids preserve it.
			verse.ID = i + 1
		}
		if verse.ID <= lastID {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("verse ids not strictly increasing at %q", rec.VerseTitle), nil)
		}
		lastID = verse.ID

		if synthesize {
			volKey := strings.ToLower(rec.VolumeTitle)
			volID, ok := volumeIDByTitle[volKey]
			if !ok {
				volID = len(s.volumes) + 1
				volumeIDByTitle[volKey] = volID
				s.volumes = append(s.volumes, Volume{
					ID:         volID,
					Title:      rec.VolumeTitle,
					LongTitle:  rec.VolumeLongTitle,
					ShortTitle: rec.VolumeShortTitle,
				})
				s.volumeByID[volID] = len(s.volumes) - 1
			}

			bookKey := strings.ToLower(rec.BookTitle)
			bookID, ok := bookIDByTitle[bookKey]
			if !ok {
				bookID = len(s.books) + 1
				bookIDByTitle[bookKey] = bookID
				s.books = append(s.books, Book{
					ID:         bookID,
					VolumeID:   volID,
					Title:      rec.BookTitle,
					LongTitle:  rec.BookLongTitle,
					ShortTitle: rec.BookShortTitle,
					Subtitle:   rec.BookSubtitle,
				})
				s.bookByID[bookID] = len(s.books) - 1
			}

			verse.VolumeID = volID
			verse.BookID = bookID
		}

		if _, ok := s.bookByID[verse.BookID]; !ok {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("verse %q references unknown book id %d", rec.VerseTitle, verse.BookID), nil)
		}
		if _, ok := s.volumeByID[verse.VolumeID]; !ok {
			return nil, serr.New(serr.ErrCodeCorpusInvalid,
				fmt.Sprintf("verse %q references unknown volume id %d", rec.VerseTitle, verse.VolumeID), nil)
		}

		idx := len(s.verses)
		s.verses = append(s.verses, verse)
		s.verseByID[verse.ID] = idx
		s.versesByBook[verse.BookID] = append(s.versesByBook[verse.BookID], idx)
	}

	return s, nil
}

// VerseByID returns the verse with the given id.
func (s *Store) VerseByID(id int) (*Verse, bool) {
	idx, ok := s.verseByID[id]
	if !ok {
		return nil, false
	}
	return &s.verses[idx], true
}

// AllVerses returns every verse in canonical order.
// The returned slice is shared; callers must not modify it.
func (s *Store) AllVerses() []Verse {
	return s.verses
}

// VerseCount returns the number of verses in the corpus.
func (s *Store) VerseCount() int {
	return len(s.verses)
}

// Volumes returns all volumes in canonical order.
func (s *Store) Volumes() []Volume {
	return s.volumes
}

// Books returns all books in canonical order.
func (s *Store) Books() []Book {
	return s.books
}

// VolumeByID returns the volume with the given id.
func (s *Store) VolumeByID(id int) (*Volume, bool) {
	idx, ok := s.volumeByID[id]
	if !ok {
		return nil, false
	}
	return &s.volumes[idx], true
}

// BookByID returns the book with the given id.
func (s *Store) BookByID(id int) (*Book, bool) {
	idx, ok := s.bookByID[id]
	if !ok {
		return nil, false
	}
	return &s.books[idx], true
}

// BooksByVolume returns the books of one volume in canonical order.
func (s *Store) BooksByVolume(volumeID int) []Book {
	var out []Book
	for _, b := range s.books {
		if b.VolumeID == volumeID {
			out = append(out, b)
		}
	}
	return out
}

// VolumeByTitle finds a volume by case-insensitive exact match on any
// title variant.
func (s *Store) VolumeByTitle(title string) (*Volume, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	for i := range s.volumes {
		v := &s.volumes[i]
		if strings.ToLower(v.Title) == want ||
			strings.ToLower(v.LongTitle) == want ||
			strings.ToLower(v.ShortTitle) == want {
			return v, true
		}
	}
	return nil, false
}

// FindBook finds a book by case-insensitive exact match on any title
// variant (title, long title, short title).
func (s *Store) FindBook(name string) (*Book, bool) {
	want := normalizeBookName(name)
	for i := range s.books {
		b := &s.books[i]
		if normalizeBookName(b.Title) == want ||
			normalizeBookName(b.LongTitle) == want ||
			normalizeBookName(b.ShortTitle) == want {
			return b, true
		}
	}
	return nil, false
}

// VersesByBook returns the ordered verses of a book matched by title.
func (s *Store) VersesByBook(title string) []*Verse {
	book, ok := s.FindBook(title)
	if !ok {
		return nil
	}
	return s.versesOf(book.ID)
}

// Chapter returns the ordered verses of one chapter.
func (s *Store) Chapter(bookID, chapter int) []*Verse {
	var out []*Verse
	for _, idx := range s.versesByBook[bookID] {
		v := &s.verses[idx]
		if v.Chapter == chapter {
			out = append(out, v)
		}
	}
	return out
}

// ChapterCount returns the number of chapters in a book.
func (s *Store) ChapterCount(bookID int) int {
	seen := 0
	last := -1
	for _, idx := range s.versesByBook[bookID] {
		if c := s.verses[idx].Chapter; c != last {
			seen++
			last = c
		}
	}
	return seen
}

// Chapters returns the distinct chapter numbers of a book in reading order.
func (s *Store) Chapters(bookID int) []int {
	var out []int
	last := -1
	for _, idx := range s.versesByBook[bookID] {
		if c := s.verses[idx].Chapter; c != last {
			out = append(out, c)
			last = c
		}
	}
	return out
}

// VersesForReference resolves a parsed reference to its ordered verses.
// Returns a reference-not-found error when the chapter or verse range
// matches nothing.
func (s *Store) VersesForReference(ref *Reference) ([]*Verse, error) {
	book, ok := s.BookByID(ref.BookID)
	if !ok {
		return nil, serr.New(serr.ErrCodeReferenceNotFound,
			fmt.Sprintf("unknown book id %d", ref.BookID), nil)
	}

	if ref.Chapter == 0 {
		return s.versesOf(book.ID), nil
	}

	chapter := s.Chapter(book.ID, ref.Chapter)
	if len(chapter) == 0 {
		return nil, serr.New(serr.ErrCodeReferenceNotFound,
			fmt.Sprintf("%s has no chapter %d", book.Title, ref.Chapter), nil)
	}

	if ref.VerseStart == 0 {
		return chapter, nil
	}

	var out []*Verse
	for _, v := range chapter {
		if v.Number >= ref.VerseStart && v.Number <= ref.VerseEnd {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, serr.New(serr.ErrCodeReferenceNotFound,
			fmt.Sprintf("%s %d has no verse %d", book.Title, ref.Chapter, ref.VerseStart), nil)
	}
	return out, nil
}

func (s *Store) versesOf(bookID int) []*Verse {
	idxs := s.versesByBook[bookID]
	out := make([]*Verse, len(idxs))
	for i, idx := range idxs {
		out[i] = &s.verses[idx]
	}
	return out
}
