package corpus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	serr "github.com/noahread/escrituras/internal/errors"
)

// refPattern strips a trailing "chapter[:verse[-verse]]" from a citation.
// The lazy book group lets numbered books ("1 Nephi 3:7") keep their digit.
// Hyphen, en dash, and em dash are all accepted as range separators.
var refPattern = regexp.MustCompile(`^(.+?)\s+(\d+)(?:\s*:\s*(\d+)(?:\s*[-–—]\s*(\d+))?)?$`)

// citationPattern finds citation-shaped fragments inside free text,
// tolerating surrounding markdown emphasis markers.
var citationPattern = regexp.MustCompile(`(?:\*+|_+)?(?:([1-4])\s+)?([A-Za-z&][A-Za-z&.]*(?:\s+[A-Za-z&][A-Za-z&.]*)*)\s+(\d+)\s*:\s*(\d+)(?:\s*[-–—]\s*(\d+))?`)

// ParseReference resolves a free-text citation like "John 3:16", "D&C 4", or
// "1 Nephi 3:7-9" into a structured reference against the store's book table.
// Errors carry code unrecognized_book or malformed_range.
func ParseReference(s *Store, text string) (*Reference, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, serr.New(serr.ErrCodeUnrecognizedBook, "empty reference", nil)
	}

	if m := refPattern.FindStringSubmatch(raw); m != nil {
		if book, ok := resolveBook(s, m[1]); ok {
			ref := &Reference{BookID: book.ID, Chapter: mustAtoi(m[2])}
			if m[3] != "" {
				ref.VerseStart = mustAtoi(m[3])
				ref.VerseEnd = ref.VerseStart
				if m[4] != "" {
					ref.VerseEnd = mustAtoi(m[4])
					if ref.VerseEnd < ref.VerseStart {
						return nil, serr.New(serr.ErrCodeMalformedRange,
							fmt.Sprintf("verse range ends before it starts: %s", raw), nil)
					}
				}
			}
			return ref, nil
		}
	}

	// No trailing chapter pattern (or the remainder was not a book):
	// the whole text may be a bare book name like "1 Nephi".
	if book, ok := resolveBook(s, raw); ok {
		return &Reference{BookID: book.ID}, nil
	}

	return nil, serr.New(serr.ErrCodeUnrecognizedBook,
		fmt.Sprintf("unrecognized book in reference: %s", raw), nil).
		WithSuggestion("Use a full book title, short title, or abbreviation (e.g. \"Gen.\", \"D&C\").")
}

// FormatReference renders the canonical string form of a reference.
// For every valid reference r, ParseReference(s, FormatReference(s, r)) == r.
func FormatReference(s *Store, ref *Reference) string {
	book, ok := s.BookByID(ref.BookID)
	if !ok {
		return ""
	}

	out := book.Title
	if ref.Chapter > 0 {
		out += fmt.Sprintf(" %d", ref.Chapter)
		if ref.VerseStart > 0 {
			out += fmt.Sprintf(":%d", ref.VerseStart)
			if ref.VerseEnd > ref.VerseStart {
				out += fmt.Sprintf("-%d", ref.VerseEnd)
			}
		}
	}
	return out
}

// ExtractReferences scans free text (e.g. an AI response) for citations and
// returns the ones that resolve to verses that actually exist, deduplicated
// in order of first appearance.
func ExtractReferences(s *Store, text string) []Reference {
	var out []Reference
	seen := make(map[Reference]bool)

	for _, m := range citationPattern.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(m[2])
		if m[1] != "" {
			words = append([]string{m[1]}, words...)
		}

		chapter := mustAtoi(m[3])
		start := mustAtoi(m[4])
		end := start
		if m[5] != "" {
			end = mustAtoi(m[5])
			if end < start {
				continue
			}
		}

		// The book group matches greedily backward into preceding prose
		// ("see Alma 32:21" captures "see Alma"), so try progressively
		// shorter suffixes of the word list until one resolves.
		for i := 0; i < len(words); i++ {
			book, ok := resolveBook(s, strings.Join(words[i:], " "))
			if !ok {
				continue
			}
			ref := Reference{BookID: book.ID, Chapter: chapter, VerseStart: start, VerseEnd: end}
			if _, err := s.VersesForReference(&ref); err != nil {
				break // citation shaped, but no such verse
			}
			if !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
			break
		}
	}

	return out
}

// resolveBook matches a book name against all title variants.
// Precedence: exact full title, exact short title, exact long title, then
// prefix of any variant in canonical volume order.
func resolveBook(s *Store, name string) (*Book, bool) {
	want := normalizeBookName(name)
	if want == "" {
		return nil, false
	}

	for i := range s.books {
		if normalizeBookName(s.books[i].Title) == want {
			return &s.books[i], true
		}
	}
	for i := range s.books {
		if normalizeBookName(s.books[i].ShortTitle) == want {
			return &s.books[i], true
		}
	}
	for i := range s.books {
		if s.books[i].LongTitle != "" && normalizeBookName(s.books[i].LongTitle) == want {
			return &s.books[i], true
		}
	}
	for i := range s.books {
		b := &s.books[i]
		if strings.HasPrefix(normalizeBookName(b.Title), want) ||
			(b.ShortTitle != "" && strings.HasPrefix(normalizeBookName(b.ShortTitle), want)) {
			return b, true
		}
	}

	return nil, false
}

// normalizeBookName lowercases, strips dots, collapses whitespace, and folds
// ordinal spellings so "1 Nephi", "1st Nephi", and "First Nephi" compare equal.
func normalizeBookName(name string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(name), ".", "")
	fields := strings.Fields(cleaned)
	for i, f := range fields {
		switch f {
		case "1st", "first":
			fields[i] = "1"
		case "2nd", "second":
			fields[i] = "2"
		case "3rd", "third":
			fields[i] = "3"
		case "4th", "fourth":
			fields[i] = "4"
		}
	}
	return strings.Join(fields, " ")
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
