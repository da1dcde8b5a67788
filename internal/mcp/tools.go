package mcp

// LookupVerseInput defines the input schema for the lookup_verse tool.
type LookupVerseInput struct {
	Reference string `json:"reference" jsonschema:"scripture reference, e.g. 'John 3:16', '1 Nephi 3:7-9', 'D&C 4:2'"`
}

// LookupVerseOutput defines the output schema for the lookup_verse tool.
type LookupVerseOutput struct {
	Verses []VerseOutput `json:"verses" jsonschema:"the verse or verse range, in reading order"`
}

// LookupChapterInput defines the input schema for the lookup_chapter tool.
type LookupChapterInput struct {
	Reference string `json:"reference" jsonschema:"book and chapter, e.g. 'Alma 32' or 'Psalms 23'"`
}

// LookupChapterOutput defines the output schema for the lookup_chapter tool.
type LookupChapterOutput struct {
	Book    string        `json:"book" jsonschema:"book title"`
	Chapter int           `json:"chapter" jsonschema:"chapter number"`
	Verses  []VerseOutput `json:"verses" jsonschema:"every verse of the chapter, in order"`
}

// SearchInput defines the input schema for the search_scriptures tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query, by keyword or by meaning"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10, max 50"`
}

// SearchOutput defines the output schema for the search_scriptures tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results" jsonschema:"ranked verses"`
}

// SearchResultOutput is one ranked verse.
type SearchResultOutput struct {
	VerseOutput
	Score     float64 `json:"score" jsonschema:"relevance score"`
	MatchedBy string  `json:"matched_by" jsonschema:"which search matched: title, keyword, semantic, or both"`
}

// GetContextInput defines the input schema for the get_context tool.
// Before and After are pointers so an explicit 0 differs from absent.
type GetContextInput struct {
	Reference string `json:"reference" jsonschema:"single verse reference, e.g. 'Alma 32:21'"`
	Before    *int   `json:"before,omitempty" jsonschema:"verses before the target, default 2"`
	After     *int   `json:"after,omitempty" jsonschema:"verses after the target, default 2"`
}

// GetContextOutput defines the output schema for the get_context tool.
type GetContextOutput struct {
	Target    VerseOutput   `json:"target" jsonschema:"the requested verse"`
	Preceding []VerseOutput `json:"preceding" jsonschema:"verses before the target, reading order"`
	Following []VerseOutput `json:"following" jsonschema:"verses after the target, reading order"`
}

// ListBooksInput defines the input schema for the list_books tool.
type ListBooksInput struct {
	Volume string `json:"volume,omitempty" jsonschema:"optional volume filter, e.g. 'Book of Mormon'"`
}

// ListBooksOutput defines the output schema for the list_books tool.
type ListBooksOutput struct {
	Volumes []VolumeOutput `json:"volumes" jsonschema:"books grouped by volume, canonical order"`
}

// VolumeOutput is one volume with its books.
type VolumeOutput struct {
	Title string       `json:"title" jsonschema:"volume title"`
	Books []BookOutput `json:"books" jsonschema:"books of the volume, canonical order"`
}

// BookOutput is one book summary.
type BookOutput struct {
	Title      string `json:"title" jsonschema:"book title"`
	ShortTitle string `json:"short_title,omitempty" jsonschema:"abbreviated title"`
	Chapters   int    `json:"chapters" jsonschema:"number of chapters"`
}

// VerseOutput is the wire form of a verse.
type VerseOutput struct {
	Volume    string `json:"volume" jsonschema:"volume title"`
	Book      string `json:"book" jsonschema:"book title"`
	Chapter   int    `json:"chapter" jsonschema:"chapter number"`
	Verse     int    `json:"verse" jsonschema:"verse number"`
	Text      string `json:"text" jsonschema:"verse text"`
	Reference string `json:"reference" jsonschema:"canonical reference string"`
}
