package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/noahread/escrituras/internal/corpus"
	serr "github.com/noahread/escrituras/internal/errors"
	"github.com/noahread/escrituras/internal/search"
	"github.com/noahread/escrituras/pkg/version"
)

// Context retrieval defaults when the caller omits before/after.
const (
	DefaultContextBefore = 2
	DefaultContextAfter  = 2
)

// Server bridges MCP clients to the corpus store and the hybrid search
// engine. All tool handlers read immutable state and are safe to run
// concurrently.
type Server struct {
	mcp    *mcp.Server
	store  *corpus.Store
	engine *search.Engine
	logger *slog.Logger
}

// NewServer creates the MCP server and registers its tools.
func NewServer(store *corpus.Store, engine *search.Engine) (*Server, error) {
	if store == nil {
		return nil, errors.New("corpus store is required")
	}
	if engine == nil {
		return nil, errors.New("search engine is required")
	}

	s := &Server{
		store:  store,
		engine: engine,
		logger: slog.Default(),
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "escrituras",
			Version: version.Version,
		},
		nil, // capabilities are inferred from registered tools
	)
	s.registerTools()

	return s, nil
}

// MCPServer exposes the underlying SDK server, mainly for tests.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Serve runs the server over stdio until ctx is canceled or the client
// disconnects. Stdout belongs to the protocol; logging must go elsewhere.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server",
		slog.String("version", version.Version),
		slog.Int("verses", s.store.VerseCount()),
		slog.Bool("semantic", s.engine.SemanticAvailable(ctx)))

	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped")
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lookup_verse",
		Description: "Look up a scripture by exact reference, e.g. 'John 3:16', '1 Nephi 3:7-9', or 'D&C 4:2'. Returns the verse text with its canonical citation.",
	}, s.handleLookupVerse)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lookup_chapter",
		Description: "Retrieve every verse of one chapter, e.g. 'Alma 32' or 'Psalms 23'. Use when a whole passage is needed rather than a single verse.",
	}, s.handleLookupChapter)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_scriptures",
		Description: "Search all scriptures by keyword or by meaning. Combines stemmed keyword matching with semantic similarity, so 'forgiveness of sins' also finds verses that phrase it differently.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_context",
		Description: "Get the verses surrounding a reference for reading context. Never crosses book boundaries.",
	}, s.handleGetContext)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_books",
		Description: "List the books of the scriptures grouped by volume, with chapter counts. Optionally filter to one volume.",
	}, s.handleListBooks)

	s.logger.Debug("MCP tools registered", slog.Int("count", 5))
}

// toolError returns a domain failure as a tool result so the channel stays
// open. Protocol-level failures return a real error instead.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func textResult(md string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: md}},
	}
}

// domainMessage renders a domain error for the client, suggestion included.
func domainMessage(err error) string {
	var e *serr.Error
	if errors.As(err, &e) {
		if e.Suggestion != "" {
			return fmt.Sprintf("%s %s", e.Message, e.Suggestion)
		}
		return e.Message
	}
	return err.Error()
}

func (s *Server) handleLookupVerse(ctx context.Context, _ *mcp.CallToolRequest, input LookupVerseInput) (
	*mcp.CallToolResult,
	LookupVerseOutput,
	error,
) {
	if input.Reference == "" {
		return nil, LookupVerseOutput{}, NewInvalidParamsError("reference parameter is required")
	}

	ref, err := corpus.ParseReference(s.store, input.Reference)
	if err != nil {
		return toolError(domainMessage(err)), LookupVerseOutput{}, nil
	}
	if ref.VerseStart == 0 {
		example := corpus.FormatReference(s.store, ref)
		if ref.Chapter == 0 {
			example += " 1:1"
		} else {
			example += ":1"
		}
		return toolError(fmt.Sprintf(
			"%q names a book or chapter; include a verse number, e.g. %q.",
			input.Reference, example)), LookupVerseOutput{}, nil
	}

	verses, err := s.store.VersesForReference(ref)
	if err != nil {
		return toolError(domainMessage(err)), LookupVerseOutput{}, nil
	}

	output := LookupVerseOutput{Verses: s.toVerseOutputs(verses)}
	return textResult(FormatVerses(output.Verses)), output, nil
}

func (s *Server) handleLookupChapter(ctx context.Context, _ *mcp.CallToolRequest, input LookupChapterInput) (
	*mcp.CallToolResult,
	LookupChapterOutput,
	error,
) {
	if input.Reference == "" {
		return nil, LookupChapterOutput{}, NewInvalidParamsError("reference parameter is required")
	}

	ref, err := corpus.ParseReference(s.store, input.Reference)
	if err != nil {
		return toolError(domainMessage(err)), LookupChapterOutput{}, nil
	}
	if ref.Chapter == 0 {
		return toolError(fmt.Sprintf(
			"%q names a whole book; include a chapter number, e.g. '%s 1'.",
			input.Reference, corpus.FormatReference(s.store, ref))), LookupChapterOutput{}, nil
	}

	// A verse part is ignored: the tool always returns the whole chapter.
	verses, err := s.store.VersesForReference(&corpus.Reference{BookID: ref.BookID, Chapter: ref.Chapter})
	if err != nil {
		return toolError(domainMessage(err)), LookupChapterOutput{}, nil
	}

	book, _ := s.store.BookByID(ref.BookID)
	output := LookupChapterOutput{
		Book:    book.Title,
		Chapter: ref.Chapter,
		Verses:  s.toVerseOutputs(verses),
	}
	return textResult(FormatChapter(output)), output, nil
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if input.Limit < 0 {
		return nil, SearchOutput{}, NewInvalidParamsError("limit must be non-negative")
	}

	results, err := s.engine.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}

	output := SearchOutput{Results: make([]SearchResultOutput, 0, len(results))}
	for _, r := range results {
		output.Results = append(output.Results, SearchResultOutput{
			VerseOutput: s.toVerseOutput(r.Verse),
			Score:       r.Score,
			MatchedBy:   string(r.MatchedBy),
		})
	}
	return textResult(FormatSearchResults(input.Query, output.Results)), output, nil
}

func (s *Server) handleGetContext(ctx context.Context, _ *mcp.CallToolRequest, input GetContextInput) (
	*mcp.CallToolResult,
	GetContextOutput,
	error,
) {
	if input.Reference == "" {
		return nil, GetContextOutput{}, NewInvalidParamsError("reference parameter is required")
	}
	before, after := DefaultContextBefore, DefaultContextAfter
	if input.Before != nil {
		before = *input.Before
	}
	if input.After != nil {
		after = *input.After
	}
	if before < 0 || after < 0 {
		return nil, GetContextOutput{}, NewInvalidParamsError("before and after must be non-negative")
	}

	ref, err := corpus.ParseReference(s.store, input.Reference)
	if err != nil {
		return toolError(domainMessage(err)), GetContextOutput{}, nil
	}
	if ref.VerseStart == 0 {
		return toolError(fmt.Sprintf(
			"%q is not a single verse; include a verse number.", input.Reference)), GetContextOutput{}, nil
	}

	verses, err := s.store.VersesForReference(ref)
	if err != nil {
		return toolError(domainMessage(err)), GetContextOutput{}, nil
	}

	// For a range, context centers on the first verse.
	vctx, err := s.store.Context(verses[0].ID, before, after)
	if err != nil {
		return toolError(domainMessage(err)), GetContextOutput{}, nil
	}

	output := GetContextOutput{
		Target:    s.toVerseOutput(vctx.Target),
		Preceding: s.toVerseOutputs(vctx.Preceding),
		Following: s.toVerseOutputs(vctx.Following),
	}
	return textResult(FormatContext(output)), output, nil
}

func (s *Server) handleListBooks(ctx context.Context, _ *mcp.CallToolRequest, input ListBooksInput) (
	*mcp.CallToolResult,
	ListBooksOutput,
	error,
) {
	volumes := s.store.Volumes()
	if input.Volume != "" {
		vol, ok := s.store.VolumeByTitle(input.Volume)
		if !ok {
			return toolError(fmt.Sprintf("unknown volume %q", input.Volume)), ListBooksOutput{}, nil
		}
		volumes = []corpus.Volume{*vol}
	}

	output := ListBooksOutput{Volumes: make([]VolumeOutput, 0, len(volumes))}
	for _, vol := range volumes {
		vo := VolumeOutput{Title: vol.Title}
		for _, b := range s.store.BooksByVolume(vol.ID) {
			vo.Books = append(vo.Books, BookOutput{
				Title:      b.Title,
				ShortTitle: b.ShortTitle,
				Chapters:   s.store.ChapterCount(b.ID),
			})
		}
		output.Volumes = append(output.Volumes, vo)
	}
	return textResult(FormatBooks(output)), output, nil
}

func (s *Server) toVerseOutput(v *corpus.Verse) VerseOutput {
	out := VerseOutput{
		Chapter:   v.Chapter,
		Verse:     v.Number,
		Text:      v.Text,
		Reference: v.Title,
	}
	if book, ok := s.store.BookByID(v.BookID); ok {
		out.Book = book.Title
	}
	if vol, ok := s.store.VolumeByID(v.VolumeID); ok {
		out.Volume = vol.Title
	}
	return out
}

func (s *Server) toVerseOutputs(verses []*corpus.Verse) []VerseOutput {
	out := make([]VerseOutput, len(verses))
	for i, v := range verses {
		out[i] = s.toVerseOutput(v)
	}
	return out
}
