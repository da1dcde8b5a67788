// Package output provides CLI output formatting: status lines, verse
// rendering, and ranked search results, with color when stdout is a
// terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/search"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out    io.Writer
	styles styles
}

type styles struct {
	reference lipgloss.Style
	text      lipgloss.Style
	meta      lipgloss.Style
	heading   lipgloss.Style
	target    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		reference: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		text:      lipgloss.NewStyle(),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		heading:   lipgloss.NewStyle().Bold(true).Underline(true),
		target:    lipgloss.NewStyle().Bold(true),
	}
}

// New creates a Writer, enabling color when out is a terminal.
func New(out io.Writer) *Writer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, styles: newStyles(color)}
}

// NewPlain creates a Writer with color disabled regardless of terminal.
func NewPlain(out io.Writer) *Writer {
	return &Writer{out: out, styles: newStyles(false)}
}

// Status prints a status message with an icon. Write errors to the console
// are intentionally ignored.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Success prints a success message.
func (w *Writer) Success(msg string) { w.Status("✅", msg) }

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) { w.Success(fmt.Sprintf(format, args...)) }

// Warning prints a warning message.
func (w *Writer) Warning(msg string) { w.Status("⚠️ ", msg) }

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) { w.Warning(fmt.Sprintf(format, args...)) }

// Error prints an error message.
func (w *Writer) Error(msg string) { w.Status("❌", msg) }

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) { w.Error(fmt.Sprintf(format, args...)) }

// Newline prints an empty line.
func (w *Writer) Newline() { _, _ = fmt.Fprintln(w.out) }

// Heading prints a section heading.
func (w *Writer) Heading(text string) {
	_, _ = fmt.Fprintf(w.out, "%s\n", w.styles.heading.Render(text))
}

// Verse prints one verse with its canonical reference.
func (w *Writer) Verse(v *corpus.Verse) {
	_, _ = fmt.Fprintf(w.out, "%s\n%s\n",
		w.styles.reference.Render(v.Title),
		w.styles.text.Render(wrapText(v.Text, 80)))
}

// Verses prints a verse list separated by blank lines.
func (w *Writer) Verses(verses []*corpus.Verse) {
	for i, v := range verses {
		if i > 0 {
			w.Newline()
		}
		w.Verse(v)
	}
}

// SearchResults prints ranked results with their score and match kind.
func (w *Writer) SearchResults(query string, results []search.Result) {
	if len(results) == 0 {
		_, _ = fmt.Fprintf(w.out, "No results found for %q\n", query)
		return
	}

	for i, r := range results {
		if i > 0 {
			w.Newline()
		}
		_, _ = fmt.Fprintf(w.out, "%s %s\n%s\n",
			w.styles.reference.Render(r.Verse.Title),
			w.styles.meta.Render(fmt.Sprintf("(%s, %.3f)", r.MatchedBy, r.Score)),
			wrapText(r.Verse.Text, 80))
	}
}

// Context prints a verse with its neighbors, target emphasized.
func (w *Writer) Context(vctx *corpus.VerseContext) {
	for _, v := range vctx.Preceding {
		_, _ = fmt.Fprintf(w.out, "%d. %s\n", v.Number, v.Text)
	}
	_, _ = fmt.Fprintf(w.out, "%d. %s\n", vctx.Target.Number,
		w.styles.target.Render(vctx.Target.Text))
	for _, v := range vctx.Following {
		_, _ = fmt.Fprintf(w.out, "%d. %s\n", v.Number, v.Text)
	}
}

// Books prints books grouped by volume with chapter counts.
func (w *Writer) Books(store *corpus.Store, volumes []corpus.Volume) {
	for i, vol := range volumes {
		if i > 0 {
			w.Newline()
		}
		w.Heading(vol.Title)
		for _, b := range store.BooksByVolume(vol.ID) {
			label := b.Title
			if b.ShortTitle != "" && b.ShortTitle != b.Title {
				label += fmt.Sprintf(" (%s)", b.ShortTitle)
			}
			count := store.ChapterCount(b.ID)
			unit := "chapters"
			if count == 1 {
				unit = "chapter"
			}
			_, _ = fmt.Fprintf(w.out, "  %s %s\n", label,
				w.styles.meta.Render(fmt.Sprintf("(%d %s)", count, unit)))
		}
	}
}

// wrapText wraps text at width on word boundaries.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteByte('\n')
				lineLen = 0
			} else {
				sb.WriteByte(' ')
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
