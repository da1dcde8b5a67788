package mcp

import (
	"fmt"
	"strings"
)

// formatVerseLine renders one verse as a markdown blockquote with its
// canonical reference.
func formatVerseLine(sb *strings.Builder, v VerseOutput) {
	sb.WriteString(fmt.Sprintf("**%s**\n> %s\n\n", v.Reference, v.Text))
}

// FormatVerses renders a verse list (single verse, range, or chapter).
func FormatVerses(verses []VerseOutput) string {
	var sb strings.Builder
	for _, v := range verses {
		formatVerseLine(&sb, v)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatChapter renders a whole chapter with a heading.
func FormatChapter(out LookupChapterOutput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s %d\n\n", out.Book, out.Chapter))
	for _, v := range out.Verses {
		sb.WriteString(fmt.Sprintf("%d. %s\n", v.Verse, v.Text))
	}
	return sb.String()
}

// FormatSearchResults renders ranked results with score and match kind.
func FormatSearchResults(query string, results []SearchResultOutput) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q", query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Results for %q\n\n", query))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s, score %.3f)\n   %s\n\n",
			i+1, r.Reference, r.MatchedBy, r.Score, r.Text))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatContext renders a target verse with its surrounding verses, the
// target emphasized.
func FormatContext(out GetContextOutput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Context for %s\n\n", out.Target.Reference))
	for _, v := range out.Preceding {
		sb.WriteString(fmt.Sprintf("%d. %s\n", v.Verse, v.Text))
	}
	sb.WriteString(fmt.Sprintf("%d. **%s**\n", out.Target.Verse, out.Target.Text))
	for _, v := range out.Following {
		sb.WriteString(fmt.Sprintf("%d. %s\n", v.Verse, v.Text))
	}
	return sb.String()
}

// FormatBooks renders books grouped by volume with chapter counts.
func FormatBooks(out ListBooksOutput) string {
	var sb strings.Builder
	for _, vol := range out.Volumes {
		sb.WriteString(fmt.Sprintf("## %s\n\n", vol.Title))
		for _, b := range vol.Books {
			sb.WriteString(fmt.Sprintf("- %s", b.Title))
			if b.ShortTitle != "" && b.ShortTitle != b.Title {
				sb.WriteString(fmt.Sprintf(" (%s)", b.ShortTitle))
			}
			chapters := "chapters"
			if b.Chapters == 1 {
				chapters = "chapter"
			}
			sb.WriteString(fmt.Sprintf(", %d %s\n", b.Chapters, chapters))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
