// Package ui provides the interactive terminal browser for the corpus.
//
// The browse TUI drills volume -> book -> chapter and renders verse text in
// a scrollable viewport. A search box (opened with "/") runs the hybrid
// engine and lets the user jump straight into a result's chapter.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noahread/escrituras/internal/corpus"
	"github.com/noahread/escrituras/internal/search"
)

// pane identifies which view of the drill-down currently has focus.
type pane int

const (
	paneVolumes pane = iota
	paneBooks
	paneChapters
	paneVerses
	paneResults
)

const searchTimeout = 10 * time.Second

type searchResultsMsg struct {
	query   string
	results []search.Result
}

type searchErrMsg struct{ err error }

type volumeItem struct{ v corpus.Volume }

func (i volumeItem) Title() string       { return i.v.Title }
func (i volumeItem) Description() string { return i.v.LongTitle }
func (i volumeItem) FilterValue() string { return i.v.Title }

type bookItem struct {
	b        corpus.Book
	chapters int
}

func (i bookItem) Title() string { return i.b.Title }
func (i bookItem) Description() string {
	noun := "chapters"
	if i.chapters == 1 {
		noun = "chapter"
	}
	return fmt.Sprintf("%s (%d %s)", i.b.ShortTitle, i.chapters, noun)
}
func (i bookItem) FilterValue() string { return i.b.Title }

type chapterItem struct {
	book    *corpus.Book
	chapter int
	verses  int
}

func (i chapterItem) Title() string { return fmt.Sprintf("%s %d", i.book.Title, i.chapter) }
func (i chapterItem) Description() string {
	noun := "verses"
	if i.verses == 1 {
		noun = "verse"
	}
	return fmt.Sprintf("%d %s", i.verses, noun)
}
func (i chapterItem) FilterValue() string { return i.Title() }

type resultItem struct{ r search.Result }

func (i resultItem) Title() string { return i.r.Verse.Title }
func (i resultItem) Description() string {
	return fmt.Sprintf("(%s) %s", i.r.MatchedBy, i.r.Verse.Text)
}
func (i resultItem) FilterValue() string { return i.r.Verse.Title }

// Model is the bubbletea model for the browse TUI.
type Model struct {
	store  *corpus.Store
	engine *search.Engine
	styles Styles

	pane      pane
	volumes   list.Model
	books     list.Model
	chapters  list.Model
	results   list.Model
	verses    viewport.Model
	searchBox textinput.Model

	volume  *corpus.Volume
	book    *corpus.Book
	chapter int

	searching bool
	status    string

	width  int
	height int
}

// NewModel builds the browse model over a loaded store. The engine is
// optional; without it the search box reports that search is unavailable.
func NewModel(store *corpus.Store, engine *search.Engine, styles Styles) *Model {
	m := &Model{
		store:  store,
		engine: engine,
		styles: styles,
		pane:   paneVolumes,
		width:  80,
		height: 24,
	}

	items := make([]list.Item, 0, len(store.Volumes()))
	for _, v := range store.Volumes() {
		items = append(items, volumeItem{v: v})
	}
	m.volumes = m.newList("Volumes", items)
	m.books = m.newList("Books", nil)
	m.chapters = m.newList("Chapters", nil)
	m.results = m.newList("Results", nil)

	m.verses = viewport.New(m.width-4, m.height-6)

	ti := textinput.New()
	ti.Placeholder = "search scriptures"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	m.searchBox = ti

	return m
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(lipgloss.Color(ColorLime)).
		BorderForeground(lipgloss.Color(ColorLime))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(lipgloss.Color(ColorLimeDim)).
		BorderForeground(lipgloss.Color(ColorLime))

	l := list.New(items, d, m.width-4, m.height-6)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = m.styles.Header
	return l
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case searchResultsMsg:
		m.searching = false
		items := make([]list.Item, 0, len(msg.results))
		for _, r := range msg.results {
			items = append(items, resultItem{r: r})
		}
		m.results.SetItems(items)
		m.results.ResetSelected()
		m.results.Title = fmt.Sprintf("Results for %q", msg.query)
		m.pane = paneResults
		if len(items) == 0 {
			m.status = "no matches"
		} else {
			m.status = ""
		}
		return m, nil

	case searchErrMsg:
		m.searching = false
		m.status = m.styles.Error.Render("search failed: " + msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		if m.searchBox.Focused() {
			return m.updateSearchBox(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *Model) updateSearchBox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchBox.Blur()
		m.searchBox.SetValue("")
		m.status = ""
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.searchBox.Value())
		m.searchBox.Blur()
		m.searchBox.SetValue("")
		if query == "" {
			return m, nil
		}
		if m.jumpToCitation(query) {
			return m, nil
		}
		if m.engine == nil {
			m.status = m.styles.Error.Render("search unavailable")
			return m, nil
		}
		m.searching = true
		m.status = fmt.Sprintf("searching for %q...", query)
		return m, m.searchCmd(query)
	}
	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.searchBox.Focus()
		m.status = ""
		return m, textinput.Blink

	case "esc", "left", "h":
		m.back()
		return m, nil

	case "enter", "right", "l":
		if m.pane != paneVerses {
			m.descend()
			return m, nil
		}

	case "n":
		if m.pane == paneVerses {
			m.openChapter(m.book, m.chapter+1)
			return m, nil
		}

	case "p":
		if m.pane == paneVerses && m.chapter > 1 {
			m.openChapter(m.book, m.chapter-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.pane {
	case paneVolumes:
		m.volumes, cmd = m.volumes.Update(msg)
	case paneBooks:
		m.books, cmd = m.books.Update(msg)
	case paneChapters:
		m.chapters, cmd = m.chapters.Update(msg)
	case paneResults:
		m.results, cmd = m.results.Update(msg)
	case paneVerses:
		m.verses, cmd = m.verses.Update(msg)
	}
	return m, cmd
}

// descend opens the selected item one level down.
func (m *Model) descend() {
	switch m.pane {
	case paneVolumes:
		it, ok := m.volumes.SelectedItem().(volumeItem)
		if !ok {
			return
		}
		m.volume = &it.v
		books := m.store.BooksByVolume(it.v.ID)
		items := make([]list.Item, 0, len(books))
		for _, b := range books {
			items = append(items, bookItem{b: b, chapters: m.store.ChapterCount(b.ID)})
		}
		m.books.SetItems(items)
		m.books.ResetSelected()
		m.books.Title = it.v.Title
		m.pane = paneBooks

	case paneBooks:
		it, ok := m.books.SelectedItem().(bookItem)
		if !ok {
			return
		}
		b := it.b
		m.book = &b
		chapters := m.store.Chapters(b.ID)
		if len(chapters) == 1 {
			m.openChapter(&b, chapters[0])
			return
		}
		items := make([]list.Item, 0, len(chapters))
		for _, c := range chapters {
			items = append(items, chapterItem{book: &b, chapter: c, verses: len(m.store.Chapter(b.ID, c))})
		}
		m.chapters.SetItems(items)
		m.chapters.ResetSelected()
		m.chapters.Title = b.Title
		m.pane = paneChapters

	case paneChapters:
		it, ok := m.chapters.SelectedItem().(chapterItem)
		if !ok {
			return
		}
		m.openChapter(it.book, it.chapter)

	case paneResults:
		it, ok := m.results.SelectedItem().(resultItem)
		if !ok {
			return
		}
		v := it.r.Verse
		book, ok := m.store.BookByID(v.BookID)
		if !ok {
			return
		}
		if vol, ok := m.store.VolumeByID(book.VolumeID); ok {
			m.volume = vol
		}
		m.openChapter(book, v.Chapter)
	}
}

// back pops one level of the drill-down.
func (m *Model) back() {
	switch m.pane {
	case paneBooks:
		m.pane = paneVolumes
		m.volume = nil
	case paneChapters:
		m.pane = paneBooks
	case paneVerses:
		if m.book != nil && m.store.ChapterCount(m.book.ID) > 1 {
			m.pane = paneChapters
		} else {
			m.pane = paneBooks
		}
	case paneResults:
		m.pane = paneVolumes
	}
	m.status = ""
}

// openChapter loads a chapter into the viewport. Out-of-range chapters are
// ignored so n/p at the edges are no-ops.
func (m *Model) openChapter(book *corpus.Book, chapter int) {
	verses := m.store.Chapter(book.ID, chapter)
	if len(verses) == 0 {
		return
	}
	m.book = book
	m.chapter = chapter
	if vol, ok := m.store.VolumeByID(book.VolumeID); ok {
		m.volume = vol
	}

	var b strings.Builder
	for i, v := range verses {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.VerseNum.Render(fmt.Sprintf("%d", v.Number)))
		b.WriteString(" ")
		b.WriteString(v.Text)
	}
	m.verses.SetContent(lipgloss.NewStyle().Width(m.verses.Width).Render(b.String()))
	m.verses.GotoTop()
	m.pane = paneVerses
}

// jumpToCitation opens the cited chapter when the query is itself a
// citation like "John 3:16", or contains one ("see Alma 32:21"). Bare book
// names fall through so single-word queries still run a search.
func (m *Model) jumpToCitation(query string) bool {
	ref, err := corpus.ParseReference(m.store, query)
	if err != nil || ref.Chapter == 0 {
		refs := corpus.ExtractReferences(m.store, query)
		if len(refs) == 0 {
			return false
		}
		ref = &refs[0]
	}
	if _, err := m.store.VersesForReference(ref); err != nil {
		return false
	}
	book, ok := m.store.BookByID(ref.BookID)
	if !ok {
		return false
	}
	m.openChapter(book, ref.Chapter)
	m.status = ""
	return m.pane == paneVerses
}

func (m *Model) searchCmd(query string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		results, err := engine.Search(ctx, query, 0)
		if err != nil {
			return searchErrMsg{err: err}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func (m *Model) resize() {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	m.volumes.SetSize(w, h)
	m.books.SetSize(w, h)
	m.chapters.SetSize(w, h)
	m.results.SetSize(w, h)
	m.verses.Width = w
	m.verses.Height = h
	m.searchBox.Width = w - 4
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.styles.Breadcrumb.Render(m.breadcrumb()))

	if m.searchBox.Focused() {
		sections = append(sections, m.styles.SearchBox.Render(m.searchBox.View()))
	}

	switch m.pane {
	case paneVolumes:
		sections = append(sections, m.volumes.View())
	case paneBooks:
		sections = append(sections, m.books.View())
	case paneChapters:
		sections = append(sections, m.chapters.View())
	case paneResults:
		sections = append(sections, m.results.View())
	case paneVerses:
		title := fmt.Sprintf("%s %d", m.book.Title, m.chapter)
		sections = append(sections, m.styles.Reference.Render(title))
		sections = append(sections, m.verses.View())
	}

	if m.status != "" {
		sections = append(sections, m.status)
	}
	sections = append(sections, m.styles.Help.Render(m.helpLine()))

	return strings.Join(sections, "\n")
}

func (m *Model) breadcrumb() string {
	parts := []string{"escrituras"}
	if m.volume != nil && m.pane != paneVolumes && m.pane != paneResults {
		parts = append(parts, m.volume.Title)
	}
	if m.book != nil && (m.pane == paneChapters || m.pane == paneVerses) {
		parts = append(parts, m.book.Title)
	}
	if m.pane == paneVerses {
		parts = append(parts, fmt.Sprintf("%d", m.chapter))
	}
	return strings.Join(parts, " > ")
}

func (m *Model) helpLine() string {
	if m.searchBox.Focused() {
		return "enter: search  esc: cancel"
	}
	switch m.pane {
	case paneVerses:
		return "up/down: scroll  n/p: chapter  esc: back  /: search  q: quit"
	case paneVolumes:
		return "enter: open  /: search  q: quit"
	default:
		return "enter: open  esc: back  /: search  q: quit"
	}
}

// Browse runs the interactive browser until the user quits.
func Browse(store *corpus.Store, engine *search.Engine, noColor bool) error {
	styles := DefaultStyles()
	if noColor {
		styles = NoColorStyles()
	}
	p := tea.NewProgram(NewModel(store, engine, styles), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
