// Package tui implements the interactive terminal UI for browsing and
// summarizing the document library, built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// view identifies the active screen.
type view int

const (
	viewList view = iota
	viewDetail
)

// Messages produced by background commands.
type (
	itemsMsg    []domain.DocumentListItem
	documentMsg *domain.Document
	errMsg      struct{ err error }
	refreshMsg  struct{}
)

// App is the root bubbletea model.
type App struct {
	ports *Ports
	ctx   context.Context

	view    view
	input   textinput.Model
	items   []domain.DocumentListItem
	cursor  int
	current *domain.Document
	status  string
	err     string
	width   int
	height  int
}

// NewApp creates the TUI application.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "search (prefix terms, AND-combined)"
	input.Prompt = "/ "
	input.CharLimit = 120

	return &App{
		ports: ports,
		ctx:   context.Background(),
		input: input,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// Init loads the initial document list.
func (a *App) Init() tea.Cmd {
	return a.loadItems("")
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case itemsMsg:
		a.items = msg
		if a.cursor >= len(a.items) {
			a.cursor = max(0, len(a.items)-1)
		}
		return a, nil

	case documentMsg:
		a.current = msg
		a.view = viewDetail
		a.status = ""
		return a, nil

	case refreshMsg:
		a.status = ""
		cmds := []tea.Cmd{a.loadItems(a.input.Value())}
		if a.view == viewDetail && a.current != nil {
			cmds = append(cmds, a.loadDocument(a.current.ID))
		}
		return a, tea.Batch(cmds...)

	case errMsg:
		a.err = msg.err.Error()
		a.status = ""
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey routes key presses by active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.view == viewDetail {
		return a.handleDetailKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = ""

	if a.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			a.input.Blur()
			return a, a.loadItems(a.input.Value())
		case tea.KeyEsc:
			a.input.SetValue("")
			a.input.Blur()
			return a, a.loadItems("")
		default:
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(msg)
			return a, cmd
		}
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "/":
		a.input.Focus()
		return a, textinput.Blink
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "enter":
		if item := a.selectedItem(); item != nil {
			return a, a.loadDocument(item.Document.ID)
		}
	case "d":
		if item := a.selectedItem(); item != nil {
			return a, a.deleteDocument(item.Document.ID)
		}
	case "s", "r":
		if item := a.selectedItem(); item != nil && a.ports.Scan != nil {
			a.status = fmt.Sprintf("Summarizing document %d...", item.Document.ID)
			return a, a.summarizeDocument(item.Document.ID)
		}
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		a.view = viewList
		a.current = nil
		return a, a.loadItems(a.input.Value())
	case "s", "r":
		if a.current != nil && a.ports.Scan != nil {
			a.status = "Summarizing..."
			return a, a.summarizeDocument(a.current.ID)
		}
	}
	return a, nil
}

// selectedItem returns the item under the cursor, if any.
func (a *App) selectedItem() *domain.DocumentListItem {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return nil
	}
	return &a.items[a.cursor]
}

// ==================== Commands ====================

func (a *App) loadItems(query string) tea.Cmd {
	return func() tea.Msg {
		items, err := a.ports.Library.Search(a.ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return itemsMsg(items)
	}
}

func (a *App) loadDocument(id int64) tea.Cmd {
	return func() tea.Msg {
		doc, err := a.ports.Library.Get(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return documentMsg(doc)
	}
}

func (a *App) deleteDocument(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.ports.Library.Delete(a.ctx, id); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (a *App) summarizeDocument(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.ports.Scan.StartSummaryFor(a.ctx, id, 0); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

// ==================== View ====================

// View renders the active screen.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("scandoc"))
	b.WriteString("\n\n")

	if a.view == viewDetail && a.current != nil {
		a.renderDetail(&b)
	} else {
		a.renderList(&b)
	}

	if a.status != "" {
		b.WriteString("\n" + dimStyle.Render(a.status))
	}
	if a.err != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+a.err))
	}

	return b.String()
}

func (a *App) renderList(b *strings.Builder) {
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	if len(a.items) == 0 {
		b.WriteString(dimStyle.Render("No documents. Add one with: scandoc add <file>"))
		b.WriteString("\n")
	}

	for i := range a.items {
		doc := a.items[i].Document
		line := fmt.Sprintf("%s %4d  %s", statusBadge(doc.Status), doc.ID, doc.Title)
		if i == a.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter open · / search · s summarize · d delete · q quit"))
}

func (a *App) renderDetail(b *strings.Builder) {
	doc := a.current
	b.WriteString(selectedStyle.Render(doc.Title))
	b.WriteString("  " + statusBadge(doc.Status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("id %d · created %s", doc.ID, doc.CreatedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	if doc.SummaryText != "" {
		b.WriteString(doc.SummaryText)
	} else {
		b.WriteString(dimStyle.Render("No summary yet. Press s to summarize."))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("s summarize · esc back · ctrl+c quit"))
}
