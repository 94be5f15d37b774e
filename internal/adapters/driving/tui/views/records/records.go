// Package records provides the record list view for the TUI.
package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/keymap"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/messages"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/render"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// chromeLines is the number of lines used by the title, header and footer.
const chromeLines = 6

// View is the record list view.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	service driving.RecordService

	rows         []domain.RecordSummary
	selected     int
	scrollOffset int
	failedOnly   bool
	loading      bool
	status       string
	err          error
	width        int
	height       int
}

// NewView creates a new record list view.
func NewView(ctx context.Context, s *styles.Styles, keys *keymap.KeyMap, service driving.RecordService) *View {
	return &View{
		ctx:     ctx,
		styles:  s,
		keys:    keys,
		help:    help.New(),
		service: service,
	}
}

// Init loads the first page of records.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load returns a command that lists records with the current filter.
func (v *View) load() tea.Cmd {
	v.loading = true
	filter := domain.RecordFilter{FailedOnly: v.failedOnly}
	ctx, svc := v.ctx, v.service
	return func() tea.Msg {
		rows, err := svc.List(ctx, filter)
		return messages.RecordsLoaded{Records: rows, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.help.Width = msg.Width
		v.adjustScroll()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.rows = msg.Records
		if v.selected >= len(v.rows) {
			v.selected = max(len(v.rows)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.RecordDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.status = "Deleted " + msg.ID
		return v, v.load()

	case messages.RecordPublished:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Published " + msg.ID
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Down):
		if v.selected < len(v.rows)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Select):
		if row, ok := v.current(); ok {
			id := row.ID
			return v, func() tea.Msg { return messages.RecordSelected{ID: id} }
		}
	case keymap.Matches(k, v.keys.Refresh):
		v.status = ""
		return v, v.load()
	case keymap.Matches(k, v.keys.Failed):
		v.failedOnly = !v.failedOnly
		v.selected, v.scrollOffset = 0, 0
		return v, v.load()
	case keymap.Matches(k, v.keys.Delete):
		if row, ok := v.current(); ok {
			return v, v.deleteCmd(row.ID)
		}
	case keymap.Matches(k, v.keys.Publish):
		if row, ok := v.current(); ok {
			return v, PublishCmd(v.ctx, v.service, row.ID)
		}
	}
	return v, nil
}

func (v *View) deleteCmd(id string) tea.Cmd {
	ctx, svc := v.ctx, v.service
	return func() tea.Msg {
		return messages.RecordDeleted{ID: id, Err: svc.Delete(ctx, id)}
	}
}

// PublishCmd sends a record to the webhook in the background.
func PublishCmd(ctx context.Context, svc driving.RecordService, id string) tea.Cmd {
	return func() tea.Msg {
		return messages.RecordPublished{ID: id, Err: svc.Publish(ctx, id)}
	}
}

func (v *View) current() (domain.RecordSummary, bool) {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return domain.RecordSummary{}, false
	}
	return v.rows[v.selected], true
}

// visibleRows is the number of record rows that fit the terminal.
func (v *View) visibleRows() int {
	if v.height <= chromeLines {
		return max(len(v.rows), 1)
	}
	return v.height - chromeLines
}

func (v *View) adjustScroll() {
	n := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+n {
		v.scrollOffset = v.selected - n + 1
	}
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	title := "Records"
	if v.failedOnly {
		title += " (failed only)"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("No records found."))
		b.WriteString("\n")
	default:
		b.WriteString(v.styles.Subtitle.Render(formatRow("NUMBER", "CUSTOMER", "ITEMS", "TOTAL", "FILE")))
		b.WriteString("\n")
		end := min(v.scrollOffset+v.visibleRows(), len(v.rows))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
	default:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d records", len(v.rows))))
	}
	b.WriteString("\n")
	b.WriteString(v.help.ShortHelpView(v.keys.ListHelp()))
	return b.String()
}

func (v *View) renderRow(i int) string {
	r := v.rows[i]
	number := render.OrDash(r.Number)
	if !r.Success {
		number = "✗ " + number
	}
	line := formatRow(number, render.OrDash(r.CustomerCode), fmt.Sprintf("%d", r.ItemCount),
		render.OptMoney(r.Total), r.Filename)
	if i == v.selected {
		return v.styles.Selected.Render(line)
	}
	return line
}

func formatRow(number, customer, items, total, file string) string {
	return fmt.Sprintf("%-14s %-10s %5s %14s  %s", number, customer, items, total, file)
}

// Rows returns the loaded summaries.
func (v *View) Rows() []domain.RecordSummary {
	return v.rows
}

// Selected returns the highlighted index.
func (v *View) Selected() int {
	return v.selected
}

// FailedOnly reports whether the failed filter is on.
func (v *View) FailedOnly() bool {
	return v.failedOnly
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
