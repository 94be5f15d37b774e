// Package record provides the single record view for the TUI.
package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/keymap"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/messages"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/render"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/views/records"
	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

// footerLines is reserved below the viewport for status and help.
const footerLines = 3

// View shows one record in a scrollable viewport.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	service driving.RecordService

	viewport viewport.Model
	record   *domain.Record
	status   string
	err      error
}

// NewView creates a new record view.
func NewView(ctx context.Context, s *styles.Styles, keys *keymap.KeyMap, service driving.RecordService) *View {
	return &View{
		ctx:      ctx,
		styles:   s,
		keys:     keys,
		help:     help.New(),
		service:  service,
		viewport: viewport.New(80, 20),
	}
}

// Load resets the view and fetches the record.
func (v *View) Load(id string) tea.Cmd {
	v.record = nil
	v.status = ""
	v.err = nil
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	ctx, svc := v.ctx, v.service
	return func() tea.Msg {
		rec, err := svc.Get(ctx, id)
		return messages.RecordLoaded{Record: rec, Err: err}
	}
}

// Update handles messages for the record view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.viewport.Width = msg.Width
		v.viewport.Height = max(msg.Height-footerLines, 1)
		v.help.Width = msg.Width
		return v, nil

	case messages.RecordLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.record = msg.Record
		v.viewport.SetContent(render.RecordString(msg.Record, v.styles))
		return v, nil

	case messages.RecordPublished:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.status = "Published " + msg.ID
		}
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewRecords} }
		case keymap.Matches(k, v.keys.Publish):
			if v.record != nil {
				return v, records.PublishCmd(v.ctx, v.service, v.record.ID)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the record.
func (v *View) View() string {
	var b strings.Builder
	switch {
	case v.record == nil && v.err == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.record != nil:
		b.WriteString(v.viewport.View())
	}
	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
	}
	b.WriteString("\n")
	b.WriteString(v.help.ShortHelpView(v.keys.RecordHelp()))
	return b.String()
}

// Record returns the loaded record, if any.
func (v *View) Record() *domain.Record {
	return v.record
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
