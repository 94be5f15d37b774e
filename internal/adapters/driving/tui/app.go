package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/keymap"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/messages"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/styles"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/views/record"
	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/views/records"
)

// App is the record browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	recordsView *records.View
	recordView  *record.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser with the given ports.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         ctx,
		styles:      s,
		keys:        keys,
		recordsView: records.NewView(ctx, s, keys, ports.Records),
		recordView:  record.NewView(ctx, s, keys, ports.Records),
		currentView: messages.ViewRecords,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("erpdoc - records"),
		a.recordsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.recordsView, _ = a.recordsView.Update(msg)
		a.recordView, _ = a.recordView.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewRecords {
			if keymap.Matches(msg.String(), a.keys.Quit) {
				return a, tea.Quit
			}
			a.recordsView, cmd = a.recordsView.Update(msg)
			return a, cmd
		}
		if msg.String() == "q" {
			return a, tea.Quit
		}
		a.recordView, cmd = a.recordView.Update(msg)
		return a, cmd

	case messages.RecordSelected:
		a.currentView = messages.ViewRecord
		return a, a.recordView.Load(msg.ID)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewRecords {
			// The record may have been published or deleted meanwhile.
			return a, a.recordsView.Init()
		}
		return a, nil

	case messages.RecordsLoaded, messages.RecordDeleted:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.RecordLoaded:
		a.recordView, cmd = a.recordView.Update(msg)
		return a, cmd

	case messages.RecordPublished:
		if a.currentView == messages.ViewRecord {
			a.recordView, cmd = a.recordView.Update(msg)
		} else {
			a.recordsView, cmd = a.recordsView.Update(msg)
		}
		return a, cmd
	}

	if a.currentView == messages.ViewRecord {
		a.recordView, cmd = a.recordView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewRecord {
		return a.recordView.View()
	}
	return a.recordsView.View()
}

// Run starts the program and blocks until the user quits or ctx ends.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if err != nil && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready reports whether a window size has been received.
func (a *App) Ready() bool {
	return a.ready
}
