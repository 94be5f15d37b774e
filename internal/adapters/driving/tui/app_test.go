package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/adapters/driving/tui/messages"
	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// mockRecordService implements driving.RecordService for testing.
type mockRecordService struct {
	rows    []domain.RecordSummary
	records map[string]*domain.Record
}

func (m *mockRecordService) List(context.Context, domain.RecordFilter) ([]domain.RecordSummary, error) {
	return m.rows, nil
}

func (m *mockRecordService) Get(_ context.Context, id string) (*domain.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockRecordService) Delete(context.Context, string) error  { return nil }
func (m *mockRecordService) Publish(context.Context, string) error { return nil }

func (m *mockRecordService) Customers(context.Context, int) ([]domain.CustomerSummary, error) { return nil, nil }

func (m *mockRecordService) Stats(context.Context) (*domain.StoreStats, error) { return &domain.StoreStats{}, nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	rec := &domain.Record{
		ID: "r1",
		Result: domain.ParseResult{
			Meta: domain.DocumentMeta{Type: domain.DocSalesOrder, Number: "SO6800012"},
		},
	}
	svc := &mockRecordService{
		rows:    []domain.RecordSummary{rec.Summarise()},
		records: map[string]*domain.Record{"r1": rec},
	}
	app, err := NewApp(context.Background(), &Ports{Records: svc})
	require.NoError(t, err)
	return app
}

func update(t *testing.T, a *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(msg)
	return cmd
}

func TestNewApp_RequiresRecords(t *testing.T) {
	_, err := NewApp(context.Background(), &Ports{})
	assert.True(t, errors.Is(err, ErrMissingRecordService))

	_, err = NewApp(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrMissingRecordService))
}

func TestApp_ViewBeforeReady(t *testing.T) {
	a := newTestApp(t)

	assert.False(t, a.Ready())
	assert.Equal(t, "Initialising...", a.View())
}

func TestApp_ListThenOpenThenBack(t *testing.T) {
	a := newTestApp(t)
	update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, a.Ready())

	update(t, a, messages.RecordsLoaded{Records: []domain.RecordSummary{{ID: "r1", Number: "SO6800012"}}})
	assert.Contains(t, a.View(), "SO6800012")

	cmd := update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd = update(t, a, cmd())
	assert.Equal(t, messages.ViewRecord, a.CurrentView())

	require.NotNil(t, cmd)
	update(t, a, cmd())
	assert.Contains(t, a.View(), "Sales order SO6800012")

	cmd = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	update(t, a, cmd())
	assert.Equal(t, messages.ViewRecords, a.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)

			cmd := update(t, a, tt.msg)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}
