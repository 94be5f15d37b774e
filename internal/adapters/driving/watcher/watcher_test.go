package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
)

type mockParser struct {
	mu    sync.Mutex
	paths []string
	opts  []driving.ParseOptions
	err   error
}

func (m *mockParser) ParseFile(_ context.Context, path string, opts driving.ParseOptions) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Record{ID: "id-" + filepath.Base(path), Filename: filepath.Base(path)}, nil
}

func (m *mockParser) ParseFiles(context.Context, []string, driving.ParseOptions, int) []driving.ParseOutcome {
	return nil
}

func (m *mockParser) ParseBytes(context.Context, string, []byte, driving.ParseOptions) (*domain.Record, error) {
	return nil, errors.New("not used")
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "QT6800001.xml")
	require.NoError(t, os.WriteFile(file, []byte("<Workbook/>"), 0644))
	hidden := filepath.Join(dir, ".QT.xml")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0644))
	other := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	sub := filepath.Join(dir, "sub.csv")
	require.NoError(t, os.Mkdir(sub, 0755))

	w := New(&mockParser{}, domain.WatchConfig{Dir: dir}, nil)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want string
	}{
		{"create", fsnotify.Event{Name: file, Op: fsnotify.Create}, file},
		{"write with chmod", fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, file},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, ""},
		{"remove", fsnotify.Event{Name: file, Op: fsnotify.Remove}, ""},
		{"hidden", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, ""},
		{"unsupported extension", fsnotify.Event{Name: other, Op: fsnotify.Create}, ""},
		{"directory", fsnotify.Event{Name: sub, Op: fsnotify.Create}, ""},
		{"vanished", fsnotify.Event{Name: filepath.Join(dir, "gone.csv"), Op: fsnotify.Create}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.handleEvent(tt.ev))
		})
	}
}

func TestEligible(t *testing.T) {
	assert.True(t, eligible("/in/SO6800001.CSV"))
	assert.True(t, eligible("scan.pdf"))
	assert.True(t, eligible("qt.txt"))
	assert.False(t, eligible("~$QT.xml"))
	assert.False(t, eligible("archive.zip"))
}

func TestProcess_MovesParsedFile(t *testing.T) {
	inbox := t.TempDir()
	done := filepath.Join(t.TempDir(), "done")
	require.NoError(t, os.MkdirAll(done, 0755))
	path := filepath.Join(inbox, "so.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0644))
	// A clash in the processed directory gets a prefixed name.
	require.NoError(t, os.WriteFile(filepath.Join(done, "so.csv"), []byte("old"), 0644))

	parser := &mockParser{}
	var got *domain.Record
	w := New(parser, domain.WatchConfig{Dir: inbox, ProcessedDir: done, Publish: true}, func(_ string, rec *domain.Record, err error) {
		require.NoError(t, err)
		got = rec
	})

	w.process(context.Background(), path)

	require.NotNil(t, got)
	assert.Equal(t, "id-so.csv", got.ID)
	assert.Equal(t, []driving.ParseOptions{{Store: true, Publish: true}}, parser.opts)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(done)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestProcess_FailureLeavesFile(t *testing.T) {
	inbox := t.TempDir()
	done := t.TempDir()
	path := filepath.Join(inbox, "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	var gotErr error
	w := New(&mockParser{err: domain.ErrUnsupportedForm}, domain.WatchConfig{Dir: inbox, ProcessedDir: done},
		func(_ string, _ *domain.Record, err error) { gotErr = err })

	w.process(context.Background(), path)

	assert.True(t, errors.Is(gotErr, domain.ErrUnsupportedForm))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRun_NotConfigured(t *testing.T) {
	err := New(&mockParser{}, domain.WatchConfig{}, nil).Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestRun_ParsesExistingAndNewFiles(t *testing.T) {
	inbox := t.TempDir()
	done := filepath.Join(t.TempDir(), "processed")
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "first.xml"), []byte("<Workbook/>"), 0644))

	seen := make(chan string, 4)
	w := New(&mockParser{}, domain.WatchConfig{Dir: inbox, ProcessedDir: done, Debounce: 20 * time.Millisecond},
		func(path string, _ *domain.Record, _ error) { seen <- filepath.Base(path) })

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	select {
	case name := <-seen:
		assert.Equal(t, "first.xml", name)
	case <-time.After(5 * time.Second):
		t.Fatal("existing file was not parsed")
	}

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "second.csv"), []byte("a,b"), 0644))
	select {
	case name := <-seen:
		assert.Equal(t, "second.csv", name)
	case <-time.After(5 * time.Second):
		t.Fatal("new file was not parsed")
	}

	cancel()
	require.NoError(t, <-errc)

	_, err := os.Stat(filepath.Join(done, "first.xml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(done, "second.csv"))
	assert.NoError(t, err)
}
