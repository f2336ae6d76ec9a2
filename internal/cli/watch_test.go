package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/c4x/pkg/pipeline"
)

type fakeBuild struct {
	compiles int
	writes   int
	err      error
}

func newTestWatchModel(fb *fakeBuild) *watchModel {
	m := newWatchModel(context.Background(), "system.c4x", "system.svg", make(chan struct{}))
	m.compile = func(context.Context) (*pipeline.Result, error) {
		fb.compiles++
		if fb.err != nil {
			return nil, fb.err
		}
		return &pipeline.Result{Stats: pipeline.Stats{Elements: 2, Relationships: 1}}, nil
	}
	m.write = func(*pipeline.Result) error {
		fb.writes++
		return nil
	}
	return m
}

// collect runs cmd and returns the messages it produces, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func compiled(t *testing.T, cmd tea.Cmd) compiledMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if cm, ok := msg.(compiledMsg); ok {
			return cm
		}
	}
	t.Fatal("command produced no compiledMsg")
	return compiledMsg{}
}

func TestWatchModel_Build(t *testing.T) {
	fb := &fakeBuild{}
	m := newTestWatchModel(fb)

	msg := compiled(t, m.startBuild())
	if !m.inFlight {
		t.Fatal("inFlight = false after startBuild")
	}
	_, cmd := m.Update(msg)
	for _, w := range collect(cmd) {
		m.Update(w)
	}

	if fb.compiles != 1 || fb.writes != 1 {
		t.Errorf("compiles, writes = %d, %d, want 1, 1", fb.compiles, fb.writes)
	}
	if m.builds != 1 || m.inFlight {
		t.Errorf("builds = %d, inFlight = %v, want 1, false", m.builds, m.inFlight)
	}
	if view := m.View(); !strings.Contains(view, "system.svg") || !strings.Contains(view, "2 elements") {
		t.Errorf("View() = %q, want output path and stats", view)
	}
}

func TestWatchModel_DiscardsStaleResult(t *testing.T) {
	fb := &fakeBuild{}
	m := newTestWatchModel(fb)

	msg := compiled(t, m.startBuild())
	m.Update(fileChangedMsg{})

	_, cmd := m.Update(msg)
	if cmd != nil {
		t.Error("stale result produced a command, want nil")
	}
	if fb.writes != 0 || m.discarded != 1 {
		t.Errorf("writes = %d, discarded = %d, want 0, 1", fb.writes, m.discarded)
	}

	// The pending debounce for the new generation starts the next build.
	_, cmd = m.Update(debounceMsg{gen: m.gen})
	if cmd == nil || !m.inFlight {
		t.Fatal("debounce for current gen did not start a build")
	}
}

func TestWatchModel_SingleBuildInFlight(t *testing.T) {
	fb := &fakeBuild{}
	m := newTestWatchModel(fb)

	first := compiled(t, m.startBuild())
	if _, cmd := m.Update(debounceMsg{gen: m.gen}); cmd != nil {
		t.Error("second build started while one is in flight")
	}
	if !m.dirty {
		t.Fatal("dirty = false, want true")
	}

	_, cmd := m.Update(first)
	if fb.writes != 0 {
		t.Error("result overtaken by a rebuild request was written")
	}
	second := compiled(t, cmd)
	if fb.compiles != 2 {
		t.Errorf("compiles = %d, want 2", fb.compiles)
	}
	if second.gen != m.gen {
		t.Errorf("rebuild gen = %d, want %d", second.gen, m.gen)
	}
}

func TestWatchModel_StaleDebounce(t *testing.T) {
	m := newTestWatchModel(&fakeBuild{})
	m.Update(fileChangedMsg{})
	m.Update(fileChangedMsg{})

	if _, cmd := m.Update(debounceMsg{gen: 1}); cmd != nil {
		t.Error("stale debounce started a build")
	}
	if m.inFlight {
		t.Error("inFlight = true after stale debounce")
	}
}

func TestWatchModel_CompileError(t *testing.T) {
	fb := &fakeBuild{err: errors.New("boom")}
	m := newTestWatchModel(fb)

	_, cmd := m.Update(compiled(t, m.startBuild()))
	if cmd != nil {
		t.Error("failed build produced a write command")
	}
	if m.lastErr == nil || fb.writes != 0 {
		t.Errorf("lastErr = %v, writes = %d", m.lastErr, fb.writes)
	}
	if view := m.View(); !strings.Contains(view, "boom") {
		t.Errorf("View() = %q, want error message", view)
	}
}

func TestWatchModel_Keys(t *testing.T) {
	m := newTestWatchModel(&fakeBuild{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil || !m.inFlight || m.gen != 1 {
		t.Errorf("r: inFlight = %v, gen = %d, want true, 1", m.inFlight, m.gen)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned nil command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestIsSourceChange(t *testing.T) {
	const path = "/work/system.c4x"
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"sibling", fsnotify.Event{Name: "/work/system.svg", Op: fsnotify.Write}, false},
		{"unclean path", fsnotify.Event{Name: "/work/./system.c4x", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSourceChange(tt.ev, path); got != tt.want {
				t.Errorf("isSourceChange(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
