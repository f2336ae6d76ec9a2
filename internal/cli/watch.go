package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/pipeline"
)

// watchDebounce is how long the file must stay quiet before a rebuild.
const watchDebounce = 150 * time.Millisecond

type watchOpts struct {
	output  string
	format  string
	noCache bool
	compileFlags
}

func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Rebuild a diagram whenever its source changes",
		Long: `Watch a .c4x file and recompile it on every save.

Edits are debounced and at most one compilation runs at a time. A result
that was overtaken by a newer edit is discarded instead of written. Press
r to force a rebuild and q to quit.`,
		Example: `  c4x watch system.c4x
  c4x watch system.c4x -o docs/system.svg --theme modern`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, graphviz, json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	opts.compileFlags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path string, opts watchOpts) error {
	logger := loggerFromContext(ctx)

	format := opts.format
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	popts, err := c.compileOptions(opts.compileFlags, []string{format})
	if err != nil {
		return err
	}
	popts.Workspace = workspaceName(path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	output := outputPaths(path, opts.output, popts.Formats, false)[format]

	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors often replace the file on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan struct{}, 1)
	go forwardChanges(ctx, watcher, abs, changes, logger)

	m := newWatchModel(ctx, path, output, changes)
	m.compile = func(ctx context.Context) (*pipeline.Result, error) {
		src, err := os.ReadFile(abs)
		if err != nil {
			return nil, err
		}
		return runner.Execute(ctx, string(src), popts)
	}
	m.write = func(res *pipeline.Result) error {
		_, err := writeArtifacts(res, popts.Formats, map[string]string{format: output})
		return err
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(c.out)}
	if !isTerminal(os.Stdout) {
		m.log = logger
		progOpts = append(progOpts, tea.WithoutRenderer())
	}
	if !isTerminal(os.Stdin) {
		progOpts = append(progOpts, tea.WithInput(nil))
	}
	if m.log != nil {
		m.log.Info("watching", "file", path, "output", output)
	}

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// forwardChanges turns watcher events for path into coalesced signals on
// out. It returns when ctx ends or the watcher closes.
func forwardChanges(ctx context.Context, w *fsnotify.Watcher, path string, out chan<- struct{}, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !isSourceChange(ev, path) {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// isSourceChange reports whether ev touched path's content. Chmod and
// events for sibling files are ignored.
func isSourceChange(ev fsnotify.Event, path string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(path) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

type watchKeys struct {
	rebuild key.Binding
	quit    key.Binding
}

func defaultWatchKeys() watchKeys {
	return watchKeys{
		rebuild: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rebuild")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type (
	fileChangedMsg struct{}

	debounceMsg struct{ gen int }

	compiledMsg struct {
		gen     int
		id      string
		res     *pipeline.Result
		err     error
		elapsed time.Duration
	}

	writtenMsg struct {
		id  string
		res *pipeline.Result
		err error
	}
)

// watchModel drives rebuilds. Every change bumps gen; a compilation
// carries the gen it started with and its result is dropped when gen has
// moved on. At most one compilation is in flight; requests that arrive
// meanwhile set dirty and trigger one more build when it finishes.
type watchModel struct {
	ctx     context.Context
	path    string
	output  string
	changes <-chan struct{}

	compile func(context.Context) (*pipeline.Result, error)
	write   func(*pipeline.Result) error
	log     *log.Logger // set when there is no renderer

	keys    watchKeys
	spinner spinner.Model

	gen      int
	inFlight bool
	dirty    bool
	buildID  string

	builds    int
	discarded int
	lastRes   *pipeline.Result
	lastErr   error
	elapsed   time.Duration
	quitting  bool
}

func newWatchModel(ctx context.Context, path, output string, changes <-chan struct{}) *watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleIconSpinner

	return &watchModel{
		ctx:     ctx,
		path:    path,
		output:  output,
		changes: changes,
		keys:    defaultWatchKeys(),
		spinner: sp,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.startBuild())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.rebuild):
			m.gen++
			return m, m.startBuild()
		}
		return m, nil

	case fileChangedMsg:
		m.gen++
		gen := m.gen
		return m, tea.Batch(m.waitForChange(), tea.Tick(watchDebounce, func(time.Time) tea.Msg {
			return debounceMsg{gen: gen}
		}))

	case debounceMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.startBuild()

	case compiledMsg:
		m.inFlight = false
		if msg.gen != m.gen || m.dirty {
			m.discarded++
			m.debug("discarded stale build", "build", msg.id)
			if m.dirty {
				return m, m.startBuild()
			}
			return m, nil
		}
		m.elapsed = msg.elapsed
		if msg.err != nil {
			m.lastErr = msg.err
			m.logBuild()
			return m, nil
		}
		return m, m.writeCmd(msg.id, msg.res)

	case writtenMsg:
		m.builds++
		m.lastErr = msg.err
		if msg.err == nil {
			m.lastRes = msg.res
		}
		m.logBuild()
		return m, nil

	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startBuild launches a compilation for the current gen, or marks the
// model dirty when one is already running.
func (m *watchModel) startBuild() tea.Cmd {
	if m.inFlight {
		m.dirty = true
		return nil
	}
	m.inFlight = true
	m.dirty = false
	m.buildID = uuid.NewString()[:8]
	m.debug("build started", "build", m.buildID, "gen", m.gen)

	ctx, gen, id, compile := m.ctx, m.gen, m.buildID, m.compile
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		start := time.Now()
		res, err := compile(ctx)
		return compiledMsg{gen: gen, id: id, res: res, err: err, elapsed: time.Since(start)}
	})
}

func (m *watchModel) writeCmd(id string, res *pipeline.Result) tea.Cmd {
	write := m.write
	return func() tea.Msg {
		return writtenMsg{id: id, res: res, err: write(res)}
	}
}

func (m *watchModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-m.changes:
			return fileChangedMsg{}
		}
	}
}

func (m *watchModel) debug(msg string, kv ...any) {
	if m.log != nil {
		m.log.Debug(msg, kv...)
	}
}

func (m *watchModel) logBuild() {
	if m.log == nil {
		return
	}
	if m.lastErr != nil {
		m.log.Error("build failed", "err", formatDiagnostic(m.path, m.lastErr))
		return
	}
	s := m.lastRes.Stats
	m.log.Info("built", "output", m.output, "elements", s.Elements,
		"relationships", s.Relationships, "duration", roundDuration(m.elapsed))
}

func (m *watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("watching") + " " + StyleValue.Render(m.path) + "\n\n")

	switch {
	case m.inFlight:
		b.WriteString(m.spinner.View() + " " + StyleDim.Render("building..."))
	case m.lastErr != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + formatDiagnostic(m.path, m.lastErr))
	case m.lastRes != nil:
		s := m.lastRes.Stats
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + StyleValue.Render(m.output) + " " +
			StyleDim.Render(fmt.Sprintf("(%s, %s, %s)",
				plural(s.Elements, "element"), plural(s.Relationships, "relationship"), roundDuration(m.elapsed))))
	default:
		b.WriteString(StyleDim.Render("waiting for changes"))
	}
	b.WriteString("\n\n")

	help := []string{m.keys.rebuild.Help().Key + " " + m.keys.rebuild.Help().Desc,
		m.keys.quit.Help().Key + " " + m.keys.quit.Help().Desc}
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %s", plural(m.builds, "build"), strings.Join(help, " · "))))
	b.WriteString("\n")
	return b.String()
}
