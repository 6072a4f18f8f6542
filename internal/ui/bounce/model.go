// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bounce

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/bouncer/internal/animation"
	"github.com/jeranaias/bouncer/internal/logging"
	"github.com/jeranaias/bouncer/internal/physics"
	"github.com/jeranaias/bouncer/internal/refresh"
	"github.com/jeranaias/bouncer/internal/ui/styles"
	"github.com/jeranaias/bouncer/internal/util"
	"github.com/jeranaias/bouncer/internal/viewport"
)

// HeaderText is shown in the top-left corner while the header is visible.
const HeaderText = "getService build in progress"

// LoadingText is shown in the box until the first fetch completes.
const LoadingText = "Loading..."

// DefaultFPS is the frame rate used when Options.FPS is out of range.
const DefaultFPS = 60

// Options configures a Model.
type Options struct {
	// FPS is the frame rate, 1-120.
	FPS        int
	ShowHeader bool
	ShowHelp   bool

	Fetcher refresh.Fetcher
	Logger  logrus.FieldLogger

	// Optional. Tests inject these.
	Theme     *styles.Theme
	Rand      physics.Rand
	Now       func() time.Time
	Animation *animation.Config
}

// frameMsg is one frame of the animation clock.
type frameMsg time.Time

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model of the bouncer screen.
type Model struct {
	theme   *styles.Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	log     logrus.FieldLogger

	sched  *hostScheduler
	hub    *viewport.Hub
	layout *layout
	surf   *termSurface
	loop   *animation.Loop

	fps         int
	showHelp    bool
	now         func() time.Time
	refreshedAt time.Time
	quitting    bool
}

// New builds the model. The animation starts in Init.
func New(opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	fps := opts.FPS
	if fps < 1 || fps > 120 {
		fps = DefaultFPS
	}
	cfg := animation.DefaultConfig()
	if opts.Animation != nil {
		cfg = *opts.Animation
	}

	m := &Model{
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     newHelp(theme),
		spinner:  newSpinner(),
		log:      logging.Component(opts.Logger, "tui"),
		sched:    newHostScheduler(),
		hub:      viewport.NewHub(),
		surf:     newTermSurface(now),
		fps:      fps,
		showHelp: opts.ShowHelp,
		now:      now,
	}
	m.layout = &layout{}
	if opts.ShowHeader {
		m.layout.headerRows = 1
	}
	m.layout.footerRows = m.footerRows()

	tracker := viewport.NewTracker(m.layout, m.layout, cfg.Physics.Safety)
	m.loop = animation.New(cfg, animation.Deps{
		Surface:   m.surf,
		Tracker:   tracker,
		Events:    m.hub,
		Scheduler: m.sched,
		Fetcher:   opts.Fetcher,
		Rand:      opts.Rand,
		Logger:    opts.Logger,
	})
	m.loop.Refresh().OnUpdate(func(refresh.Message) {
		m.refreshedAt = m.now()
	})
	return m
}

func newHelp(theme *styles.Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc
	h.Styles.FullKey = theme.ShortcutKey
	h.Styles.FullDesc = theme.ShortcutDesc
	return h
}

// newSpinner returns an unstyled ASCII spinner. The canvas colors it.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle()
	return s
}

// Init starts the animation loop and the frame clock.
func (m *Model) Init() tea.Cmd {
	m.loop.Start()
	return tea.Batch(m.sched.listen(), m.spinner.Tick, m.frameTick())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.sched.runFrames()
		m.loop.Tick(time.Time(msg))
		return m, m.frameTick()

	case callbackMsg:
		if m.sched.closed() {
			return m, nil
		}
		msg.fn()
		return m, m.sched.listen()

	case spinner.TickMsg:
		if m.loaded() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.layout.width = msg.Width
	m.layout.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.help.Width = msg.Width
	m.surf.mounted = msg.Width > 0 && msg.Height > 0
	m.hub.FireViewport()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if !m.loop.Refresh().SoftRefresh() {
			m.log.Debug("refresh already running")
		}

	case key.Matches(msg, m.keys.Header):
		m.layout.headerRows = 1 - m.layout.headerRows
		m.hub.FireContainer()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayoutFooter()
	}
	return m, nil
}

// shutdown disposes the loop and drops late continuations.
func (m *Model) shutdown() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.loop.Dispose()
	m.sched.Close()
}

func (m *Model) footerRows() int {
	rows := 1
	if m.showHelp {
		rows++
		if m.help.ShowAll {
			rows++
		}
	}
	return rows
}

func (m *Model) relayoutFooter() {
	rows := m.footerRows()
	if rows == m.layout.footerRows {
		return
	}
	m.layout.footerRows = rows
	m.hub.FireContainer()
}

func (m *Model) loaded() bool {
	_, ok := m.loop.Refresh().Message()
	return ok
}

// Loop returns the animation loop.
func (m *Model) Loop() *animation.Loop { return m.loop }

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.layout.width <= 0 || m.layout.height <= 0 {
		return m.theme.Loading.Render(LoadingText)
	}

	c := styles.NewCanvas(m.layout.width, m.layout.bodyRows())
	styles.PaintBackdrop(c, float64(CellHeight)/CellWidth)
	if m.layout.headerRows > 0 {
		c.Text(2, 0, util.TruncateWidth(HeaderText, m.layout.width-2), styles.BoxText)
	}
	if m.surf.placed {
		x, y := m.surf.cell()
		styles.DrawBox(c, x, y, styles.BoxParams{
			Width:    BoxCols,
			Height:   BoxRows,
			Color:    m.surf.background,
			Text:     m.boxText(),
			Opacity:  m.surf.textOpacity(),
			Rotation: m.surf.rotation,
			Shadow:   true,
		})
	}

	var b strings.Builder
	b.WriteString(c.Render())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) boxText() string {
	msg, ok := m.loop.Refresh().Message()
	if !ok {
		return m.spinner.View() + " " + LoadingText
	}
	return msg.Text
}

func (m *Model) statusLine() string {
	st := m.loop.State()
	msg, loaded := m.loop.Refresh().Message()

	var status string
	switch {
	case !loaded:
		status = m.theme.StatusBusy.Render(styles.StatusIndicators.Warning + " loading")
	case msg.Err != nil:
		status = m.theme.StatusError.Render(styles.StatusIndicators.Error + " fetch failed")
	case st.Refreshing:
		status = m.theme.StatusBusy.Render(styles.StatusIndicators.Warning + " refreshing")
	default:
		status = m.theme.StatusOK.Render(styles.StatusIndicators.Success + " " + humanizeSince(m.refreshedAt, m.now()))
	}

	line := fmt.Sprintf("%s  %s  %s bounces  %s",
		status, st.Color, humanize.Comma(int64(m.loop.Collisions())), m.loop.Phase())
	return m.theme.StatusBar.Render(line)
}

// humanizeSince formats the age of the last update.
func humanizeSince(t, now time.Time) string {
	if t.IsZero() {
		return "never refreshed"
	}
	return "refreshed " + humanize.RelTime(t, now, "ago", "from now")
}
