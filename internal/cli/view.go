package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/config"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
	"github.com/matzehuels/glyphorbit/pkg/render"
	"github.com/matzehuels/glyphorbit/pkg/render/sink"
	"github.com/matzehuels/glyphorbit/pkg/scene"
)

// Viewer layout.
const (
	panelWidth   = 34  // side panel width including border and padding
	chromeRows   = 3   // header and help lines around the canvas
	cellWidthPx  = 8   // frame pixels per terminal column
	cellHeightPx = 16  // frame pixels per terminal row
	historyLen   = 60  // frame-time samples kept for the graph
	spacingStep  = 0.1 // +/- spacing increment
	minSpacing   = 0.1
)

// Viewer styles
var (
	viewCanvasStyle = lipgloss.NewStyle().Padding(0, 1)
	viewPanelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(panelWidth - 1)
	viewLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	viewActiveStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	viewGraphStyle  = lipgloss.NewStyle().Foreground(colorGreen).Padding(1, 0)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "view [font]",
		Short: "Explore arranged glyphs interactively in the terminal",
		Long: `View loads a font and arranges its glyphs in the terminal. Static shapes spin
slowly as a group; the Möbius strip, Klein bottle and torus knot animate.

Keys:
  1-7        circle, grid, sphere, helix, mobius, klein, torus-klein-knot
  + / -      spacing
  p/P q/Q    torus knot windings up/down (torus knot only)
  w a s d    fly
  arrows     turn
  r          reset camera
  space      pause
  q, esc     quit (q adjusts the knot while the torus knot is shown)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			return c.runView(cmd.Context(), cfg, opts, flags.noCache)
		},
	}

	flags.addArrangeFlags(cmd)
	return cmd
}

func (c *CLI) runView(ctx context.Context, cfg config.Config, opts pipeline.Options, noCache bool) error {
	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Loading %s...", opts.Font))
	spinner.Start()
	set, _, err := loadGlyphs(ctx, runner, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Update("Meshing %d glyphs...", set.Len())
	m, err := newViewModel(ctx, set, opts, cfg.View)
	spinner.Stop()
	if err != nil {
		return err
	}
	defer m.close()

	// Log lines would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// viewModel - Interactive arrangement viewer
// =============================================================================

type tickMsg time.Time

// viewModel drives a dispatcher from bubbletea ticks and draws it onto a
// terminal canvas.
type viewModel struct {
	dispatcher *arrange.Dispatcher
	stage      *scene.Stage
	cam        *scene.Camera
	distance   float64
	canvas     *render.Canvas
	frame      *render.Frame

	family   string
	settings config.View
	interval time.Duration
	fg, bg   colorful.Color

	shape        int // index into arrange.ShapeNames
	spacing      float64
	knotP, knotQ int
	knotControls bool

	elapsed float64
	last    time.Time
	paused  bool

	frameMS []float64
	width   int
	height  int
	err     error
}

// newViewModel meshes set and places it with the options' arrangement.
func newViewModel(ctx context.Context, set *font.GlyphSet, opts pipeline.Options, settings config.View) (*viewModel, error) {
	cfg, err := opts.ArrangeConfig()
	if err != nil {
		return nil, err
	}
	fg, err := render.ParseColor(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := render.ParseColor(opts.Background)
	if err != nil {
		return nil, err
	}
	if settings.FPS < 1 {
		settings.FPS = config.Default().View.FPS
	}

	m := &viewModel{
		cam:      opts.Camera(),
		distance: opts.Distance,
		canvas:   render.NewCanvas(80, 24),
		family:   set.Family,
		settings: settings,
		interval: time.Second / time.Duration(settings.FPS),
		fg:       fg,
		bg:       bg,
		spacing:  cfg.Spacing,
		knotP:    max(opts.KnotP, 1),
		knotQ:    max(opts.KnotQ, 1),
	}
	for i, name := range arrange.ShapeNames {
		if name == cfg.Shape.Name() {
			m.shape = i
		}
	}

	m.dispatcher = arrange.NewDispatcher(m.cam,
		arrange.WithConfig(cfg),
		arrange.WithKnotControls(func(visible bool) { m.knotControls = visible }),
	)
	m.knotControls = m.dispatcher.KnotControlsVisible()
	m.stage = scene.NewStage(m.dispatcher,
		scene.WithMesher(opts.Mesher()),
		scene.WithGlyphSize(opts.GlyphSize),
		scene.WithWorkers(opts.Workers),
	)
	if _, err := m.stage.Load(ctx, set); err != nil {
		return nil, err
	}
	if err := m.dispatcher.Configure(cfg); err != nil {
		m.close()
		return nil, err
	}
	m.redraw()
	return m, nil
}

func (m *viewModel) close() {
	if err := m.stage.Close(); err != nil {
		m.err = err
	}
}

func (m *viewModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *viewModel) Init() tea.Cmd {
	return m.tick()
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.handleKey(msg.String()) {
			return m, tea.Quit
		}
		m.redraw()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width-panelWidth-2, m.height-chromeRows)
		m.redraw()
	case tickMsg:
		now := time.Time(msg)
		delta := 0.0
		if !m.last.IsZero() {
			delta = now.Sub(m.last).Seconds()
		}
		m.last = now
		if !m.paused {
			m.elapsed += delta
			if err := m.dispatcher.Tick(m.elapsed, delta); err != nil {
				m.err = err
			}
		}
		m.redraw()
		return m, m.tick()
	}
	return m, nil
}

// handleKey applies one key press and reports whether to quit.
func (m *viewModel) handleKey(key string) bool {
	move := m.settings.MoveSpeed
	turn := mgl64.DegToRad(m.settings.TurnSpeed)

	switch key {
	case "ctrl+c", "esc":
		return true
	case "q":
		if !m.knotControls {
			return true
		}
		m.knotQ++
		m.configure()
	case "Q":
		if m.knotControls && m.knotQ > 1 {
			m.knotQ--
			m.configure()
		}
	case "p":
		if m.knotControls {
			m.knotP++
			m.configure()
		}
	case "P":
		if m.knotControls && m.knotP > 1 {
			m.knotP--
			m.configure()
		}
	case "1", "2", "3", "4", "5", "6", "7":
		m.shape = int(key[0] - '1')
		m.configure()
	case "+", "=":
		m.spacing = math.Round((m.spacing+spacingStep)*10) / 10
		m.configure()
	case "-", "_":
		m.spacing = max(minSpacing, math.Round((m.spacing-spacingStep)*10)/10)
		m.configure()
	case "w":
		m.cam.Move(move, 0, 0)
	case "s":
		m.cam.Move(-move, 0, 0)
	case "a":
		m.cam.Move(0, -move, 0)
	case "d":
		m.cam.Move(0, move, 0)
	case "left":
		m.cam.Turn(-turn, 0)
	case "right":
		m.cam.Turn(turn, 0)
	case "up":
		m.cam.Turn(0, turn)
	case "down":
		m.cam.Turn(0, -turn)
	case "r":
		m.cam.Reset()
		m.cam.Position[2] = m.distance
	case " ":
		m.paused = !m.paused
	case "g":
		m.settings.Graph = !m.settings.Graph
	}
	return false
}

// configure hands the current shape, spacing and windings to the
// dispatcher. A rejected configuration keeps the previous one on screen.
func (m *viewModel) configure() {
	shape, err := arrange.ParseShape(arrange.ShapeNames[m.shape], m.knotP, m.knotQ)
	if err != nil {
		m.err = err
		return
	}
	m.err = m.dispatcher.Configure(arrange.Config{Shape: shape, Spacing: m.spacing})
}

// redraw projects the scene onto the canvas and records the frame time.
func (m *viewModel) redraw() {
	start := time.Now()
	cols, rows := m.canvas.Size()
	m.frame = render.Snapshot(m.dispatcher, m.cam, cols*cellWidthPx, rows*cellHeightPx)
	m.frame.Time = m.elapsed
	m.canvas.Draw(m.frame, m.fg, m.bg, sink.DefaultFog)

	m.frameMS = append(m.frameMS, float64(time.Since(start).Microseconds())/1000)
	if len(m.frameMS) > historyLen {
		m.frameMS = m.frameMS[len(m.frameMS)-historyLen:]
	}
}

func (m *viewModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := StyleTitle.Render(appName) + " " + StyleValue.Render(m.family) +
		StyleDim.Render(" · "+m.dispatcher.Config().Shape.Name())
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		viewCanvasStyle.Render(m.canvas.String()),
		viewPanelStyle.Render(m.panel()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, main, m.help())
}

// panel renders the side panel: arrangement state, scene counts and the
// frame-time graph.
func (m *viewModel) panel() string {
	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(viewLabelStyle.Render(label) + StyleValue.Render(value) + "\n")
	}

	cfg := m.dispatcher.Config()
	kind := "static"
	if cfg.Shape.Animated() {
		kind = "animated"
	}
	row("Shape", cfg.Shape.Name())
	row("Motion", kind)
	row("Spacing", fmt.Sprintf("%.1f", cfg.Spacing))
	if m.knotControls {
		s.WriteString(viewLabelStyle.Render("Knot") +
			viewActiveStyle.Render(fmt.Sprintf("p=%d q=%d", m.knotP, m.knotQ)) + "\n")
	}
	row("Spin", fmt.Sprintf("%.1f°", mgl64.RadToDeg(m.dispatcher.Spin())))
	row("Time", fmt.Sprintf("%.2fs", m.elapsed))
	row("Glyphs", fmt.Sprintf("%d", len(m.dispatcher.Collection())))
	row("Visible", fmt.Sprintf("%d", len(m.frame.Visible())))
	row("Culled", fmt.Sprintf("%d", m.frame.Culled))
	p := m.cam.Position
	row("Camera", fmt.Sprintf("%.0f,%.0f,%.0f", p[0], p[1], p[2]))
	if m.paused {
		s.WriteString(StyleWarning.Render("paused") + "\n")
	}
	if m.err != nil {
		s.WriteString(styleIconError.Render(iconError+" "+m.err.Error()) + "\n")
	}

	if m.settings.Graph && len(m.frameMS) > 1 {
		chart := asciigraph.Plot(m.frameMS,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("frame ms"))
		s.WriteString(viewGraphStyle.Render(chart))
	}
	return s.String()
}

func (m *viewModel) help() string {
	keys := "1-7 shape  +/- spacing  wasd fly  arrows turn  r reset  space pause  g graph  esc quit"
	if m.knotControls {
		keys = "p/P q/Q knot  " + keys
	}
	return viewHelpStyle.Render(keys)
}
