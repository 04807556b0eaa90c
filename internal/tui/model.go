// Package tui provides the BubbleTea demo of anchored tooltips: a home
// screen, a screen of buttons and a scrolling list, each with a tour.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/host/term"
	"github.com/jmylchreest/anchortip/internal/theme"
	"github.com/jmylchreest/anchortip/internal/tooltip"
	"github.com/jmylchreest/anchortip/internal/tour"
)

// Model is the demo model.
type Model struct {
	// Configuration
	cfg    *config.Config
	theme  *theme.Theme
	tours  *tour.Loader
	logger *slog.Logger

	// Screen
	host     *term.Host
	screen   Screen
	pane     *term.Pane
	selected int

	// Tour
	tour *tour.Tour
	step int
	tip  *tooltip.Tooltip

	// Components
	help     help.Model
	keys     KeyMap
	showHelp bool

	width  int
	height int
	ready  bool

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a demo model starting on screen.
func New(cfg *config.Config, th *theme.Theme, tours *tour.Loader, screen Screen, logger *slog.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if th == nil {
		th = theme.NewDefaultTheme()
	}
	if tours == nil {
		tours = tour.NewLoader("", logger)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		cfg:    cfg,
		theme:  th,
		tours:  tours,
		logger: logger,
		host:   term.New(geom.Size{}, logger),
		screen: screen,
		step:   -1,
		help:   help.New(),
		keys:   DefaultKeyMap(),
	}
}

// Init initializes the demo.
func (m Model) Init() tea.Cmd {
	return nil
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// expireMsg dismisses a tooltip whose timeout elapsed.
type expireMsg struct {
	id string
}

type copyResultMsg struct {
	err error
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.host.Tap(geom.Point{X: msg.X, Y: msg.Y})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.host.Resize(geom.Size{Width: msg.Width, Height: max(1, msg.Height-1)})

		if !m.ready {
			m.ready = true
			return m.enter(m.screen)
		}
		// Rebuild the screen and re-show the current step at the new size.
		m.dismiss()
		m.pane = build(m.host, m.screen, m.selected)
		m.scrollToSelected()
		return m.showStep(m.step)

	case expireMsg:
		if m.tip != nil && m.tip.ID() == msg.id {
			m.dismiss()
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied placement to clipboard", false)
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.dismiss()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.showStep(m.step + 1)
	case key.Matches(msg, m.keys.Prev):
		if m.step > 0 {
			return m.showStep(m.step - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyPlacement()
	case key.Matches(msg, m.keys.Back):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.screen != ScreenHome {
			m.selected = 0
			return m.enter(ScreenHome)
		}
		return m, nil
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenList:
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		m.choose(m.selected - 1)
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		m.choose(m.selected + 1)
	case key.Matches(msg, m.keys.Enter):
		next := homeChoices[m.selected]
		m.selected = 0
		return m.enter(next)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := 1
	if m.pane != nil {
		page = max(1, m.pane.Area.Height()-1)
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.choose(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.choose(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.choose(m.selected - page)
	case key.Matches(msg, m.keys.PageDown):
		m.choose(m.selected + page)
	}
	return m, nil
}

// choose moves the highlight on the home choices or the list rows.
func (m *Model) choose(i int) {
	count := len(homeChoices)
	if m.screen == ScreenList {
		count = listRows
	}
	i = geom.Trim(i, 0, count-1)

	for idx, choice := range m.choices() {
		if w, ok := m.host.View(choice); ok {
			w.(*term.Widget).Selected = idx == i
		}
	}
	m.selected = i
	m.scrollToSelected()
}

func (m Model) choices() []string {
	if m.screen == ScreenList {
		names := make([]string, listRows)
		for i := range names {
			names[i] = rowName(i)
		}
		return names
	}
	names := make([]string, len(homeChoices))
	for i, c := range homeChoices {
		names[i] = c.String()
	}
	return names
}

func rowName(i int) string {
	return fmt.Sprintf("row-%d", i)
}

// scrollToSelected keeps the selected list row inside the pane.
func (m *Model) scrollToSelected() {
	if m.pane == nil {
		return
	}
	visible := m.pane.Area.Height()
	switch {
	case m.selected < m.pane.Offset():
		m.pane.ScrollTo(m.selected)
	case m.selected >= m.pane.Offset()+visible:
		m.pane.ScrollTo(m.selected - visible + 1)
	}
}

// enter switches to screen s and starts its tour.
func (m Model) enter(s Screen) (tea.Model, tea.Cmd) {
	m.dismiss()
	m.screen = s
	m.pane = build(m.host, s, m.selected)
	m.tour = nil
	m.step = -1

	t, err := m.tours.Load(screenTours[s])
	if err != nil {
		m.logger.Warn("no tour for screen", "screen", s.String(), "error", err)
		return m, status("No tour for "+s.String(), true)
	}
	m.tour = t
	return m.showStep(0)
}

// showStep replaces the current tooltip with step i of the tour.
func (m Model) showStep(i int) (tea.Model, tea.Cmd) {
	m.dismiss()
	if m.tour == nil || i < 0 {
		return m, nil
	}
	if i >= len(m.tour.Steps) {
		m.step = len(m.tour.Steps)
		return m, status("End of tour, esc for home", false)
	}
	m.step = i

	tip, err := m.newTooltip(m.tour.Steps[i])
	if err != nil {
		m.logger.Warn("failed to prepare tour step", "tour", m.tour.Name, "step", i, "error", err)
		return m, status(err.Error(), true)
	}
	if err := tip.Show(); err != nil {
		m.logger.Error("failed to show tooltip", "tooltip_id", tip.ID(), "error", err)
		return m, status(err.Error(), true)
	}
	m.tip = tip

	if timeout := m.cfg.TimeoutDuration(); timeout > 0 {
		id := tip.ID()
		return m, tea.Tick(timeout, func(time.Time) tea.Msg {
			return expireMsg{id: id}
		})
	}
	return m, nil
}

func (m Model) newTooltip(step tour.Step) (*tooltip.Tooltip, error) {
	tip := tooltip.New(m.host, term.Metrics(), m.logger)
	tip.SetDismissOnTap(m.cfg.Behavior.DismissOnTap)
	tip.SetTracking(m.cfg.Behavior.TrackTargets)
	tip.SetBold(m.cfg.Style.Bold)

	balloon, text, err := m.theme.Colors(m.cfg.Style, m.dark())
	if err != nil {
		return nil, err
	}
	tip.SetColor(balloon)
	tip.SetTextColor(text)

	if err := step.Apply(tip, m.host); err != nil {
		return nil, err
	}
	return tip, nil
}

func (m Model) dark() bool {
	switch config.ColorScheme(m.cfg.Theme.ColorScheme) {
	case config.ColorSchemeDark:
		return true
	case config.ColorSchemeLight:
		return false
	default:
		return lipgloss.HasDarkBackground()
	}
}

// dismiss removes the current tooltip, cancelling one that still waits
// for a menu layout.
func (m *Model) dismiss() {
	if m.tip == nil {
		return
	}
	if m.tip.State().Attached || m.tip.Pending() {
		if err := m.tip.Dismiss(); err != nil {
			m.logger.Debug("dismiss failed", "tooltip_id", m.tip.ID(), "error", err)
		}
	}
	m.tip = nil
}

func (m Model) copyPlacement() tea.Cmd {
	if m.tip == nil || !m.tip.State().Attached {
		return status("No tooltip to copy", true)
	}
	text, err := placementYAML(m.tip)
	if err != nil {
		return status(err.Error(), true)
	}
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

// View renders the demo. Each render is a host frame: pending layouts run
// and tracked tooltips follow their targets.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return m.viewHelp()
	}
	return m.host.Draw() + "\n" + m.footer()
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp())
	s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")
	return s
}

// RunOptions configures the demo.
type RunOptions struct {
	Config *config.Config
	Theme  *theme.Theme
	Tours  *tour.Loader
	Screen Screen
	Logger *slog.Logger
}

// Run starts the demo with the given options.
func Run(opts RunOptions) error {
	m := New(opts.Config, opts.Theme, opts.Tours, opts.Screen, opts.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err := p.Run()
	return err
}
