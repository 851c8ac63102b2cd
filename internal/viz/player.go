package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neuroviz/internal/colormap"
	"github.com/san-kum/neuroviz/internal/config"
	"github.com/san-kum/neuroviz/internal/driver"
	"github.com/san-kum/neuroviz/internal/playback"
)

const (
	meterWidth  = 24
	legendWidth = 40
	traceWidth  = 56
	traceHeight = 8
)

// Player is the terminal voltage player. Each dataset section gets one row
// whose swatch is recolored every tick by the animation driver, so the
// terminal sees the exact same color stream a 3D material would.
type Player struct {
	source string

	sink     *cellSink
	provider *sectionProvider
	viewer   *driver.Viewer

	keys keyMap
	help help.Model

	theme    Theme
	cmaps    []string
	cmapIdx  int
	focus    int
	fps      int
	loadErr  error
	warnings int

	width  int
	height int
}

// NewPlayer loads source and prepares a player configured from cfg. A load
// failure is kept on the model so the alt screen can report it instead of
// the program dying before the first frame.
func NewPlayer(source string, cfg config.Config) Player {
	sink := newCellSink()
	provider := &sectionProvider{}
	viewer := driver.NewViewer(provider, sink)

	p := Player{
		source:   source,
		sink:     sink,
		provider: provider,
		viewer:   viewer,
		keys:     defaultKeyMap(),
		help:     help.New(),
		theme:    GetTheme(cfg.Theme),
		cmaps:    sortedColormaps(),
		fps:      cfg.FPS,
		width:    80,
		height:   24,
	}

	if err := viewer.LoadDataset(context.Background(), source); err != nil {
		p.loadErr = err
		return p
	}
	ds := viewer.Dataset()
	provider.reload(ds)
	// Empty colormap override keeps the dataset's own palette.
	active := ds.Material.Colormap
	if cfg.Colormap != "" {
		viewer.SetColormap(cfg.Colormap)
		active = cfg.Colormap
	}
	resolved := colormap.Lookup(active).Name()
	for i, name := range p.cmaps {
		if name == resolved {
			p.cmapIdx = i
		}
	}
	if cfg.Focus != "" {
		if idx := ds.SectionByName(cfg.Focus); idx >= 0 {
			p.focus = idx
		}
	}
	viewer.BindToCurrentMeshes()
	if b := viewer.Binding(); b != nil {
		p.warnings = b.Warnings()
	}
	if err := viewer.Play(cfg.Speed); err != nil {
		p.loadErr = err
	}
	viewer.Repaint()
	return p
}

// Run drives the player to completion on the alternate screen.
func Run(source string, cfg config.Config) error {
	_, err := tea.NewProgram(NewPlayer(source, cfg), tea.WithAltScreen()).Run()
	return err
}

func sortedColormaps() []string {
	names := colormap.Names()
	sort.Strings(names)
	return names
}

type tickMsg time.Time

func (m Player) tick() tea.Cmd {
	interval := time.Second / time.Duration(m.fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Player) Init() tea.Cmd { return m.tick() }

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.viewer.Tick(1.0 / float64(m.fps))
		return m, m.tick()
	}
	return m, nil
}

func (m Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	clock := m.viewer.Clock()
	if clock == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PlayPause):
		if clock.Status() == playback.Playing {
			m.viewer.Pause()
		} else {
			m.viewer.Play(clock.Speed())
		}
	case key.Matches(msg, m.keys.Stop):
		m.viewer.Stop()
	case key.Matches(msg, m.keys.Faster):
		m.viewer.SetSpeed(clock.Speed() * 1.25)
	case key.Matches(msg, m.keys.Slower):
		m.viewer.SetSpeed(clock.Speed() / 1.25)
	case key.Matches(msg, m.keys.SeekBack):
		clock.Seek(clock.Frame() - m.seekStep())
		m.viewer.Repaint()
	case key.Matches(msg, m.keys.SeekFwd):
		clock.Seek(clock.Frame() + m.seekStep())
		m.viewer.Repaint()
	case key.Matches(msg, m.keys.Focus):
		if ds := m.viewer.Dataset(); ds != nil && len(ds.Sections) > 0 {
			m.focus = (m.focus + 1) % len(ds.Sections)
		}
	case key.Matches(msg, m.keys.Colormap):
		m.cmapIdx = (m.cmapIdx + 1) % len(m.cmaps)
		m.viewer.SetColormap(m.cmaps[m.cmapIdx])
		m.viewer.Repaint()
	case key.Matches(msg, m.keys.Theme):
		m.theme = nextTheme(m.theme)
	}
	return m, nil
}

// seekStep is one twentieth of the trace, so twenty arrow presses scrub the
// whole recording regardless of its length.
func (m Player) seekStep() float64 {
	clock := m.viewer.Clock()
	if clock == nil {
		return 1
	}
	step := float64(clock.FrameCount()) / 20.0
	if step < 1 {
		step = 1
	}
	return step
}

func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func (m Player) View() string {
	if m.loadErr != nil {
		return m.theme.warn().Render(fmt.Sprintf("cannot play %s: %v", m.source, m.loadErr)) +
			"\n\n" + m.theme.label().Render("press q to quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.header().Render("neuroviz") + "  " + m.theme.label().Render(m.source) + "\n\n")
	b.WriteString(m.viewStatus() + "\n")
	b.WriteString(m.viewLegend() + "\n\n")
	b.WriteString(m.viewSections())
	b.WriteString("\n" + m.viewTrace() + "\n")
	if m.warnings > 0 {
		b.WriteString(m.theme.warn().Render(fmt.Sprintf("%d binding warning(s), run `neuroviz bind` for details", m.warnings)) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m Player) viewStatus() string {
	clock := m.viewer.Clock()
	ds := m.viewer.Dataset()
	if clock == nil || ds == nil {
		return m.theme.label().Render("no dataset")
	}
	timeMs := clock.Frame() * ds.Meta.TimeStepMs
	status := clock.Status().String()
	return fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		m.theme.label().Render("state"), m.theme.value().Render(status),
		m.theme.label().Render("frame"), m.theme.value().Render(fmt.Sprintf("%.1f/%d", clock.Frame(), clock.FrameCount())),
		m.theme.label().Render("time"), m.theme.value().Render(fmt.Sprintf("%.1f ms", timeMs)),
		m.theme.label().Render("speed"), m.theme.value().Render(fmt.Sprintf("%.2fx", clock.Speed())),
	)
}

func (m Player) viewLegend() string {
	ds := m.viewer.Dataset()
	if ds == nil {
		return ""
	}
	table := colormap.Lookup(m.cmaps[m.cmapIdx])
	rng := ds.Material.VoltageRange
	return fmt.Sprintf("%s %s %s %s",
		m.theme.value().Render(fmt.Sprintf("%6.1f mV", rng.Min)),
		LegendBar(table, legendWidth),
		m.theme.value().Render(fmt.Sprintf("%-6.1f mV", rng.Max)),
		m.theme.label().Render(table.Name()),
	)
}

func (m Player) viewSections() string {
	ds := m.viewer.Dataset()
	bind := m.viewer.Binding()
	clock := m.viewer.Clock()
	if ds == nil || bind == nil || clock == nil {
		return ""
	}

	nameW := 0
	for _, sec := range ds.Sections {
		if len(sec.Name) > nameW {
			nameW = len(sec.Name)
		}
	}

	var b strings.Builder
	for _, e := range bind.Entries() {
		sec := &ds.Sections[e.SectionIndex]
		cursor := "  "
		if e.SectionIndex == m.focus {
			cursor = m.theme.header().Render("> ")
		}
		swatch := " "
		meter := MeterBar(0, meterWidth)
		if cell, ok := m.sink.state(e.Mesh.ID); ok {
			swatch = Swatch(cell.RGB.Hex(), 2)
			meter = MeterBar(cell.Normalized, meterWidth)
		}
		voltage := playback.SampleSection(sec, clock.Frame(), clock.FrameCount())
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n",
			cursor,
			swatch,
			m.theme.value().Render(fmt.Sprintf("%-*s", nameW, sec.Name)),
			meter,
			m.theme.label().Render(fmt.Sprintf("%7.2f mV", voltage)),
		))
	}
	return b.String()
}

func (m Player) viewTrace() string {
	ds := m.viewer.Dataset()
	if ds == nil || m.focus >= len(ds.Sections) {
		return ""
	}
	sec := ds.Sections[m.focus]
	if len(sec.Frames) < 2 {
		return ""
	}
	plot := asciigraph.Plot(sec.Frames,
		asciigraph.Height(traceHeight),
		asciigraph.Width(traceWidth),
		asciigraph.Caption(sec.Name),
	)
	return m.theme.label().Render(plot)
}
