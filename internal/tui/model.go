package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

// SnapshotsMsg carries the engine's latest results into the program.
type SnapshotsMsg map[core.Source]core.Result

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the live view driven by the refresh engine.
type Model struct {
	sources   []core.Source
	results   map[core.Source]core.Result
	selected  int
	showDaily bool

	width  int
	height int

	loaded     bool
	refreshing bool
	lastUpdate time.Time
	now        time.Time

	onRefresh func()
}

func NewModel(sources []core.Source) Model {
	return Model{
		sources:   append([]core.Source(nil), sources...),
		results:   make(map[core.Source]core.Result),
		showDaily: true,
		now:       time.Now(),
	}
}

// SetOnRefresh registers the callback run when the user requests a rescan.
func (m *Model) SetOnRefresh(fn func()) {
	m.onRefresh = fn
}

func (m Model) Init() tea.Cmd { return tickCmd() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case SnapshotsMsg:
		results := make(map[core.Source]core.Result, len(msg))
		for k, v := range msg {
			results[k] = v
		}
		m.results = results
		m.loaded = true
		m.refreshing = false
		m.lastUpdate = time.Now()
		m.now = m.lastUpdate
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		if !m.refreshing && m.onRefresh != nil {
			m.refreshing = true
			go m.onRefresh()
		}
	case "d":
		m.showDaily = !m.showDaily
	case "tab", "right", "l":
		m.selected = m.step(1)
	case "shift+tab", "left", "h":
		m.selected = m.step(-1)
	}
	return m, nil
}

func (m Model) step(delta int) int {
	n := len(m.sources)
	if n == 0 {
		return 0
	}
	return ((m.selected+delta)%n + n) % n
}

func (m Model) selectedSource() (core.Source, bool) {
	if len(m.sources) == 0 {
		return "", false
	}
	return m.sources[m.selected], true
}

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("  scanning logs…"))
		b.WriteString("\n\n")
		b.WriteString(m.renderFooter())
		return b.String()
	}

	cards := make([]string, 0, len(m.sources))
	for i, src := range m.sources {
		cards = append(cards, m.renderCard(src, i == m.selected))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	if src, ok := m.selectedSource(); ok && m.showDaily {
		if res := m.results[src]; res.Snapshot != nil && len(res.Snapshot.Daily) > 0 {
			b.WriteString("\n")
			b.WriteString(sectionHeaderStyle.Render(SourceLabel(src) + " · last 30 days"))
			b.WriteString("\n")
			b.WriteString(RenderDaily(*res.Snapshot, width))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(m.sources))
	for i, src := range m.sources {
		style := screenTabInactiveStyle
		if i == m.selected {
			style = screenTabActiveStyle
		}
		tabs = append(tabs, style.Render(SourceLabel(src)))
	}

	status := dimStyle.Render("updated " + FormatAgo(m.lastUpdate, m.now))
	if m.refreshing {
		status = dimStyle.Render("refreshing…")
	}
	return headerBrandStyle.Render("tokencost") + "  " + strings.Join(tabs, " ") + "  " + status
}

func (m Model) renderCard(src core.Source, selected bool) string {
	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	title := lipgloss.NewStyle().Foreground(SourceColor(src)).Bold(true).Render(SourceLabel(src))

	res := m.results[src]
	var body string
	switch {
	case res.Err != nil:
		body = errorStyle.Render("error: " + res.Err.Error())
	case res.Snapshot == nil:
		body = dimStyle.Render("no usage in the last 30 days")
	default:
		s := res.Snapshot
		lines := []string{
			labelStyle.Render("today ") + dimStyle.Render(s.TodayDate),
			fmt.Sprintf("  %s  %s", valueStyle.Render(FormatTokens(s.TodayTokens)+" tok"), renderCost(s.TodayCostUSD)),
			labelStyle.Render("30 days"),
			fmt.Sprintf("  %s  %s", valueStyle.Render(FormatTokens(s.MonthTokens)+" tok"), costStyle.Render(FormatUSD(s.MonthCostUSD))),
		}
		body = strings.Join(lines, "\n")
	}
	return style.Width(34).Render(title + "\n" + body)
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"tab", "source"},
		{"d", "daily"},
		{"r", "rescan"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = helpKeyStyle.Render(k.key) + " " + helpStyle.Render(k.desc)
	}
	return strings.Join(parts, helpStyle.Render(" · "))
}
