package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JoseManuelOberreuter/Binance-API/internal/app"
	"github.com/JoseManuelOberreuter/Binance-API/internal/timerange"
)

// ── styles ────────────────────────────────────────────────────────────────────

var (
	upStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641"))
	downStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e05c5c"))
	lineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0b90b"))
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#aaaaaa"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e05c5c"))
)

// Shown instead of the underlying error; details go to the log.
const loadFailedText = "Could not load market data, retrying on next refresh"

// ── messages ──────────────────────────────────────────────────────────────────

type tickMsg time.Time

type tableMsg struct {
	rows []app.Row
	err  error
}

type chartMsg struct {
	symbol string
	label  timerange.Label
	view   *app.ChartView
	err    error
}

// ── model ─────────────────────────────────────────────────────────────────────

type model struct {
	dash    *app.Dashboard
	refresh time.Duration
	labels  []timerange.Label

	rows     []app.Row
	chart    *app.ChartView
	cursor   int
	rangeIdx int
	status   string
	tableErr bool
	chartErr bool

	width  int
	height int
}

func newModel(dash *app.Dashboard, refresh time.Duration, symbol string, label timerange.Label, status string) model {
	m := model{
		dash:    dash,
		refresh: refresh,
		labels:  timerange.Labels(),
		status:  status,
	}
	for i, a := range dash.Assets() {
		if a.Symbol == symbol {
			m.cursor = i
		}
	}
	for i, l := range m.labels {
		if l == label {
			m.rangeIdx = i
		}
	}
	return m
}

func (m model) symbol() string {
	return m.dash.Assets()[m.cursor].Symbol
}

func (m model) label() timerange.Label {
	return m.labels[m.rangeIdx]
}

// ── Init / Update / View ──────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadTable(), m.loadChart(), m.scheduleRefresh())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				return m, m.loadChart()
			}
		case "down", "j":
			if m.cursor < len(m.dash.Assets())-1 {
				m.cursor++
				return m, m.loadChart()
			}
		case "1", "2", "3", "4", "5", "6":
			if idx := int(key[0] - '1'); idx < len(m.labels) && idx != m.rangeIdx {
				m.rangeIdx = idx
				return m, m.loadChart()
			}
		}

	case tickMsg:
		return m, tea.Batch(m.loadTable(), m.loadChart(), m.scheduleRefresh())

	case tableMsg:
		m.tableErr = msg.err != nil
		if msg.err == nil {
			m.rows = msg.rows
			m.status = ""
		}
		return m, nil

	case chartMsg:
		// Drop answers for a selection the user already moved away from.
		if msg.symbol != m.symbol() || msg.label != m.label() {
			return m, nil
		}
		m.chartErr = msg.err != nil
		if msg.err == nil {
			m.chart = msg.view
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "loading…"
	}
	var b strings.Builder
	b.WriteString(m.renderTable())
	b.WriteByte('\n')
	b.WriteString(m.renderRanges())
	b.WriteByte('\n')
	b.WriteString(m.renderChart())
	switch {
	case m.tableErr || m.chartErr:
		b.WriteString(errorStyle.Render(loadFailedText))
		b.WriteByte('\n')
	case m.status != "":
		b.WriteString(errorStyle.Render(m.status))
		b.WriteByte('\n')
	}
	b.WriteString(footerStyle.Render("[↑/↓] asset  [1-6] range  [q] quit"))
	return b.String()
}

// ── commands ──────────────────────────────────────────────────────────────────

func (m model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) loadTable() tea.Cmd {
	dash := m.dash
	return func() tea.Msg {
		rows, err := dash.Table(context.Background())
		return tableMsg{rows: rows, err: err}
	}
}

func (m model) loadChart() tea.Cmd {
	dash, symbol, label := m.dash, m.symbol(), m.label()
	return func() tea.Msg {
		view, err := dash.Chart(context.Background(), symbol, label)
		return chartMsg{symbol: symbol, label: label, view: view, err: err}
	}
}

// ── table ─────────────────────────────────────────────────────────────────────

func (m model) renderTable() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-14s %-10s %14s %9s %16s %14s %14s",
		"Name", "Symbol", "Price", "24h %", "Volume", "High", "Low")))
	b.WriteByte('\n')

	if len(m.rows) == 0 {
		b.WriteString(axisStyle.Render("  waiting for data…"))
		b.WriteByte('\n')
		return b.String()
	}

	for i, r := range m.rows {
		t := r.Ticker
		line := fmt.Sprintf("  %-14s %-10s %14s %s %16s %14s %14s",
			r.Name, t.Symbol, formatPrice(t.LastPrice),
			changeStyle(t.PriceChangePercent).Render(fmt.Sprintf("%+8.2f%%", t.PriceChangePercent)),
			fmt.Sprintf("%.2f", t.Volume), formatPrice(t.HighPrice), formatPrice(t.LowPrice))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) renderRanges() string {
	parts := make([]string, len(m.labels))
	for i, l := range m.labels {
		cell := fmt.Sprintf("[%d] %s", i+1, l)
		if i == m.rangeIdx {
			cell = selectedStyle.Render(cell)
		}
		parts[i] = cell
	}
	return "  " + strings.Join(parts, "  ")
}

// ── chart ─────────────────────────────────────────────────────────────────────

const yAxisWidth = 13 // "  123456.78 │"

func (m model) renderChart() string {
	var b strings.Builder
	c := m.chart
	if c == nil || len(c.Points) == 0 {
		b.WriteString(axisStyle.Render("  no chart data"))
		b.WriteByte('\n')
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)  %s  %s  ", c.Name, c.Symbol, c.Range, c.Interval)))
	b.WriteString(changeStyle(c.Change.Percentage).Render(
		fmt.Sprintf("%+.2f (%+.2f%%)", c.Change.Absolute, c.Change.Percentage)))
	b.WriteByte('\n')

	// Reserve the table, range bar, chart header, axis lines and footer.
	chartH := m.height - len(m.dash.Assets()) - 8
	if chartH < 4 {
		chartH = 4
	}
	chartW := m.width - yAxisWidth
	if chartW < 10 {
		chartW = 10
	}

	points := sample(c.Points, chartW)
	hi, lo := priceRange(points)
	cols := columnPositions(len(points), chartW)

	grid := make([][]string, chartH)
	for r := range grid {
		grid[r] = make([]string, chartW)
		for x := range grid[r] {
			grid[r][x] = " "
		}
	}
	for i, p := range points {
		grid[priceToRow(p.Price, chartH, hi, lo)][cols[i]] = lineStyle.Render("•")
	}

	for row := 0; row < chartH; row++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%11s │", formatPrice(rowToPrice(row, chartH, hi, lo)))))
		b.WriteString(strings.Join(grid[row], ""))
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(strings.Repeat("─", yAxisWidth+chartW)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", yAxisWidth))
	b.WriteString(axisStyle.Render(timeAxis(points, cols, chartW, timerange.AxisLayout(c.Range, m.width < 100))))
	b.WriteByte('\n')
	return b.String()
}

// sample keeps at most n points, evenly spaced, always including the last.
func sample(points []timerange.Point, n int) []timerange.Point {
	if len(points) <= n || n < 2 {
		return points
	}
	out := make([]timerange.Point, n)
	step := float64(len(points)-1) / float64(n-1)
	for i := range out {
		out[i] = points[int(math.Round(float64(i)*step))]
	}
	return out
}

// columnPositions spreads n points across width columns.
func columnPositions(n, width int) []int {
	cols := make([]int, n)
	if n <= 1 {
		return cols
	}
	for i := range cols {
		cols[i] = i * (width - 1) / (n - 1)
	}
	return cols
}

// timeAxis writes labels at the first, middle and last point where they fit.
func timeAxis(points []timerange.Point, cols []int, width int, layout string) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for _, i := range []int{0, len(points) / 2, len(points) - 1} {
		label := []rune(points[i].Time.Local().Format(layout))
		start := cols[i]
		if start+len(label) > width {
			start = width - len(label)
		}
		if start < next || start < 0 {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}
	return string(line)
}

// priceToRow converts a price to a grid row (0 = top = high).
func priceToRow(price float64, chartH int, hi, lo float64) int {
	if hi == lo {
		return chartH / 2
	}
	r := int(math.Round((hi - price) / (hi - lo) * float64(chartH-1)))
	if r < 0 {
		r = 0
	}
	if r >= chartH {
		r = chartH - 1
	}
	return r
}

// rowToPrice is the inverse of priceToRow.
func rowToPrice(row, chartH int, hi, lo float64) float64 {
	if chartH <= 1 {
		return hi
	}
	return hi - float64(row)/float64(chartH-1)*(hi-lo)
}

func priceRange(points []timerange.Point) (hi, lo float64) {
	if len(points) == 0 {
		return 0, 0
	}
	hi, lo = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		hi = math.Max(hi, p.Price)
		lo = math.Min(lo, p.Price)
	}
	return hi, lo
}

func changeStyle(v float64) lipgloss.Style {
	if v < 0 {
		return downStyle
	}
	return upStyle
}

// formatPrice keeps small-unit coins readable.
func formatPrice(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.Abs(v) < 1:
		return fmt.Sprintf("%.6f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
