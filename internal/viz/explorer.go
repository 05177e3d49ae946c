package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/coupledmode/internal/analysis"
	"github.com/san-kum/coupledmode/internal/coupling"
)

const pageSize = 10

// Explorer is a bubbletea model that scrubs through the records of a sweep.
type Explorer struct {
	title   string
	raw     []coupling.Record
	records []coupling.Record
	points  []analysis.SplitPoint
	realGap []float64
	imagGap []float64
	cursor  int
	width   int
	tracked bool
}

// NewExplorer builds an explorer over records. With track set the records
// are branch-tracked first.
func NewExplorer(title string, raw []coupling.Record, track bool) Explorer {
	records := raw
	if track {
		records = coupling.TrackBranches(raw)
	}
	points := analysis.Splitting(records)
	realGap := make([]float64, len(points))
	imagGap := make([]float64, len(points))
	for i, p := range points {
		realGap[i] = p.RealGap
		imagGap[i] = p.ImagGap
	}
	return Explorer{
		title:   title,
		raw:     raw,
		records: records,
		points:  points,
		realGap: realGap,
		imagGap: imagGap,
		width:   80,
		tracked: track,
	}
}

// Cursor returns the index of the selected record.
func (m Explorer) Cursor() int { return m.cursor }

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	last := len(m.records) - 1
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m.cursor++
	case "left", "h":
		m.cursor--
	case "pgdown", "L":
		m.cursor += pageSize
	case "pgup", "H":
		m.cursor -= pageSize
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = last
	case "t":
		m = NewExplorer(m.title, m.raw, !m.tracked).withCursor(m.cursor, m.width)
	}
	m.cursor = max(0, min(m.cursor, last))
	return m, nil
}

func (m Explorer) withCursor(cursor, width int) Explorer {
	m.cursor, m.width = cursor, width
	return m
}

func (m Explorer) View() string {
	if len(m.records) == 0 {
		return Panel.Render("no records") + "\n"
	}

	r := m.records[m.cursor]
	pt := m.points[m.cursor]
	hc, he := coupling.Hopf(r.Lossy.Vectors[0])
	fc, fe := coupling.ModeFractions(r.Lossy.Vectors[0])

	var sb strings.Builder
	sb.WriteString(Title.Render(m.title))
	sb.WriteString(Subtle.Render(fmt.Sprintf("  step %d/%d", r.Step, len(m.records))))
	if m.tracked {
		sb.WriteString(Subtle.Render("  [tracked]"))
	}
	sb.WriteString("\n\n")

	row := func(label, value string) {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-16s", label)))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("coupling", MetricValue.Render(fmt.Sprintf("%.7g", r.Coupling)))
	row("energy gap", formatComplex(r.EnergyGap))
	sb.WriteString("\n")
	row("lossy λ0", Branch0.Render(formatComplex(r.Lossy.Values[0])))
	row("lossy λ1", Branch1.Render(formatComplex(r.Lossy.Values[1])))
	row("lossless λ0", Branch0.Render(formatComplex(r.Lossless.Values[0])))
	row("lossless λ1", Branch1.Render(formatComplex(r.Lossless.Values[1])))
	row("lossy v0", formatVector(r.Lossy.Vectors[0]))
	row("lossy v1", formatVector(r.Lossy.Vectors[1]))
	sb.WriteString("\n")
	row("Hopf C", formatComplex(hc))
	row("Hopf E", formatComplex(he))
	row("|C|² / |E|²", fmt.Sprintf("%.4f / %.4f", fc, fe))
	row("Re gap / Im gap", fmt.Sprintf("%.4e / %.4e", pt.RealGap, pt.ImagGap))

	spark := max(m.width-20, 10)
	sb.WriteString("\n")
	row("Re gap", Sparkline(m.realGap, spark, m.cursor))
	row("Im gap", Sparkline(m.imagGap, spark, m.cursor))

	sb.WriteString("\n")
	sb.WriteString(Separator(min(m.width, 60)))
	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("←/→ step  H/L page  g/G ends  t track  q quit"))
	sb.WriteString("\n")
	return Panel.Render(sb.String()) + "\n"
}

func formatComplex(c complex128) string {
	sign := '+'
	if imag(c) < 0 || (imag(c) == 0 && math.Signbit(imag(c))) {
		sign = '-'
	}
	return fmt.Sprintf("%.7f %c %.7fi", real(c), sign, math.Abs(imag(c)))
}

func formatVector(v [2]complex128) string {
	return fmt.Sprintf("[%s, %s]", formatComplex(v[0]), formatComplex(v[1]))
}
