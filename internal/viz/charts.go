package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/coupledmode/internal/coupling"
)

// ChartOptions sizes the terminal charts.
type ChartOptions struct {
	Width     int
	Height    int
	Precision uint
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 80, Height: 12, Precision: 6}
}

func (o ChartOptions) plot(series [][]float64, caption string, colors []asciigraph.AnsiColor, legends []string) string {
	return asciigraph.PlotMany(series,
		asciigraph.Height(o.Height),
		asciigraph.Width(o.Width),
		asciigraph.Precision(o.Precision),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// RealChart plots Re λ of both lossy branches over the lossless branches.
func RealChart(s coupling.Series, o ChartOptions) string {
	return o.plot(
		[][]float64{s.LosslessReal[0], s.LosslessReal[1], s.LossyReal[0], s.LossyReal[1]},
		"Re(E) vs coupling step",
		[]asciigraph.AnsiColor{asciigraph.Green, asciigraph.Green, asciigraph.Cyan, asciigraph.Magenta},
		[]string{"lossless 0", "lossless 1", "eigenval 0", "eigenval 1"},
	)
}

// ImagChart plots Im λ of both lossy branches.
func ImagChart(s coupling.Series, o ChartOptions) string {
	return o.plot(
		[][]float64{s.LossyImag[0], s.LossyImag[1]},
		"Im(E) vs coupling step",
		[]asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta},
		[]string{"eigenval 0", "eigenval 1"},
	)
}

// HopfChart plots the real parts of the Hopf coefficients of the first lossy
// eigenvector.
func HopfChart(s coupling.Series, o ChartOptions) string {
	c := make([]float64, s.Len())
	e := make([]float64, s.Len())
	for i := range c {
		c[i] = real(s.HopfC[i])
		e[i] = real(s.HopfE[i])
	}
	return o.plot(
		[][]float64{c, e},
		"Re(Hopf coefficient) vs coupling step",
		[]asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Red},
		[]string{"C", "E"},
	)
}

// Report renders every chart with a coupling-axis footer. Fewer than two
// points give an empty report.
func Report(s coupling.Series, o ChartOptions) string {
	if s.Len() < 2 {
		return ""
	}

	var sb strings.Builder
	axis := fmt.Sprintf("coupling: %.6g (step 1) .. %.6g (step %d)\n\n", s.Coupling[0], s.Coupling[s.Len()-1], s.Len())
	for _, chart := range []string{RealChart(s, o), ImagChart(s, o), HopfChart(s, o)} {
		sb.WriteString(chart)
		sb.WriteString("\n")
		sb.WriteString(Subtle.Render(axis))
	}
	return sb.String()
}
