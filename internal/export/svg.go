package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/coupledmode/internal/coupling"
)

// Line is one named series drawn against a shared x axis.
type Line struct {
	Name  string
	Color string
	Y     []float64
	Faint bool
}

// Palette used for branch charts.
const (
	ColorBranch0   = "#00ccff"
	ColorBranch1   = "#ff00ff"
	ColorLossless  = "#00ff88"
	ColorFractionC = "#ffcc00"
	ColorFractionE = "#ff4444"
)

// SeriesToSVG draws lines over x with a 10% margin and a legend. Lines whose
// length differs from x are skipped.
func SeriesToSVG(x []float64, lines []Line, width, height int, title string) string {
	if len(x) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := bounds(x)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		if len(l.Y) != len(x) {
			continue
		}
		lo, hi := bounds(l.Y)
		minY, maxY = math.Min(minY, lo), math.Max(maxY, hi)
	}
	if math.IsInf(minY, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#ffffff" font-family="monospace" font-size="12">%s</text>
`, escape(title)))
	}

	legendY := 32
	for _, l := range lines {
		if len(l.Y) != len(x) {
			continue
		}
		opacity := "1"
		if l.Faint {
			opacity = "0.3"
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="%s" stroke-width="1.5" d="M`, l.Color, opacity))
		for i := range x {
			px := (x[i] - minX) / rangeX * float64(width)
			py := float64(height) - (l.Y[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="11">%s</text>
`, legendY, l.Color, escape(l.Name)))
		legendY += 14
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="#888899" font-family="monospace" font-size="10">C %.6g .. %.6g</text>
`, height-6, minX, maxX))
	sb.WriteString("</svg>")
	return sb.String()
}

// BranchSVG charts the real parts of both lossy branches with the lossless
// branches underneath.
func BranchSVG(s coupling.Series, width, height int) string {
	return SeriesToSVG(s.Coupling, []Line{
		{Name: "Re λ0", Color: ColorBranch0, Y: s.LossyReal[0]},
		{Name: "Re λ1", Color: ColorBranch1, Y: s.LossyReal[1]},
		{Name: "lossless 0", Color: ColorLossless, Y: s.LosslessReal[0], Faint: true},
		{Name: "lossless 1", Color: ColorLossless, Y: s.LosslessReal[1], Faint: true},
	}, width, height, "Re(E) vs coupling strength")
}

// LinewidthSVG charts the imaginary parts of both lossy branches.
func LinewidthSVG(s coupling.Series, width, height int) string {
	return SeriesToSVG(s.Coupling, []Line{
		{Name: "Im λ0", Color: ColorBranch0, Y: s.LossyImag[0]},
		{Name: "Im λ1", Color: ColorBranch1, Y: s.LossyImag[1]},
	}, width, height, "Im(E) vs coupling strength")
}

// ModeFractionSVG charts |C|² and |E|² of the first lossy eigenvector.
func ModeFractionSVG(s coupling.Series, width, height int) string {
	return SeriesToSVG(s.Coupling, []Line{
		{Name: "|C|²", Color: ColorFractionC, Y: s.ModeFractionC},
		{Name: "|E|²", Color: ColorFractionE, Y: s.ModeFractionE},
	}, width, height, "mode fractions vs coupling strength")
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return svgEscaper.Replace(s) }
