package analysis

import (
	"math"
	"math/cmplx"
	"strings"

	"github.com/san-kum/coupledmode/internal/coupling"
)

// SplitPoint holds the lossy eigenvalue gaps at one coupling value.
type SplitPoint struct {
	Step     int     `json:"step"`
	Coupling float64 `json:"coupling"`
	RealGap  float64 `json:"real_gap"`
	ImagGap  float64 `json:"imag_gap"`
}

// Summary condenses a sweep for reports and run metadata.
type Summary struct {
	Steps              int     `json:"steps"`
	FirstCoupling      float64 `json:"first_coupling"`
	LastCoupling       float64 `json:"last_coupling"`
	PredictedEP        float64 `json:"predicted_exceptional_point"`
	EPInRange          bool    `json:"exceptional_point_in_range"`
	MinRealGap         float64 `json:"min_real_gap"`
	MinRealGapCoupling float64 `json:"min_real_gap_coupling"`
	MaxRealGap         float64 `json:"max_real_gap"`
	Coalescence        float64 `json:"coalescence,omitempty"`
	CoalescenceFound   bool    `json:"coalescence_found"`
	BranchSwaps        int     `json:"branch_swaps"`
}

// PredictedExceptionalPoint returns |(E_base − δγ − E_other)/2|. When that
// half-detuning is purely imaginary, as for equal mode energies with a pure
// loss difference, the lossy discriminant vanishes at this coupling.
func PredictedExceptionalPoint(p coupling.Params) float64 {
	return cmplx.Abs((p.BaseEnergy - p.LossIncrement - p.OtherEnergy) / 2)
}

// Splitting computes the lossy gaps for every record.
func Splitting(records []coupling.Record) []SplitPoint {
	points := make([]SplitPoint, len(records))
	for i, r := range records {
		v := r.Lossy.Values
		points[i] = SplitPoint{
			Step:     r.Step,
			Coupling: r.Coupling,
			RealGap:  math.Abs(real(v[0]) - real(v[1])),
			ImagGap:  math.Abs(imag(v[0]) - imag(v[1])),
		}
	}
	return points
}

// MinRealGap returns the point with the smallest real gap; the first one wins
// ties. ok is false for an empty slice.
func MinRealGap(points []SplitPoint) (SplitPoint, bool) {
	if len(points) == 0 {
		return SplitPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.RealGap < best.RealGap {
			best = p
		}
	}
	return best, true
}

// Coalescence finds the first step whose real gap exceeds tol after a step
// at or below it, and linearly interpolates the coupling at which the gap
// crosses tol.
func Coalescence(points []SplitPoint, tol float64) (float64, bool) {
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if prev.RealGap > tol || cur.RealGap <= tol {
			continue
		}
		frac := (tol - prev.RealGap) / (cur.RealGap - prev.RealGap)
		return prev.Coupling + frac*(cur.Coupling-prev.Coupling), true
	}
	return 0, false
}

// Summarize runs every analysis over a sweep.
func Summarize(p coupling.Params, records []coupling.Record, tol float64) Summary {
	s := Summary{
		Steps:       len(records),
		PredictedEP: PredictedExceptionalPoint(p),
		BranchSwaps: coupling.Swaps(records),
	}
	if len(records) == 0 {
		return s
	}

	s.FirstCoupling = records[0].Coupling
	s.LastCoupling = records[len(records)-1].Coupling
	s.EPInRange = s.PredictedEP >= s.FirstCoupling && s.PredictedEP <= s.LastCoupling

	points := Splitting(records)
	if best, ok := MinRealGap(points); ok {
		s.MinRealGap = best.RealGap
		s.MinRealGapCoupling = best.Coupling
	}
	for _, pt := range points {
		s.MaxRealGap = math.Max(s.MaxRealGap, pt.RealGap)
	}
	s.Coalescence, s.CoalescenceFound = Coalescence(points, tol)
	return s
}

// SplittingToASCII draws the real gap ('•') and imaginary gap ('·') against
// coupling on a shared vertical scale.
func SplittingToASCII(points []SplitPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, p := range points {
		maxVal = math.Max(maxVal, math.Max(p.RealGap, p.ImagGap))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(col int, v float64, mark rune) {
		row := height - 1 - int(v/maxVal*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = mark
		}
	}

	for i, p := range points {
		col := i * width / len(points)
		if col >= width {
			col = width - 1
		}
		plot(col, p.ImagGap, '·')
		plot(col, p.RealGap, '•')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
