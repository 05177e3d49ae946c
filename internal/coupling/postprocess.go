package coupling

import (
	"math/cmplx"
)

// Hopf returns the mode-mixing coefficients of an eigenvector: the complex
// squares of its first and second components.
func Hopf(v [2]complex128) (c, e complex128) {
	return v[0] * v[0], v[1] * v[1]
}

// ModeFractions returns |v0|² and |v1|².
func ModeFractions(v [2]complex128) (c, e float64) {
	a, b := cmplx.Abs(v[0]), cmplx.Abs(v[1])
	return a * a, b * b
}

// Extract flattens records into parallel series. The Hopf coefficients and
// mode fractions come from the first eigenvector of the lossy decomposition.
func Extract(records []Record) Series {
	n := len(records)
	s := Series{
		Coupling:      make([]float64, n),
		HopfC:         make([]complex128, n),
		HopfE:         make([]complex128, n),
		ModeFractionC: make([]float64, n),
		ModeFractionE: make([]float64, n),
	}
	for b := 0; b < 2; b++ {
		s.LossyReal[b] = make([]float64, n)
		s.LossyImag[b] = make([]float64, n)
		s.LosslessReal[b] = make([]float64, n)
	}

	for i, r := range records {
		s.Coupling[i] = r.Coupling
		for b := 0; b < 2; b++ {
			s.LossyReal[b][i] = real(r.Lossy.Values[b])
			s.LossyImag[b][i] = imag(r.Lossy.Values[b])
			s.LosslessReal[b][i] = real(r.Lossless.Values[b])
		}
		first := r.Lossy.Vectors[0]
		s.HopfC[i], s.HopfE[i] = Hopf(first)
		s.ModeFractionC[i], s.ModeFractionE[i] = ModeFractions(first)
	}
	return s
}
