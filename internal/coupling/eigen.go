package coupling

import (
	"math/cmplx"
)

// Decompose returns the eigenvalues and unit eigenvectors of m.
//
// Values[0] = m̄ + s and Values[1] = m̄ − s, with m̄ the mean of the diagonal
// and s the principal square root of the discriminant. Each eigenvector has
// unit Euclidean norm and its largest-modulus component is real and
// non-negative. At an exceptional point both vectors coincide.
func Decompose(m Matrix) Eigen {
	a, b := m[0][0], m[0][1]
	c, d := m[1][0], m[1][1]

	mean := (a + d) / 2
	half := (a - d) / 2
	s := cmplx.Sqrt(half*half + b*c)

	var e Eigen
	e.Values = [2]complex128{mean + s, mean - s}
	for i, lambda := range e.Values {
		e.Vectors[i] = eigenvector(m, lambda, i)
	}
	return e
}

// eigenvector picks the better conditioned of the two null-space candidates
// of m − λI. A scalar matrix has no preferred direction, so it falls back to
// the i-th basis vector.
func eigenvector(m Matrix, lambda complex128, i int) [2]complex128 {
	a, b := m[0][0], m[0][1]
	c, d := m[1][0], m[1][1]

	v := [2]complex128{b, lambda - a}
	w := [2]complex128{lambda - d, c}
	if vecNorm(w) > vecNorm(v) {
		v = w
	}

	n := vecNorm(v)
	if n == 0 {
		var basis [2]complex128
		basis[i] = 1
		return basis
	}
	return normalize(v, n)
}

func normalize(v [2]complex128, n float64) [2]complex128 {
	v[0] /= complex(n, 0)
	v[1] /= complex(n, 0)

	pivot := v[0]
	if cmplx.Abs(v[1]) > cmplx.Abs(v[0]) {
		pivot = v[1]
	}
	if r := cmplx.Abs(pivot); r > 0 {
		phase := cmplx.Conj(pivot) / complex(r, 0)
		v[0] *= phase
		v[1] *= phase
	}
	return v
}
