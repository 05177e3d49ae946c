package coupling

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestHopf(t *testing.T) {
	tests := []struct {
		name  string
		v     [2]complex128
		wantC complex128
		wantE complex128
	}{
		{"real", [2]complex128{0.6, 0.8}, 0.36, 0.64},
		{"imaginary second", [2]complex128{0.6, complex(0, 0.8)}, 0.36, -0.64},
		{"basis", [2]complex128{1, 0}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, e := Hopf(tt.v)
			if cmplx.Abs(c-tt.wantC) > 1e-15 || cmplx.Abs(e-tt.wantE) > 1e-15 {
				t.Errorf("Hopf(%v) = (%v, %v), want (%v, %v)", tt.v, c, e, tt.wantC, tt.wantE)
			}
		})
	}
}

func TestModeFractions_SumToOne(t *testing.T) {
	records, err := Run(DefaultParams())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	s := Extract(records)
	for i := range s.ModeFractionC {
		if sum := s.ModeFractionC[i] + s.ModeFractionE[i]; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("step %d: mode fractions sum to %v", i+1, sum)
		}
	}
}

func TestExtract(t *testing.T) {
	p := DefaultParams()
	p.StepCount = 5
	records, err := Run(p)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	s := Extract(records)
	if s.Len() != 5 {
		t.Fatalf("expected 5 points, got %d", s.Len())
	}

	for i, r := range records {
		if s.Coupling[i] != r.Coupling {
			t.Errorf("Coupling[%d] = %v, want %v", i, s.Coupling[i], r.Coupling)
		}
		for b := 0; b < 2; b++ {
			if s.LossyReal[b][i] != real(r.Lossy.Values[b]) {
				t.Errorf("LossyReal[%d][%d] mismatch", b, i)
			}
			if s.LossyImag[b][i] != imag(r.Lossy.Values[b]) {
				t.Errorf("LossyImag[%d][%d] mismatch", b, i)
			}
			if s.LosslessReal[b][i] != real(r.Lossless.Values[b]) {
				t.Errorf("LosslessReal[%d][%d] mismatch", b, i)
			}
		}
		c, e := Hopf(r.Lossy.Vectors[0])
		if s.HopfC[i] != c || s.HopfE[i] != e {
			t.Errorf("Hopf[%d] mismatch", i)
		}
	}
}

func TestExtract_Empty(t *testing.T) {
	s := Extract(nil)
	if s.Len() != 0 {
		t.Errorf("expected empty series, got %d points", s.Len())
	}
}
