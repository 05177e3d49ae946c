package coupling

import (
	"math"
	"math/cmplx"
)

// Reference scenario constants.
const (
	DefaultBaseEnergy        = complex(1.371, -0.00009)
	DefaultOtherEnergy       = complex(1.371, -0.00009)
	DefaultLossIncrement     = complex(0, 0.012438968)
	DefaultInitialCoupling   = 0.00132
	DefaultCouplingIncrement = 0.0000015
	DefaultStepCount         = 401
)

// Params fixes everything a sweep needs. It is passed by value and never
// modified by the sweep.
type Params struct {
	BaseEnergy        complex128
	OtherEnergy       complex128
	LossIncrement     complex128
	InitialCoupling   float64
	CouplingIncrement float64
	StepCount         int
}

// DefaultParams returns the reference sweep: 401 steps from C=0.00132.
func DefaultParams() Params {
	return Params{
		BaseEnergy:        DefaultBaseEnergy,
		OtherEnergy:       DefaultOtherEnergy,
		LossIncrement:     DefaultLossIncrement,
		InitialCoupling:   DefaultInitialCoupling,
		CouplingIncrement: DefaultCouplingIncrement,
		StepCount:         DefaultStepCount,
	}
}

// Validate reports the first invalid field as a *ParamError.
func (p Params) Validate() error {
	if p.StepCount < 1 {
		return &ParamError{Field: "StepCount", Value: p.StepCount, Wrapped: ErrStepCount}
	}

	complexFields := []struct {
		name string
		v    complex128
	}{
		{"BaseEnergy", p.BaseEnergy},
		{"OtherEnergy", p.OtherEnergy},
		{"LossIncrement", p.LossIncrement},
	}
	for _, f := range complexFields {
		if cmplx.IsNaN(f.v) || cmplx.IsInf(f.v) {
			return &ParamError{Field: f.name, Value: f.v, Wrapped: ErrNonFinite}
		}
	}

	realFields := []struct {
		name string
		v    float64
	}{
		{"InitialCoupling", p.InitialCoupling},
		{"CouplingIncrement", p.CouplingIncrement},
	}
	for _, f := range realFields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ParamError{Field: f.name, Value: f.v, Wrapped: ErrNonFinite}
		}
	}

	if p.StepCount > 1 && p.CouplingIncrement <= 0 {
		return &ParamError{Field: "CouplingIncrement", Value: p.CouplingIncrement, Wrapped: ErrCouplingIncrement}
	}
	return nil
}

// CouplingAt returns the coupling coefficient of 1-based step a.
func (p Params) CouplingAt(a int) float64 {
	return p.InitialCoupling + p.CouplingIncrement*float64(a-1)
}

// EnergyGap is BaseEnergy − OtherEnergy.
func (p Params) EnergyGap() complex128 {
	return p.BaseEnergy - p.OtherEnergy
}

// Lossy builds [[base − loss, c], [c, other]].
func (p Params) Lossy(c float64) Matrix {
	k := complex(c, 0)
	return Matrix{{p.BaseEnergy - p.LossIncrement, k}, {k, p.OtherEnergy}}
}

// Lossless builds [[base, c], [c, other]].
func (p Params) Lossless(c float64) Matrix {
	k := complex(c, 0)
	return Matrix{{p.BaseEnergy, k}, {k, p.OtherEnergy}}
}

// Matrix is a row-major complex 2×2 matrix.
type Matrix [2][2]complex128

// Apply returns m·v.
func (m Matrix) Apply(v [2]complex128) [2]complex128 {
	return [2]complex128{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

// Residual returns ‖m·v − λ·v‖.
func (m Matrix) Residual(lambda complex128, v [2]complex128) float64 {
	mv := m.Apply(v)
	return vecNorm([2]complex128{mv[0] - lambda*v[0], mv[1] - lambda*v[1]})
}

// Eigen holds a decomposition. Vectors[i] belongs to Values[i]; Vectors[i][j]
// is its j-th component.
type Eigen struct {
	Values  [2]complex128
	Vectors [2][2]complex128
}

// Swapped returns e with the two eigenpairs exchanged.
func (e Eigen) Swapped() Eigen {
	return Eigen{
		Values:  [2]complex128{e.Values[1], e.Values[0]},
		Vectors: [2][2]complex128{e.Vectors[1], e.Vectors[0]},
	}
}

// Record is one step of a sweep.
type Record struct {
	Step        int
	Coupling    float64
	Lossy       Eigen
	Lossless    Eigen
	BaseEnergy  complex128
	OtherEnergy complex128
	EnergyGap   complex128
}

// Series holds post-processed sweep data as parallel slices indexed by
// record position. Branch index b selects Values[b].
type Series struct {
	Coupling      []float64
	LossyReal     [2][]float64
	LossyImag     [2][]float64
	LosslessReal  [2][]float64
	HopfC         []complex128
	HopfE         []complex128
	ModeFractionC []float64
	ModeFractionE []float64
}

// Len returns the number of points in s.
func (s Series) Len() int { return len(s.Coupling) }

func vecNorm(v [2]complex128) float64 {
	return math.Hypot(cmplx.Abs(v[0]), cmplx.Abs(v[1]))
}
