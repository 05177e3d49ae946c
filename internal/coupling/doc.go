// Package coupling computes the normal modes of two coupled optical cavity
// modes over a sweep of the coupling coefficient.
//
// At every step of a sweep two 2×2 complex matrices are diagonalized:
//
//   - the lossy matrix   M = [[E_base − δγ, C], [C, E_other]]
//   - the lossless matrix H = [[E_base,      C], [C, E_other]]
//
// where δγ is a loss difference injected on the first mode only. Because M
// is non-Hermitian its eigenvalues are complex in general, and the two
// branches coalesce at an exceptional point.
//
// The main entry points are:
//
//   - [Decompose]: closed-form eigen-decomposition of a complex 2×2 matrix
//   - [Run]: serial sweep producing one [Record] per coupling value
//   - [RunParallel]: the same sweep split across goroutines
//   - [Extract]: flattens records into plottable [Series]
//   - [TrackBranches]: reorders eigenpairs so branches stay continuous
//
// # Example
//
//	p := coupling.DefaultParams()
//	records, err := coupling.Run(p)
//	if err != nil {
//	    return err
//	}
//	s := coupling.Extract(records)
//	fmt.Println(s.HopfC[0], s.HopfE[0])
//
// # Ordering
//
// [Decompose] always returns m+s before m−s, where s is the principal square
// root of the discriminant. That order is deterministic but does not follow a
// physical branch across steps; use [TrackBranches] when continuity matters.
package coupling
