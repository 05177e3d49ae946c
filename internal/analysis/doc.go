// Package analysis characterizes mode splitting over a coupling sweep.
//
// The lossy coupled-mode matrix has an exceptional point where its two
// eigenvalues coalesce. Below it the real parts coincide and the imaginary
// parts (linewidths) differ; above it the real parts (frequencies) split:
//
//   - [PredictedExceptionalPoint]: closed-form coupling of the coalescence
//   - [Splitting]: real and imaginary eigenvalue gaps per step
//   - [Coalescence]: sweep-based estimate of where the real parts split
//   - [SplittingToASCII]: terminal map of both gaps against coupling
//
// # Example
//
//	records, _ := coupling.Run(p)
//	sum := analysis.Summarize(p, records, 1e-9)
//	if sum.CoalescenceFound {
//	    fmt.Printf("splitting starts near C=%.6f\n", sum.Coalescence)
//	}
package analysis
