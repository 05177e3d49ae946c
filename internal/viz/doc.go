// Package viz renders coupling sweeps in the terminal.
//
// Static output goes through asciigraph:
//
//   - [RealChart], [ImagChart]: eigenvalue branches against the coupling step
//   - [HopfChart]: Hopf coefficients of the first lossy eigenvector
//   - [Report]: all charts stacked with a coupling-axis footer
//
// [Explorer] is a Bubble Tea model for stepping through a stored run.
//
// # Key Bindings
//
//	←/→ or h/l  - Previous/next step
//	H/L         - Page by ten steps
//	g/G         - First/last step
//	t           - Toggle branch tracking
//	q           - Quit
package viz
