// Package sim is a dense state-vector simulator for small quantum circuits.
//
// A circuit is a qubit count plus an ordered list of Gates. Runner.Run starts
// every qubit in |0⟩, applies the gates in order and samples the final state
// shots times:
//
//	counts, err := sim.Run(ctx, 2, []sim.Gate{sim.H(0), sim.CNOT(0, 1)}, 1024)
//	// counts ≈ {"00": 512, "11": 512}
//
// Qubit q is bit q of an amplitude index. Bitstrings in Counts print qubit
// n-1 first, so "01" means qubit 0 measured 1 and qubit 1 measured 0.
package sim
