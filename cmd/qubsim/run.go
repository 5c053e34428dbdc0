package main

import (
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"qubsim/circuit"
	"qubsim/sim"
)

var (
	runQubits int
	runOps    string
	runQASM   string
	runShots  int
	runSeed   uint64
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a circuit and print measurement counts",
	Long: `Simulate a circuit and print the measurement counts.

The circuit comes either from an operation list or from an OpenQASM 2.0 file.
Bitstrings put qubit 0 rightmost.

Example:
  qubsim run --qubits 2 --ops "h 0; cx 0 1" --shots 1000
  qubsim run --qasm bell.qasm --seed 7 --output json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCircuit(cmd)
		if err != nil {
			return err
		}

		shots := cfg.Run.Shots
		if cmd.Flags().Changed("shots") {
			shots = runShots
		}
		seed := rand.Uint64()
		switch {
		case cmd.Flags().Changed("seed"):
			seed = runSeed
		case cfg.Run.Seed != nil:
			seed = *cfg.Run.Seed
		}

		ops := c.Operations()
		counts, err := newRunner(logger).Run(cmd.Context(), c.NumQubits, ops, shots, sim.WithSeed(seed))
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), runOutput, report{
			Qubits:     c.NumQubits,
			Operations: circuit.FormatOps(ops),
			Shots:      shots,
			Seed:       seed,
			Counts:     counts,
		})
	},
}

func loadCircuit(cmd *cobra.Command) (*circuit.Circuit, error) {
	if runQASM != "" {
		src, err := os.ReadFile(runQASM)
		if err != nil {
			return nil, errors.Wrap(err, "read qasm")
		}
		c, err := circuit.ParseQASM(string(src))
		if err != nil {
			return nil, errors.Wrap(err, runQASM)
		}
		if cmd.Flags().Changed("qubits") && runQubits != c.NumQubits {
			return nil, errors.Errorf("--qubits %d does not match qreg of %d qubits", runQubits, c.NumQubits)
		}
		return c, nil
	}

	if !cmd.Flags().Changed("qubits") {
		return nil, errors.New("--qubits is required unless --qasm is given")
	}
	ops, err := circuit.ParseOps(runOps)
	if err != nil {
		return nil, err
	}
	return circuit.FromOperations(runQubits, ops)
}

func init() {
	runCmd.Flags().IntVarP(&runQubits, "qubits", "n", 0, "number of qubits")
	runCmd.Flags().StringVar(&runOps, "ops", "", `operations, e.g. "h 0; cx 0 1" or "H(0) → CX(0, 1)"`)
	runCmd.Flags().StringVar(&runQASM, "qasm", "", "OpenQASM 2.0 file to simulate")
	runCmd.Flags().IntVarP(&runShots, "shots", "s", 0, "number of measurement shots (default from config)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "sampling seed for reproducible counts")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "text", "output format: text, json or yaml")
	runCmd.MarkFlagsMutuallyExclusive("ops", "qasm")
	rootCmd.AddCommand(runCmd)
}
