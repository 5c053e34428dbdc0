package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qubsim/internal/tui"
)

var savePath string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit and run circuits interactively",
	Long: `Open the interactive circuit editor.

Gates are placed on a step grid, the QASM panel stays in sync with the grid,
and r runs the circuit. Logs go to logger.path only, since the editor owns
the terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger
		if cfg.Logger.Path == "" {
			l = zap.NewNop()
		}

		opts := []tui.Option{
			tui.WithRunner(newRunner(l)),
			tui.WithLogger(l),
			tui.WithQubits(cfg.Run.EditorQubits),
			tui.WithShots(cfg.Run.Shots),
			tui.WithSavePath(savePath),
		}
		if cfg.Run.Seed != nil {
			opts = append(opts, tui.WithSeed(*cfg.Run.Seed))
		}
		return tui.Run(cmd.Context(), opts...)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&savePath, "save", "circuit.qasm", "file written by Ctrl+S")
	rootCmd.AddCommand(tuiCmd)
}
