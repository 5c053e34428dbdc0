package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"qubsim/config"
)

var overwriteConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration in effect after defaults are applied.

Example:
  qubsim config --config qubsim.yaml
  qubsim config init
  qubsim config set run.shots 4096
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "encode config")
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !overwriteConfig {
			return errors.Errorf("%s already exists, pass --force to overwrite", configPath)
		}
		if err := config.Default().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set one value in the config file named by --config, creating it with
defaults if it does not exist.

Supported keys: simulator.maxQubits, simulator.workers, run.shots, run.seed,
run.editorQubits, logger.level, logger.path, metrics.listenAddr.
An empty run.seed clears the fixed seed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := setConfigValue(cfg, key, value); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %q in %s\n", key, value, configPath)
		return nil
	},
}

func setConfigValue(c *config.Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		return n, errors.Wrapf(err, "%s", key)
	}

	var err error
	switch key {
	case "simulator.maxQubits":
		c.Simulator.MaxQubits, err = atoi()
	case "simulator.workers":
		c.Simulator.Workers, err = atoi()
	case "run.shots":
		c.Run.Shots, err = atoi()
	case "run.editorQubits":
		c.Run.EditorQubits, err = atoi()
	case "run.seed":
		if value == "" {
			c.Run.Seed = nil
			return nil
		}
		seed, perr := strconv.ParseUint(value, 10, 64)
		if perr != nil {
			return errors.Wrapf(perr, "%s", key)
		}
		c.Run.Seed = &seed
	case "logger.level":
		c.Logger.Level = value
	case "logger.path":
		c.Logger.Path = value
	case "metrics.listenAddr":
		c.Metrics.ListenAddr = value
	default:
		return errors.Errorf("unsupported configuration key %q", key)
	}
	return err
}

func init() {
	configInitCmd.Flags().BoolVar(&overwriteConfig, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
