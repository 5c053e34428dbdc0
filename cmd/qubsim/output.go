package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"qubsim/internal/tui"
	"qubsim/sim"
)

const chartWidth = 72

type report struct {
	Qubits     int        `json:"qubits" yaml:"qubits"`
	Operations string     `json:"operations" yaml:"operations"`
	Shots      int        `json:"shots" yaml:"shots"`
	Seed       uint64     `json:"seed" yaml:"seed"`
	Counts     sim.Counts `json:"counts" yaml:"counts"`
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "text", "":
		ops := r.Operations
		if ops == "" {
			ops = "No gates added yet."
		}
		_, err := fmt.Fprintf(w, "%d qubits, %d shots, seed %d\n%s\n\n%s\n",
			r.Qubits, r.Shots, r.Seed, ops, tui.CountsChart(r.Counts, chartWidth, 0))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "encode json")
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		_, err = w.Write(b)
		return err
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
