package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qubsim/sim"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*;?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
	measureRegex    = regexp.MustCompile(`^measure\s+q(?:\[(\d+)\])?\s*->\s*\w+(?:\[(\d+)\])?\s*;?$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\]\s*;?$`)
	cregRegex       = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\]\s*;?$`)
	barrierRegex    = regexp.MustCompile(`^barrier\b`)
)

// ToQASM generates OpenQASM 2.0 for the circuit. Every qubit is measured
// into a classical register of the same width at the end.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, g := range c.Operations() {
		name := strings.ToLower(g.Kind().String())
		if ctrl, ok := g.Control(); ok {
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, ctrl, g.Target())
		} else {
			fmt.Fprintf(&sb, "%s q[%d];\n", name, g.Target())
		}
	}

	sb.WriteString("\n")
	for q := range numQubits {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
	}
	return sb.String()
}

// ParseError points at the offending QASM line.
type ParseError struct {
	Line int
	Text string
	err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.err)
}

func (e *ParseError) Unwrap() error { return e.err }

// ParseQASM reads the OpenQASM 2.0 subset produced by ToQASM: one qreg,
// single-qubit h/x/y/z/s/t, two-qubit cx/cz. Measurements and barriers are
// accepted and ignored since every run measures all qubits at the end.
func ParseQASM(qasm string) (*Circuit, error) {
	c := New(0)
	sawQreg := false

	for i, raw := range strings.Split(qasm, "\n") {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fail := func(err error) (*Circuit, error) {
			return nil, &ParseError{Line: i + 1, Text: strings.TrimSpace(raw), err: err}
		}

		switch {
		case strings.HasPrefix(line, "OPENQASM"), strings.HasPrefix(line, "include"):
			continue
		case strings.HasPrefix(line, "qreg"):
			m := qregRegex.FindStringSubmatch(line)
			if m == nil {
				return fail(errors.New("malformed qreg"))
			}
			if sawQreg {
				return fail(errors.New("only one quantum register is supported"))
			}
			if m[1] != "q" {
				return fail(errors.Errorf("quantum register must be named q, got %s", m[1]))
			}
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return fail(err)
			}
			c.NumQubits = n
			sawQreg = true
			continue
		case strings.HasPrefix(line, "creg"):
			if cregRegex.MatchString(line) {
				continue
			}
			return fail(errors.New("malformed creg"))
		case barrierRegex.MatchString(line):
			continue
		case strings.HasPrefix(line, "measure"):
			if measureRegex.MatchString(line) {
				continue
			}
			return fail(errors.New("malformed measure"))
		}

		if !sawQreg {
			return fail(errors.New("gate before qreg declaration"))
		}

		g, err := parseGateLine(line)
		if err != nil {
			return fail(err)
		}
		if err := c.Append(g); err != nil {
			return fail(err)
		}
	}

	if !sawQreg {
		return nil, errors.New("missing qreg declaration")
	}
	return c, nil
}

func parseGateLine(line string) (sim.Gate, error) {
	if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
		kind, err := sim.ParseKind(m[1])
		if err != nil {
			return sim.Gate{}, err
		}
		control, err := strconv.Atoi(m[2])
		if err != nil {
			return sim.Gate{}, errors.Wrap(err, "control qubit")
		}
		target, err := strconv.Atoi(m[3])
		if err != nil {
			return sim.Gate{}, errors.Wrap(err, "target qubit")
		}
		return sim.NewGate(kind, target, control)
	}
	if m := singleGateRegex.FindStringSubmatch(line); m != nil {
		kind, err := sim.ParseKind(m[1])
		if err != nil {
			return sim.Gate{}, err
		}
		target, err := strconv.Atoi(m[2])
		if err != nil {
			return sim.Gate{}, errors.Wrap(err, "qubit")
		}
		return sim.NewGate(kind, target)
	}
	return sim.Gate{}, errors.New("unsupported statement")
}
