package circuit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qubsim/sim"
)

var (
	opCallRegex  = regexp.MustCompile(`^(\w+)\s*\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)$`)
	opWordsRegex = regexp.MustCompile(`^(\w+)\s+(\d+)(?:\s+(\d+))?$`)
	opSeparators = strings.NewReplacer("→", "\n", "->", "\n", ";", "\n")
)

// ParseOps reads an operation list written either as "H(0) → CX(0, 1)" or
// as "h 0; cx 0 1". Separators are →, ->, ; and newlines. For two-qubit
// gates the control comes first.
func ParseOps(src string) ([]sim.Gate, error) {
	var ops []sim.Gate
	for _, field := range strings.Split(opSeparators.Replace(src), "\n") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		g, err := parseOp(field)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d %q", len(ops), field)
		}
		ops = append(ops, g)
	}
	return ops, nil
}

func parseOp(field string) (sim.Gate, error) {
	m := opCallRegex.FindStringSubmatch(field)
	if m == nil {
		m = opWordsRegex.FindStringSubmatch(field)
	}
	if m == nil {
		return sim.Gate{}, errors.New("expected NAME(q) or NAME q")
	}
	kind, err := sim.ParseKind(m[1])
	if err != nil {
		return sim.Gate{}, err
	}
	first, err := strconv.Atoi(m[2])
	if err != nil {
		return sim.Gate{}, errors.Wrap(err, "qubit")
	}
	if m[3] == "" {
		return sim.NewGate(kind, first)
	}
	second, err := strconv.Atoi(m[3])
	if err != nil {
		return sim.Gate{}, errors.Wrap(err, "qubit")
	}
	return sim.NewGate(kind, second, first)
}
