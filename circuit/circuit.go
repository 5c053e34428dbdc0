package circuit

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"qubsim/sim"
)

// MaxEditorQubits bounds the register size offered by authoring surfaces.
const MaxEditorQubits = 10

// Placed is a gate positioned on the circuit timeline.
type Placed struct {
	Gate sim.Gate
	Step int // column in the diagram; gates on one step touch disjoint qubits
}

// Circuit holds an editable quantum circuit.
type Circuit struct {
	NumQubits int
	Gates     []Placed
	MaxSteps  int
}

// New returns an empty circuit on numQubits qubits.
func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// FromOperations lays ops out on the earliest free step, keeping their
// relative order on every qubit.
func FromOperations(numQubits int, ops []sim.Gate) (*Circuit, error) {
	c := New(numQubits)
	for i, g := range ops {
		if err := c.Append(g); err != nil {
			return nil, errors.Wrapf(err, "operation %d", i)
		}
	}
	return c, nil
}

func (c *Circuit) checkQubits(g sim.Gate) error {
	return g.Validate(c.NumQubits)
}

// Add places g at step. It fails if a qubit of g is already used there.
func (c *Circuit) Add(g sim.Gate, step int) error {
	if err := c.checkQubits(g); err != nil {
		return err
	}
	if step < 0 {
		return errors.Errorf("negative step %d", step)
	}
	if !c.CanPlaceAt(step, g.Qubits()) {
		return errors.Errorf("step %d: qubit already used by another gate", step)
	}
	c.Gates = append(c.Gates, Placed{Gate: g, Step: step})
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
	return nil
}

// Append places g on the first step after every gate sharing a qubit with
// it, which packs independent gates into one column.
func (c *Circuit) Append(g sim.Gate) error {
	if err := c.checkQubits(g); err != nil {
		return err
	}
	step := 0
	qubits := g.Qubits()
	lo, hi := slices.Min(qubits), slices.Max(qubits)
	for _, p := range c.Gates {
		pq := p.Gate.Qubits()
		// controlled gates draw a wire across the qubits between their
		// operands, so overlapping spans must not share a column either
		if slices.Max(pq) >= lo && slices.Min(pq) <= hi && p.Step >= step {
			step = p.Step + 1
		}
	}
	return c.Add(g, step)
}

// CanPlaceAt reports whether qubits are free at step, including the wire
// spans of controlled gates already there.
func (c *Circuit) CanPlaceAt(step int, qubits []int) bool {
	for _, p := range c.Gates {
		if p.Step != step {
			continue
		}
		pq := p.Gate.Qubits()
		lo, hi := slices.Min(pq), slices.Max(pq)
		for _, q := range qubits {
			if q >= lo && q <= hi {
				return false
			}
		}
	}
	return true
}

// RemoveAt deletes any gate at step that involves qubit.
func (c *Circuit) RemoveAt(step, qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(p Placed) bool {
		return p.Step == step && slices.Contains(p.Gate.Qubits(), qubit)
	})
	c.recomputeMaxSteps()
}

// RemoveOnQubit deletes every gate involving qubit.
func (c *Circuit) RemoveOnQubit(qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(p Placed) bool {
		return slices.Contains(p.Gate.Qubits(), qubit)
	})
	c.recomputeMaxSteps()
}

// SetNumQubits resizes the register, dropping gates on removed qubits.
func (c *Circuit) SetNumQubits(n int) {
	for q := n; q < c.NumQubits; q++ {
		c.RemoveOnQubit(q)
	}
	c.NumQubits = n
}

// Clear removes every gate.
func (c *Circuit) Clear() {
	c.Gates = nil
	c.MaxSteps = 0
}

func (c *Circuit) recomputeMaxSteps() {
	c.MaxSteps = 0
	for _, p := range c.Gates {
		c.MaxSteps = max(c.MaxSteps, p.Step+1)
	}
}

// GateAt returns the gate at step that touches qubit, or nil.
func (c *Circuit) GateAt(step, qubit int) *Placed {
	for i := range c.Gates {
		p := &c.Gates[i]
		if p.Step == step && slices.Contains(p.Gate.Qubits(), qubit) {
			return p
		}
	}
	return nil
}

// Operations returns the gates in execution order: by step, then by
// insertion order within a step.
func (c *Circuit) Operations() []sim.Gate {
	placed := slices.Clone(c.Gates)
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Step < placed[j].Step
	})
	ops := make([]sim.Gate, len(placed))
	for i, p := range placed {
		ops[i] = p.Gate
	}
	return ops
}

// OpString renders the operations as "H(0) → CX(0, 1)". It is empty for an
// empty circuit.
func (c *Circuit) OpString() string {
	return FormatOps(c.Operations())
}

// FormatOps renders ops as "H(0) → CX(0, 1)".
func FormatOps(ops []sim.Gate) string {
	parts := make([]string, len(ops))
	for i, g := range ops {
		parts[i] = g.String()
	}
	return strings.Join(parts, " → ")
}

func (c *Circuit) String() string {
	return fmt.Sprintf("%d qubits: %s", c.NumQubits, c.OpString())
}
