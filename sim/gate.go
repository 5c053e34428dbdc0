package sim

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/pkg/errors"
)

// Matrix is a 2×2 complex operator in row-major order.
type Matrix [2][2]complex128

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	MatrixH = Matrix{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	MatrixX = Matrix{{0, 1}, {1, 0}}
	MatrixY = Matrix{{0, -1i}, {1i, 0}}
	MatrixZ = Matrix{{1, 0}, {0, -1}}
	MatrixS = Matrix{{1, 0}, {0, 1i}}
	MatrixT = Matrix{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
)

// Kind identifies a gate operation.
type Kind uint8

const (
	KindH Kind = iota + 1
	KindX
	KindY
	KindZ
	KindS
	KindT
	KindCNOT
	KindCZ
)

var kindNames = map[Kind]string{
	KindH:    "H",
	KindX:    "X",
	KindY:    "Y",
	KindZ:    "Z",
	KindS:    "S",
	KindT:    "T",
	KindCNOT: "CX",
	KindCZ:   "CZ",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Controlled reports whether the kind takes a control qubit.
func (k Kind) Controlled() bool {
	return k == KindCNOT || k == KindCZ
}

// Matrix returns the 2×2 operator applied to the target qubit.
func (k Kind) Matrix() Matrix {
	switch k {
	case KindH:
		return MatrixH
	case KindX, KindCNOT:
		return MatrixX
	case KindY:
		return MatrixY
	case KindZ, KindCZ:
		return MatrixZ
	case KindS:
		return MatrixS
	case KindT:
		return MatrixT
	}
	return Matrix{{1, 0}, {0, 1}}
}

// ParseKind resolves a gate name, case-insensitively. "CNOT" and "CX" are
// the same gate.
func ParseKind(name string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "H":
		return KindH, nil
	case "X":
		return KindX, nil
	case "Y":
		return KindY, nil
	case "Z":
		return KindZ, nil
	case "S":
		return KindS, nil
	case "T":
		return KindT, nil
	case "CX", "CNOT":
		return KindCNOT, nil
	case "CZ":
		return KindCZ, nil
	}
	return 0, errors.Errorf("unknown gate %q", name)
}

// Gate is one immutable operation of a circuit. The zero value is not a
// valid gate; build gates with the constructors.
type Gate struct {
	kind    Kind
	target  int
	control int // -1 if not a controlled gate
}

// NewGate builds a gate of the given kind. Controlled kinds take exactly one
// control qubit; the others take none.
func NewGate(kind Kind, target int, control ...int) (Gate, error) {
	if _, ok := kindNames[kind]; !ok {
		return Gate{}, errors.Errorf("unknown gate kind %d", kind)
	}
	g := Gate{kind: kind, target: target, control: -1}
	if target < 0 {
		return Gate{}, &QubitError{Position: -1, Gate: kind.String(), Qubit: target, Reason: "is negative"}
	}
	if kind.Controlled() {
		if len(control) != 1 {
			return Gate{}, errors.Errorf("%s needs exactly one control qubit, got %d", kind, len(control))
		}
		g.control = control[0]
		if g.control < 0 {
			return Gate{}, &QubitError{Position: -1, Gate: kind.String(), Qubit: g.control, Reason: "is negative"}
		}
		if g.control == target {
			return Gate{}, &QubitError{Position: -1, Gate: kind.String(), Qubit: target, Reason: "is both control and target"}
		}
	} else if len(control) > 0 {
		return Gate{}, errors.Errorf("%s does not take a control qubit", kind)
	}
	return g, nil
}

// H returns a Hadamard gate on qubit q.
func H(q int) Gate { return Gate{kind: KindH, target: q, control: -1} }

// X returns a Pauli-X gate on qubit q.
func X(q int) Gate { return Gate{kind: KindX, target: q, control: -1} }

// Y returns a Pauli-Y gate on qubit q.
func Y(q int) Gate { return Gate{kind: KindY, target: q, control: -1} }

// Z returns a Pauli-Z gate on qubit q.
func Z(q int) Gate { return Gate{kind: KindZ, target: q, control: -1} }

// S returns a phase gate on qubit q.
func S(q int) Gate { return Gate{kind: KindS, target: q, control: -1} }

// T returns a π/8 gate on qubit q.
func T(q int) Gate { return Gate{kind: KindT, target: q, control: -1} }

// CNOT returns a controlled-X gate. Operand checks are deferred to Validate
// so that CNOT(0, 0) can be built and rejected by the runner.
func CNOT(control, target int) Gate { return Gate{kind: KindCNOT, target: target, control: control} }

// CZ returns a controlled-Z gate.
func CZ(control, target int) Gate { return Gate{kind: KindCZ, target: target, control: control} }

func (g Gate) Kind() Kind  { return g.kind }
func (g Gate) Target() int { return g.target }

// Control returns the control qubit and whether the gate has one.
func (g Gate) Control() (int, bool) {
	if !g.kind.Controlled() {
		return -1, false
	}
	return g.control, true
}

// Qubits returns every qubit the gate touches, control first.
func (g Gate) Qubits() []int {
	if c, ok := g.Control(); ok {
		return []int{c, g.target}
	}
	return []int{g.target}
}

// Validate checks the operands against a circuit of numQubits qubits.
func (g Gate) Validate(numQubits int) error {
	if _, ok := kindNames[g.kind]; !ok {
		return errors.Errorf("unknown gate kind %d", g.kind)
	}
	if err := checkQubit(g.kind.String(), g.target, numQubits); err != nil {
		return err
	}
	if c, ok := g.Control(); ok {
		if err := checkQubit(g.kind.String(), c, numQubits); err != nil {
			return err
		}
		if c == g.target {
			return &QubitError{Position: -1, Gate: g.kind.String(), Qubit: c, NumQubits: numQubits,
				Reason: "is both control and target"}
		}
	}
	return nil
}

func checkQubit(gate string, q, numQubits int) error {
	if q < 0 || q >= numQubits {
		return &QubitError{Position: -1, Gate: gate, Qubit: q, NumQubits: numQubits, Reason: "is out of range"}
	}
	return nil
}

// String renders the gate as H(0) or CX(0, 1), control first.
func (g Gate) String() string {
	if c, ok := g.Control(); ok {
		return fmt.Sprintf("%s(%d, %d)", g.kind, c, g.target)
	}
	return fmt.Sprintf("%s(%d)", g.kind, g.target)
}
