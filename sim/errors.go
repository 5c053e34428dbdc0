package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidSize is returned when a qubit count is non-positive or above
	// the configured ceiling.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidQubit is returned for out-of-range or coinciding qubit
	// operands.
	ErrInvalidQubit = errors.New("invalid qubit")
	// ErrInvalidShotCount is returned when shots is not positive.
	ErrInvalidShotCount = errors.New("invalid shot count")
	// ErrSimulationFailure covers resource and numeric faults during a run.
	ErrSimulationFailure = errors.New("simulation failure")
)

// SizeError reports a rejected qubit count.
type SizeError struct {
	NumQubits int
	Max       int
}

func (e *SizeError) Error() string {
	if e.NumQubits < 1 {
		return fmt.Sprintf("invalid size: %d qubits, need at least 1", e.NumQubits)
	}
	return fmt.Sprintf("invalid size: %d qubits exceeds limit of %d", e.NumQubits, e.Max)
}

func (e *SizeError) Is(target error) bool { return target == ErrInvalidSize }

// QubitError reports an invalid gate operand.
//
// Position is the index of the gate in the operation list, or -1 when the
// error did not come from a list.
type QubitError struct {
	Position  int
	Gate      string
	Qubit     int
	NumQubits int
	Reason    string
}

func (e *QubitError) Error() string {
	var where string
	if e.Position >= 0 {
		where = fmt.Sprintf("operation %d ", e.Position)
	}
	if e.Gate != "" {
		where += e.Gate + ": "
	}
	if e.NumQubits > 0 {
		return fmt.Sprintf("invalid qubit: %squbit %d %s (circuit has %d qubits)",
			where, e.Qubit, e.Reason, e.NumQubits)
	}
	return fmt.Sprintf("invalid qubit: %squbit %d %s", where, e.Qubit, e.Reason)
}

func (e *QubitError) Is(target error) bool { return target == ErrInvalidQubit }

// ShotCountError reports a non-positive shot count.
type ShotCountError struct {
	Shots int
}

func (e *ShotCountError) Error() string {
	return fmt.Sprintf("invalid shot count: %d, must be positive", e.Shots)
}

func (e *ShotCountError) Is(target error) bool { return target == ErrInvalidShotCount }

// SimulationError wraps an unexpected fault raised while a run was in
// progress.
//
// The underlying cause (if any) can be accessed via errors.Unwrap.
type SimulationError struct {
	Stage string
	cause error
}

func (e *SimulationError) Error() string {
	if e.cause == nil {
		return "simulation failure: " + e.Stage
	}
	return fmt.Sprintf("simulation failure: %s: %v", e.Stage, e.cause)
}

func (e *SimulationError) Unwrap() error { return e.cause }

func (e *SimulationError) Is(target error) bool { return target == ErrSimulationFailure }

func simulationFailure(stage string, cause error) error {
	return &SimulationError{Stage: stage, cause: cause}
}
