package sim

// pairs enumerates the amplitude index pairs a 2×2 operator on one target
// qubit couples. Pair k is (i0, i1) where i0 has the target bit clear and
// i1 = i0 with the target bit set. For controlled operators only indices
// with the control bit set are produced. Every pair appears exactly once, and
// distinct pairs never share an index, so any partition of [0, count) can be
// processed independently.
type pairs struct {
	count   uint64
	target  uint64
	control uint64 // 0 when uncontrolled
	low     int    // bit positions forced to zero, ascending; high is -1 when unused
	high    int
}

func singlePairs(numQubits, q int) pairs {
	return pairs{
		count:  uint64(1) << (numQubits - 1),
		target: uint64(1) << q,
		low:    q,
		high:   -1,
	}
}

func controlledPairs(numQubits, control, target int) pairs {
	low, high := min(control, target), max(control, target)
	return pairs{
		count:   uint64(1) << (numQubits - 2),
		target:  uint64(1) << target,
		control: uint64(1) << control,
		low:     low,
		high:    high,
	}
}

// at returns the k-th pair.
func (p pairs) at(k uint64) (i0, i1 uint64) {
	i0 = insertZeroBit(k, p.low)
	if p.high >= 0 {
		i0 = insertZeroBit(i0, p.high)
	}
	i0 |= p.control
	return i0, i0 | p.target
}

// insertZeroBit shifts the bits of k at and above pos up by one, leaving a
// zero at pos.
func insertZeroBit(k uint64, pos int) uint64 {
	lowMask := uint64(1)<<pos - 1
	return (k&^lowMask)<<1 | k&lowMask
}
