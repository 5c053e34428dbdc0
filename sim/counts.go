package sim

import (
	"sort"
	"strconv"
	"strings"
)

// Counts maps measured bitstrings to how often they were observed. Keys are
// numQubits characters wide with qubit n-1 leftmost and qubit 0 rightmost, so
// a key is the binary rendering of the basis index. Only observed bitstrings
// have an entry.
type Counts map[string]int

// Aggregate tallies sampled basis indices into Counts.
func Aggregate(outcomes []uint64, numQubits int) Counts {
	counts := make(Counts)
	for _, idx := range outcomes {
		counts[FormatBitstring(idx, numQubits)]++
	}
	return counts
}

// FormatBitstring renders idx as a numQubits-wide binary string.
func FormatBitstring(idx uint64, numQubits int) string {
	s := strconv.FormatUint(idx, 2)
	if len(s) >= numQubits {
		return s
	}
	return strings.Repeat("0", numQubits-len(s)) + s
}

// Total returns the number of shots represented.
func (c Counts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Keys returns the observed bitstrings in ascending order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Frequency returns the observed fraction for key.
func (c Counts) Frequency(key string) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[key]) / float64(total)
}
