package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBitstring(t *testing.T) {
	assert.Equal(t, "000", FormatBitstring(0, 3))
	assert.Equal(t, "001", FormatBitstring(1, 3))
	assert.Equal(t, "110", FormatBitstring(6, 3))
	assert.Equal(t, "1", FormatBitstring(1, 1))
	assert.Equal(t, "11", FormatBitstring(3, 1), "wider than numQubits")
}

func TestAggregate(t *testing.T) {
	counts := Aggregate([]uint64{0, 3, 3, 0, 3}, 2)
	assert.Equal(t, Counts{"00": 2, "11": 3}, counts)
	assert.Equal(t, 5, counts.Total())
	assert.Equal(t, []string{"00", "11"}, counts.Keys())
	assert.InDelta(t, 0.6, counts.Frequency("11"), 1e-12)
	assert.Zero(t, counts.Frequency("01"))

	assert.Empty(t, Aggregate(nil, 4))
	assert.Zero(t, Counts{}.Frequency("0"))
}
