package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"qubsim/sim"
)

// CountsChart renders counts as a horizontal bar chart, one row per
// bitstring in ascending order. If there are more outcomes than maxRows,
// only the maxRows most frequent are drawn. width is the target row width.
func CountsChart(counts sim.Counts, width, maxRows int) string {
	if len(counts) == 0 {
		return dimStyle.Render("No outcomes.")
	}

	keys := counts.Keys()
	shown := keys
	if maxRows > 0 && len(keys) > maxRows {
		shown = slices.Clone(keys)
		slices.SortStableFunc(shown, func(a, b string) int {
			return cmp.Compare(counts[b], counts[a])
		})
		shown = shown[:maxRows]
		slices.Sort(shown)
	}

	total := counts.Total()
	countW := len(strconv.Itoa(total))
	// |key⟩ + space + bar + space + count + "  100.0%"
	barW := max(width-(len(keys[0])+3)-countW-10, 4)

	var sb strings.Builder
	for i, k := range shown {
		c := counts[k]
		filled := int(math.Round(float64(c) / float64(total) * float64(barW)))
		sb.WriteString(qubitLabelStyle.Render("|" + k + "⟩"))
		sb.WriteString(" ")
		sb.WriteString(barStyle.Render(strings.Repeat("█", filled)))
		sb.WriteString(dimStyle.Render(strings.Repeat("░", barW-filled)))
		fmt.Fprintf(&sb, " %*d  %5.1f%%", countW, c, 100*counts.Frequency(k))
		if i < len(shown)-1 {
			sb.WriteString("\n")
		}
	}
	if hidden := len(keys) - len(shown); hidden > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more outcomes", hidden)))
	}
	return sb.String()
}

// renderQubitProbabilities lists the marginal P(0)/P(1) of each qubit.
func renderQubitProbabilities(probs []sim.QubitProbability) string {
	var sb strings.Builder
	for q, p := range probs {
		sb.WriteString(qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)))
		fmt.Fprintf(&sb, "  P(0)=%.3f  P(1)=%.3f", p.Prob0, p.Prob1)
		if q < len(probs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
