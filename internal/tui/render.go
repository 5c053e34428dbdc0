package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"qubsim/circuit"
	"qubsim/sim"
)

// center pads s to width with s in the middle.
func center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// targetSymbol returns the wire symbol for the target qubit of a controlled gate.
func targetSymbol(kind sim.Kind) string {
	if kind == sim.KindCZ {
		return "●"
	}
	return "⊕"
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(cell circuit.Cell, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case cell.IsControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case cell.IsTarget:
			sym := targetSymbol(cell.Gate.Gate.Kind())
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case cell.Gate != nil:
			name := center(cell.Gate.Gate.Kind().String(), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case cell.PassThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if cell.VertAbove {
		top = vertRow
	}
	if cell.VertBelow {
		bot = vertRow
	}

	switch {
	case cell.IsControl:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
	case cell.IsTarget:
		sym := targetSymbol(cell.Gate.Gate.Kind())
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
	case cell.Gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := center(cell.Gate.Gate.Kind().String(), gateNameW)

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case cell.PassThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	default:
		mid = strings.Repeat("─", cellW)
	}
	return
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Quantum Circuit (%d/%d qubits)", m.circuit.NumQubits, m.maxQubits)))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	displaySteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= displaySteps {
		startStep = m.cursorStep - displaySteps + 1
	}
	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+displaySteps-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(center(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Each qubit is drawn as 3 lines
	for qubit := range m.circuit.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit &&
				(m.focus == focusCircuit || m.focus == focusSelectTarget || m.focus == focusMenu) {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(m.circuit.CellAt(step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingKind.String()))
		sb.WriteString("  Select target qubit: ")
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	if m.qasmErr != nil {
		sb.WriteString(errorStyle.Render(m.qasmErr.Error()))
	}
	sb.WriteString("\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel shows the operation list and the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder

	title := "Results"
	if m.running {
		title += " [RUNNING]"
	}
	sb.WriteString(titleStyle.Render(title))
	r := m.results
	if r != nil {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d shots  seed %d  %s", r.shots, r.seed, r.elapsed.Round(time.Microsecond))))
	}
	sb.WriteString("\n")

	ops := m.circuit.OpString()
	if ops == "" {
		ops = "No gates added yet."
	}
	sb.WriteString("Operations: " + ops + "\n")
	if r != nil && r.ops != m.circuit.OpString() {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("Showing results for %d qubits: %s", r.numQubits, r.ops)))
		sb.WriteString("\n")
	}
	if m.runErr != nil {
		sb.WriteString(errorStyle.Render("Simulation failed: " + m.runErr.Error()))
		sb.WriteString("\n")
	}

	switch {
	case r != nil:
		sb.WriteString("\n")
		chart := CountsChart(r.counts, max(width/2, 30), maxChartRows)
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "    ", renderQubitProbabilities(r.qubits)))
	case m.runErr == nil:
		sb.WriteString(dimStyle.Render(fmt.Sprintf("Press r to run %d shots.", m.shots)))
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeGateStyle.Render("r"))
	sb.WriteString(" Run\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  Bksp Delete  ^R Reset  ^S Save  Esc Cancel run  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// overlayAt draws overlay over bg with its top-left corner at column x of
// line y.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		if row := y + i; row >= 0 && row < len(bgLines) {
			bgLines[row] = spliceAt(bgLines[row], ovLine, x)
		}
	}
	return strings.Join(bgLines, "\n")
}

// spliceAt replaces the cells of line from column x on with ov. Escape
// sequences on either side of the cut are kept.
func spliceAt(line, ov string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	return left + ov + ansi.TruncateLeft(line, x+ansi.StringWidth(ov), "")
}
