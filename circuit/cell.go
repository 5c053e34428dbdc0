package circuit

// Cell describes what occupies one (step, qubit) position of the diagram.
type Cell struct {
	Gate        *Placed
	IsControl   bool
	IsTarget    bool // target of a controlled gate
	VertAbove   bool
	VertBelow   bool
	PassThrough bool // a controlled gate's wire crosses an unused qubit
}

// CellAt returns rendering information for the cell at (step, qubit).
func (c *Circuit) CellAt(step, qubit int) Cell {
	var cell Cell

	if p := c.GateAt(step, qubit); p != nil {
		cell.Gate = p
		if ctrl, ok := p.Gate.Control(); ok {
			cell.IsControl = ctrl == qubit
			cell.IsTarget = p.Gate.Target() == qubit
		}
	}

	// Vertical connections for two-qubit gates
	for i := range c.Gates {
		p := &c.Gates[i]
		if p.Step != step {
			continue
		}
		ctrl, ok := p.Gate.Control()
		if !ok {
			continue
		}
		minQ, maxQ := min(ctrl, p.Gate.Target()), max(ctrl, p.Gate.Target())
		if qubit < minQ || qubit > maxQ {
			continue
		}
		if qubit > minQ {
			cell.VertAbove = true
		}
		if qubit < maxQ {
			cell.VertBelow = true
		}
		if qubit > minQ && qubit < maxQ && cell.Gate == nil {
			cell.PassThrough = true
		}
	}

	return cell
}
