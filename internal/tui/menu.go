package tui

import (
	"fmt"
	"strings"

	"qubsim/sim"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name   string
	kind   sim.Kind
	symbol string
}

func (i menuItem) needsTarget() bool { return i.kind.Controlled() }

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", kind: sim.KindH, symbol: "H"},
			{name: "Pauli-X (NOT)", kind: sim.KindX, symbol: "X"},
			{name: "Pauli-Y", kind: sim.KindY, symbol: "Y"},
			{name: "Pauli-Z", kind: sim.KindZ, symbol: "Z"},
			{name: "Phase (S)", kind: sim.KindS, symbol: "S"},
			{name: "T Gate", kind: sim.KindT, symbol: "T"},
		},
	},
	{
		name: "Two Qubit",
		items: []menuItem{
			{name: "CNOT", kind: sim.KindCNOT, symbol: "●─⊕"},
			{name: "Controlled-Z", kind: sim.KindCZ, symbol: "●─●"},
		},
	},
}

func (m Model) selectedMenuItem() menuItem {
	return gateMenu[m.menuCat].items[m.menuItem]
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget() {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
