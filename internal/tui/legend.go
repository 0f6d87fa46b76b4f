package tui

import (
	"fmt"
	"strings"
)

type legendItem struct {
	name     string
	gateType string
	symbol   string
}

type legendCategory struct {
	name  string
	items []legendItem
}

// gateLegend explains the symbols drawn in the circuit panel.
var gateLegend = []legendCategory{
	{
		name: "Synthesis",
		items: []legendItem{
			{name: "Pauli exponential", gateType: "PAULIEXP", symbol: "X/Y/Z"},
			{name: "TK2 interaction", gateType: "TK2", symbol: "TK2"},
			{name: "Boxed step", gateType: "BOX", symbol: "[name]"},
			{name: "Ancilla reset", gateType: "RESET", symbol: "|0⟩"},
		},
	},
	{
		name: "Native",
		items: []legendItem{
			{name: "Hadamard", gateType: "H", symbol: "H"},
			{name: "Rotate X", gateType: "RX", symbol: "RX"},
			{name: "Rotate Z", gateType: "RZ", symbol: "RZ"},
			{name: "CNOT", gateType: "CX", symbol: "●─⊕"},
		},
	},
	{
		name: "Wires",
		items: []legendItem{
			{name: "Pass-through", gateType: "", symbol: "┼"},
			{name: "Barrier", gateType: "BARRIER", symbol: "│"},
		},
	},
}

// renderLegend renders the floating legend popup.
func (m Model) renderLegend() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Legend"))
	sb.WriteString("\n")

	for i, cat := range gateLegend {
		name := " " + cat.name + " "
		if i == m.legendCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateLegend)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 36)))
	sb.WriteString("\n")

	for _, item := range gateLegend[m.legendCat].items {
		sb.WriteString("   ")
		sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-20s", item.name)))
		sb.WriteString(gateStyle.Render(item.symbol))
		if n := m.stats[item.gateType]; item.gateType != "" && n > 0 {
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("  ×%d", n)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ←→ Category  ? / Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
