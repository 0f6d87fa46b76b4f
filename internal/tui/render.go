package tui

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"hlsim/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given visual width.
func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// boxLabel abbreviates a box name to the initials of its words, so
// "2nd-order Trotter step" becomes "2OTS".
func boxLabel(name string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '-' || r == '_' }) {
		sb.WriteRune(unicode.ToUpper([]rune(word)[0]))
	}
	label := sb.String()
	if label == "" {
		label = "BOX"
	}
	return ansi.Truncate(label, gateNameW, "")
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellRole int

const (
	roleEmpty   cellRole = iota
	roleBoxed            // gate drawn as a labelled box on this wire
	roleSymbol           // gate drawn as a bare wire symbol (control, target, swap)
	rolePass             // wire crossed by a gate acting above and below it
	roleBarrier
)

// cellInfo is what one (layer, qubit) cell shows.
type cellInfo struct {
	gate      *circuit.Gate
	role      cellRole
	label     string
	style     lipgloss.Style
	vertAbove bool
	vertBelow bool
}

// cellAt resolves the cell at (step, qubit) of a scheduled circuit.
func cellAt(c *circuit.Circuit, step, qubit int) cellInfo {
	g := c.GateAt(step, qubit)
	if g == nil {
		return cellInfo{role: roleEmpty}
	}
	info := cellInfo{
		gate:      g,
		style:     gateStyle,
		vertAbove: qubit > slices.Min(g.Qubits),
		vertBelow: qubit < slices.Max(g.Qubits),
	}
	if g.Type == circuit.TypeBarrier {
		info.role = roleBarrier
		return info
	}
	idx := slices.Index(g.Qubits, qubit)
	if idx < 0 {
		info.role = rolePass
		return info
	}

	info.role = roleBoxed
	switch g.Type {
	case "CX":
		info.role = roleSymbol
		info.label = "⊕"
		if idx == 0 {
			info.label = "●"
		}
	case "CZ":
		info.role = roleSymbol
		info.label = "●"
	case "SWAP":
		info.role = roleSymbol
		info.label = "×"
	case circuit.TypePauliExp:
		info.label = g.Paulis[idx].String()
	case circuit.TypeBox:
		info.label = boxLabel(g.Box.Name)
		info.style = boxGateStyle
	case circuit.TypeReset:
		info.label = "|0⟩"
		info.style = resetStyle
	default:
		info.label = g.Type
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, cursor bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	vert := func(on bool) string {
		if on {
			return vertRow
		}
		return emptyRow
	}

	if cursor {
		bdr := cursorBoxStyle
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1
		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		var body string
		switch info.role {
		case roleBoxed:
			body = "─┤" + info.style.Render(padCenter(info.label, gateNameW)) + "├─"
		case roleSymbol:
			body = strings.Repeat("─", dashL) + info.style.Render(info.label) + strings.Repeat("─", dashR)
		case rolePass:
			body = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		case roleBarrier:
			body = strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR)
		default:
			body = strings.Repeat("─", innerW)
		}
		mid = bdr.Render("║") + body + bdr.Render("║")
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch info.role {
	case roleBoxed:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.label, gateNameW)
		top = strings.Repeat(" ", margin) + info.style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + info.style.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + info.style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
		// Multi-qubit boxes join through their borders.
		if info.vertAbove {
			top = strings.Repeat(" ", margin) + info.style.Render("├"+padCenter("│", gateNameW)+"┤") + strings.Repeat(" ", rightMargin)
		}
		if info.vertBelow {
			bot = strings.Repeat(" ", margin) + info.style.Render("├"+padCenter("│", gateNameW)+"┤") + strings.Repeat(" ", rightMargin)
		}

	case roleSymbol:
		top = vert(info.vertAbove)
		mid = strings.Repeat("─", dashL) + info.style.Render(info.label) + strings.Repeat("─", dashR)
		bot = vert(info.vertBelow)

	case rolePass:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	case roleBarrier:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

func (m Model) qubitLabel(q int) string {
	name := ansi.Truncate(m.view.QubitName(q), labelVisualW-2, "…")
	style := qubitLabelStyle
	if strings.HasPrefix(name, "anc") {
		style = ancillaLabelStyle
	}
	return style.Render(fmt.Sprintf("%-*s", labelVisualW-2, name)) + "──"
}

// renderCircuitPanel renders the layered circuit grid.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	title := m.view.Name
	if title == "" {
		title = "Circuit"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d qubits, depth %d, %s", m.view.NumQubits, m.depth, m.detail)))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}
	endStep := min(startStep+maxSteps, max(m.depth, 1))

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing layers %d–%d\n", startStep, endStep-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < endStep; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	for qubit := 0; qubit < m.view.NumQubits; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := m.qubitLabel(qubit)
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < endStep; step++ {
			info := cellAt(m.view, step, qubit)
			cursor := step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusQASM
			top, mid, bot := renderCell(info, cursor)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	fmt.Fprintf(&sb, "\n  Layer %d, %s: %s", m.cursorStep, m.view.QubitName(m.cursorQubit), activeGateStyle.Render(m.describeGate()))
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the scrollable QASM export.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "OpenQASM 2.0"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %3.f%%", m.qasm.ScrollPercent()*100)))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasm.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Layer  Home/End Jump  Tab QASM pane (↑↓ scroll)\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("d Detail level  ? Legend  ^S Save QASM  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites overlay on top of bg with its top-left corner at
// visible column x of line y. ANSI sequences in bg are preserved.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		line := bgLines[row]
		prefix := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		suffix := ansi.TruncateLeft(line, x+ansi.StringWidth(ovLine), "")
		bgLines[row] = prefix + ovLine + suffix
	}
	return strings.Join(bgLines, "\n")
}
