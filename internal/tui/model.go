// Package tui is a read-only terminal viewer for synthesized circuits.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hlsim/circuit"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusLegend
)

// detail is how far the displayed circuit is expanded.
type detail int

const (
	detailBoxes detail = iota
	detailFlat
	detailNative
)

func (d detail) String() string {
	switch d {
	case detailBoxes:
		return "boxes"
	case detailFlat:
		return "flattened"
	default:
		return "native gates"
	}
}

// Model represents the viewer state.
type Model struct {
	source      *circuit.Circuit
	view        *circuit.Circuit // source at the current detail level, scheduled
	depth       int
	stats       map[string]int
	detail      detail
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasm        viewport.Model
	focus       focus
	statusMsg   string // transient status message (e.g. save confirmation)
	savePath    string
	legendCat   int
}

// New returns a viewer for c. ctrl+s writes the QASM export to savePath.
func New(c *circuit.Circuit, savePath string) Model {
	vp := viewport.New(40, 20)
	vp.MouseWheelEnabled = true

	m := Model{
		source:   c,
		qasm:     vp,
		focus:    focusCircuit,
		savePath: savePath,
	}
	m.qasm.SetContent(c.ToQASM())
	m.rebuild()
	return m
}

// rebuild re-expands the source at the current detail level and lays it out.
func (m *Model) rebuild() {
	var c *circuit.Circuit
	switch m.detail {
	case detailBoxes:
		c = m.source
	case detailFlat:
		c = m.source.Flatten()
	default:
		c = m.source.Decompose()
	}
	m.view, m.depth = c.Schedule()
	m.stats = make(map[string]int)
	for _, g := range m.view.Gates {
		m.stats[g.Type]++
	}
	m.cursorStep = min(m.cursorStep, max(m.depth-1, 0))
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasm.Width = max(msg.Width/3-6, 20)
		m.qasm.Height = max(circH-4, 4)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
			case "?":
				m.focus = focusLegend
			case "d":
				m.detail = (m.detail + 1) % 3
				m.rebuild()
				m.statusMsg = "Showing " + m.detail.String()
			case "ctrl+s":
				m.statusMsg = m.save()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.view.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.depth-1 {
					m.cursorStep++
				}
			case "home":
				m.cursorStep = 0
			case "end":
				m.cursorStep = max(m.depth-1, 0)
			}

		case focusLegend:
			switch key {
			case "esc", "?":
				m.focus = focusCircuit
			case "left", "h":
				if m.legendCat > 0 {
					m.legendCat--
				}
			case "right", "l":
				if m.legendCat < len(gateLegend)-1 {
					m.legendCat++
				}
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
			default:
				var cmd tea.Cmd
				m.qasm, cmd = m.qasm.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) save() string {
	if m.savePath == "" {
		return "No output path"
	}
	if err := os.WriteFile(m.savePath, []byte(m.source.ToQASM()), 0644); err != nil {
		return fmt.Sprintf("Save error: %v", err)
	}
	return "Saved " + m.savePath
}

// describeGate summarizes the gate under the cursor for the status line.
func (m Model) describeGate() string {
	g := m.view.GateAt(m.cursorStep, m.cursorQubit)
	if g == nil {
		return "idle"
	}
	var sb strings.Builder
	switch g.Type {
	case circuit.TypeBox:
		fmt.Fprintf(&sb, "%s (%d gates)", g.Box.Name, len(g.Box.Circuit.Flatten().Gates))
	case circuit.TypePauliExp:
		sb.WriteString("exp(")
		for i, p := range g.Paulis {
			fmt.Fprintf(&sb, "%s%d", p, g.Qubits[i])
		}
		fmt.Fprintf(&sb, ") t=%s", circuit.FormatAngle(g.Params[0]))
	case circuit.TypeTK2:
		fmt.Fprintf(&sb, "TK2(%s, %s, %s)",
			circuit.FormatAngle(g.Params[0]), circuit.FormatAngle(g.Params[1]), circuit.FormatAngle(g.Params[2]))
	default:
		sb.WriteString(g.Type)
		if len(g.Params) > 0 {
			fmt.Fprintf(&sb, "(%.4g)", g.Params[0])
		}
	}
	return sb.String()
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusLegend {
		frame = overlayAt(frame, m.renderLegend(), 2, 2)
	}

	return frame
}
