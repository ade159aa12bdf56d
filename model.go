package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
)

// Model represents the TUI application state.
type Model struct {
	circuit     *Circuit
	config      Config
	cursorQubit int
	cursorStep  int // column under the cursor; len(Gates) is the empty append column
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state (for CNOT)
	pendingGate GateKind
	targetQubit int

	// State after the gate under the cursor
	state    *StateVector
	stateErr error
}

func initialModel(circuit *Circuit, config Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		circuit:    circuit,
		config:     config,
		qasmEditor: ta,
		focus:      focusCircuit,
		cursorStep: len(circuit.Gates),
	}
	m.syncFromCircuit()
	return m
}

// syncFromCircuit refreshes the QASM editor and the simulated state after a
// grid edit.
func (m *Model) syncFromCircuit() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.simulate()
}

// simulate evolves the ground state through the gates up to the cursor.
func (m *Model) simulate() {
	step := min(m.cursorStep, len(m.circuit.Gates)-1)
	m.state, m.stateErr = NewEvolver(m.circuit, m.config.EvolverOptions()...).RunUpTo(step)
}

func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm
	parsed := NewCircuit(m.circuit.NumQubits)
	if err := parsed.ParseQASM(qasm); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.circuit = parsed
	m.cursorQubit = min(m.cursorQubit, max(parsed.NumQubits-1, 0))
	m.cursorStep = min(m.cursorStep, len(parsed.Gates))
	m.simulate()
}

// placeGate inserts a gate at the cursor column. targetQ is the CNOT target
// (-1 for single-qubit gates). Returns false if the gate is invalid.
func (m *Model) placeGate(kind GateKind, targetQ int) bool {
	g := Gate{Kind: kind, Target: m.cursorQubit, Control: NoControl}
	if kind.IsControlled() {
		g = CX(m.cursorQubit, targetQ)
	}
	if err := g.Validate(m.circuit.NumQubits); err != nil {
		m.statusMsg = fmt.Sprintf("Cannot place: %v", err)
		return false
	}
	m.circuit.InsertAt(m.cursorStep, g)
	m.pendingGate = invalidGate
	m.syncFromCircuit()
	return true
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
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(m.topHeight()-6, 4))

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus != focusQASM {
			m.statusMsg = ""
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.circuit.Gates = nil
				m.cursorStep = 0
				m.syncFromCircuit()
			case "ctrl+s":
				if err := os.WriteFile("circuit.qasm", []byte(m.circuit.ToQASM()), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					m.simulate()
				}
			case "right", "l":
				if m.cursorStep < len(m.circuit.Gates) {
					m.cursorStep++
					m.simulate()
				}
			case "+", "=":
				limit := m.config.MaxQubits
				if limit == 0 {
					limit = MaxRegisterQubits
				}
				if m.circuit.NumQubits < limit {
					m.circuit.NumQubits++
					m.syncFromCircuit()
				}
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.NumQubits--
					m.circuit.RemoveGatesOnQubit(m.circuit.NumQubits)
					m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
					m.cursorStep = min(m.cursorStep, len(m.circuit.Gates))
					m.syncFromCircuit()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				if m.circuit.GateAt(m.cursorStep, m.cursorQubit) != nil {
					m.circuit.RemoveAt(m.cursorStep)
					m.syncFromCircuit()
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingGate = item.kind
				if !item.needsTarget() {
					m.placeGate(item.kind, -1)
					m.focus = focusCircuit
					break
				}
				if m.circuit.NumQubits < 2 {
					m.statusMsg = "CNOT needs at least two qubits"
					m.focus = focusCircuit
					break
				}
				m.focus = focusSelectTarget
				m.targetQubit = m.cursorQubit + 1
				if m.targetQubit >= m.circuit.NumQubits {
					m.targetQubit = m.cursorQubit - 1
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.pendingGate = invalidGate
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				m.placeGate(m.pendingGate, m.targetQubit)
				m.focus = focusCircuit
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
				// Pick up the last valid parse and show the editor text for it.
				m.syncFromCircuit()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.statusMsg = ""
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// topHeight is the height shared by the circuit and QASM panels.
func (m Model) topHeight() int {
	return max((m.height-controlsHeight)*3/5, 8)
}

const controlsHeight = 4

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	topH := m.topHeight()
	stateH := max(m.height-topH-controlsHeight-6, 4)

	circuitPanel := m.renderCircuitPanel(circuitWidth, topH)
	qasmPanel := m.renderQASMPanel(qasmWidth, topH)

	var lower string
	if m.focus == focusMenu {
		lower = stateStyle.Width(m.width - 4).Height(stateH).Render(m.renderMenu())
	} else {
		lower = m.renderStatePanel(m.width-4, stateH)
	}
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, lower, controlsPanel)
}
