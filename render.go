package main

import (
	"fmt"
	"math"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *Gate
	isControl   bool
	isTarget    bool // target of a controlled gate
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
// Every step holds at most one gate.
func getCellInfo(c *Circuit, step, qubit int) cellInfo {
	var info cellInfo
	if step < 0 || step >= len(c.Gates) {
		return info
	}
	g := &c.Gates[step]
	if g.References(qubit) {
		info.gate = g
		info.isControl = g.Kind.IsControlled() && g.Control == qubit
		info.isTarget = g.Kind.IsControlled() && g.Target == qubit
	}
	if !g.Kind.IsControlled() {
		return info
	}
	minQ, maxQ := min(g.Control, g.Target), max(g.Control, g.Target)
	if qubit >= minQ && qubit <= maxQ {
		info.vertAbove = qubit > minQ
		info.vertBelow = qubit < maxQ
		info.passThrough = qubit > minQ && qubit < maxQ
	}
	return info
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
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
		case info.isControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.isTarget:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil:
			name := padCenter(info.gate.Kind.String(), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.isControl:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
	case info.isTarget:
		mid = strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR)
	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.gate.Kind.String(), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	default:
		mid = strings.Repeat("─", cellW)
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	// How many steps fit
	availWidth := width - labelVisualW - 4
	displaySteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= displaySteps {
		startStep = m.cursorStep - displaySteps + 1
	}
	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+displaySteps-1)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circuit.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			info := getCellInfo(m.circuit, step, qubit)

			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusQASM {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingGate.String()))
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
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderStatePanel shows the state after the gate under the cursor.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	step := min(m.cursorStep, len(m.circuit.Gates)-1)
	sb.WriteString(titleStyle.Render(fmt.Sprintf("State after %d of %d gates", step+1, len(m.circuit.Gates))))
	sb.WriteString("\n")

	if m.stateErr != nil {
		sb.WriteString(errorStyle.Render(m.stateErr.Error()))
		return stateStyle.Width(width).Height(height).Render(sb.String())
	}
	sb.WriteString(renderAmplitudes(m.state, height-2))
	sb.WriteString("\n")
	for q, p := range m.state.QubitProbabilities() {
		if q > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)))
		fmt.Fprintf(&sb, " P(1)=%.2f", p.Prob1)
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// renderAmplitudes lists the non-zero amplitudes, one basis label per line,
// with a probability bar. limit < 1 lists them all.
func renderAmplitudes(s *StateVector, limit int) string {
	var lines []string
	shown, hidden := 0, 0
	for i, p := range s.Probabilities() {
		if p < 1e-10 {
			continue
		}
		if limit > 0 && shown >= limit-1 {
			hidden++
			continue
		}
		shown++
		bar := strings.Repeat("█", int(math.Round(p*probBarW)))
		lines = append(lines, fmt.Sprintf("%s  %s  %s %s",
			qubitLabelStyle.Render("|"+BasisLabel(i, s.NumQubits)+"⟩"),
			formatAmplitude(s.Amplitudes[i]),
			probBarStyle.Render(fmt.Sprintf("%-*s", probBarW, bar)),
			dimStyle.Render(fmt.Sprintf("%.4f", p))))
	}
	if hidden > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}
	return strings.Join(lines, "\n")
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  Bksp Delete  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
