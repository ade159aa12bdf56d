package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is filled in by the linker for release builds.
var Version string

var rootCmd = &cobra.Command{
	Use:           "qstatesim",
	Short:         "Exact state-vector simulator for small quantum circuits.",
	Long:          "Simulates X, Y, Z, H and CX circuits by applying each gate's full operator to the 2^N amplitude vector.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !getFlag(cmd, "version") {
			return cmd.Help()
		}
		fmt.Fprint(cmd.OutOrStdout(), "qstatesim ")
		if Version != "" {
			fmt.Fprint(cmd.OutOrStdout(), Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprint(cmd.OutOrStdout(), info.Main.Version)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), "(unknown version)")
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [flags] [circuit.qasm]",
	Short: "simulate a QASM circuit and print the final state.",
	Long: `Read an OpenQASM 2.0 circuit (from a file, or stdin when no file is
given), evolve the ground state through every gate and print the final
amplitudes as "<re>±<im>i: <bits>" entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadCommandConfig(cmd)
		if err != nil {
			return err
		}
		src, err := readCircuitSource(cmd, args)
		if err != nil {
			return err
		}
		circuit := NewCircuit(0)
		if err := circuit.ParseQASM(src); err != nil {
			return err
		}
		log.Debugf("parsed %d gates over %d qubits", len(circuit.Gates), circuit.NumQubits)
		state, err := NewEvolver(circuit, config.EvolverOptions()...).Run()
		if err != nil {
			return err
		}
		writeState(cmd.OutOrStdout(), state, getFlag(cmd, "probabilities"))
		return nil
	},
}

var matrixCmd = &cobra.Command{
	Use:   "matrix [flags]",
	Short: "print the full operator of a single gate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("gate")
		kind, err := ParseGateKind(name)
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetInt("target")
		control, _ := cmd.Flags().GetInt("control")
		qubits, _ := cmd.Flags().GetInt("qubits")
		if qubits > DefaultMaxQubits {
			return fmt.Errorf("%w: %d qubits, limit is %d", ErrQubitLimit, qubits, DefaultMaxQubits)
		}
		g := Gate{Kind: kind, Target: target, Control: NoControl}
		if kind.IsControlled() || cmd.Flags().Changed("control") {
			g.Control = control
		}
		m, err := Expand(g, qubits)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v on %d qubits:\n%s", g, qubits, m)
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "simulate the built-in four-qubit demonstration circuit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadCommandConfig(cmd)
		if err != nil {
			return err
		}
		circuit := demoCircuit()
		fmt.Fprint(cmd.OutOrStdout(), circuit.ToQASM())
		state, err := NewEvolver(circuit, config.EvolverOptions()...).Run()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		writeState(cmd.OutOrStdout(), state, getFlag(cmd, "probabilities"))
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [circuit.qasm]",
	Short: "edit a circuit interactively and watch the state evolve.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadCommandConfig(cmd)
		if err != nil {
			return err
		}
		circuit := NewCircuit(4)
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := circuit.ParseQASM(string(data)); err != nil {
				return err
			}
		}
		// Debug lines would tear the alternate screen.
		log.SetOutput(io.Discard)
		_, err = tea.NewProgram(initialModel(circuit, config), tea.WithAltScreen()).Run()
		return err
	},
}

// Execute runs the root command; main calls it once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("backend", "", "gate application backend: dense or kernel")
	rootCmd.PersistentFlags().Int("workers", 0, "goroutines used to build and apply dense operators")
	rootCmd.PersistentFlags().Int("max-qubits", -1, "refuse circuits wider than this")

	runCmd.Flags().BoolP("probabilities", "p", false, "also print per-qubit marginal probabilities")
	demoCmd.Flags().BoolP("probabilities", "p", false, "also print per-qubit marginal probabilities")

	matrixCmd.Flags().StringP("gate", "g", "X", "gate kind: X, Y, Z, H or CX")
	matrixCmd.Flags().IntP("target", "t", 0, "target qubit")
	matrixCmd.Flags().IntP("control", "c", NoControl, "control qubit (CX only)")
	matrixCmd.Flags().IntP("qubits", "n", 1, "register size")

	rootCmd.AddCommand(runCmd, matrixCmd, demoCmd, tuiCmd)
}

// Get an expected flag, or exit if it is not defined.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// loadCommandConfig layers flags that were set explicitly over the config
// file and environment.
func loadCommandConfig(cmd *cobra.Command) (Config, error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := LoadConfig(path)
	if err != nil {
		return config, err
	}
	if cmd.Flags().Changed("backend") {
		config.Backend, _ = cmd.Flags().GetString("backend")
	}
	if cmd.Flags().Changed("workers") {
		config.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("max-qubits") {
		config.MaxQubits, _ = cmd.Flags().GetInt("max-qubits")
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	log.Debugf("config: backend=%s workers=%d max_qubits=%d", config.Backend, config.Workers, config.MaxQubits)
	return config, nil
}

func readCircuitSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		return string(data), err
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	return string(data), err
}

// writeState prints the contract line. On a terminal it gets a styled title
// and is followed by a per-label breakdown; pipes get the bare line.
func writeState(w io.Writer, state *StateVector, probabilities bool) {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	if tty {
		fmt.Fprintln(w, titleStyle.Render("Final state"))
	}
	fmt.Fprintln(w, state.String())
	if tty {
		fmt.Fprintln(w, renderAmplitudes(state, -1))
	}
	if probabilities {
		lines := make([]string, 0, state.NumQubits)
		for q, p := range state.QubitProbabilities() {
			lines = append(lines, fmt.Sprintf("q[%d]: P(0)=%.4f P(1)=%.4f", q, p.Prob0, p.Prob1))
		}
		fmt.Fprintln(w, strings.Join(lines, "\n"))
	}
}

// demoCircuit is the four-qubit walkthrough circuit: entangle with H and CX,
// then scramble with Paulis.
func demoCircuit() *Circuit {
	c := NewCircuit(4)
	c.X(1).H(2).H(3)
	c.CX(0, 3).CX(2, 0).CX(1, 3).CX(2, 1)
	c.H(0).Y(0).Z(0).Y(3)
	c.CX(0, 3).X(3).Y(1)
	return c
}
