package main

import (
	"bytes"
	"math"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs each test against both gate application strategies.
var backends = map[string][]EvolverOption{
	"dense":          nil,
	"dense-parallel": {WithWorkers(4)},
	"kernel":         {WithApplier(KernelApplier{})},
}

func TestEvolverScenarios(t *testing.T) {
	tests := []struct {
		name    string
		circuit *Circuit
		want    string
	}{
		{
			name:    "single qubit no gates",
			circuit: NewCircuit(1),
			want:    "1.0000+0.0000i: 0, 0.0000+0.0000i: 1",
		},
		{
			name:    "single X",
			circuit: NewCircuit(1).X(0),
			want:    "0.0000+0.0000i: 0, 1.0000+0.0000i: 1",
		},
		{
			name:    "X on qubits 0 and 2",
			circuit: NewCircuit(3).X(0).X(2),
			want: "0.0000+0.0000i: 000, 0.0000+0.0000i: 001, 0.0000+0.0000i: 010, 0.0000+0.0000i: 011, " +
				"0.0000+0.0000i: 100, 1.0000+0.0000i: 101, 0.0000+0.0000i: 110, 0.0000+0.0000i: 111",
		},
		{
			name:    "flipped control propagates through CX",
			circuit: NewCircuit(2).X(0).CX(0, 1),
			want:    "0.0000+0.0000i: 00, 0.0000+0.0000i: 01, 0.0000+0.0000i: 10, 1.0000+0.0000i: 11",
		},
		{
			name:    "bell pair",
			circuit: NewCircuit(2).H(0).CX(0, 1),
			want:    "0.7071+0.0000i: 00, 0.0000+0.0000i: 01, 0.0000+0.0000i: 10, 0.7071+0.0000i: 11",
		},
		{
			name:    "Y then Z",
			circuit: NewCircuit(1).Y(0).Z(0),
			want:    "0.0000+0.0000i: 0, 0.0000-1.0000i: 1",
		},
	}
	for backend, opts := range backends {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				state, err := NewEvolver(tt.circuit, opts...).Run()
				require.NoError(t, err)
				assert.Equal(t, tt.want, state.String())
				assert.InDelta(t, 1.0, state.Norm(), 1e-9)
			})
		}
	}
}

func TestEvolverZeroQubits(t *testing.T) {
	state, err := NewEvolver(NewCircuit(0)).Run()
	require.NoError(t, err)
	assert.Equal(t, []complex128{1}, state.Amplitudes)
}

func TestEvolverInvolutions(t *testing.T) {
	for _, g := range []Gate{X(1), Y(0), Z(2), H(1), CX(0, 2), CX(2, 1)} {
		prep := NewCircuit(3).H(0).X(1).CX(0, 2).Y(2)
		before, err := NewEvolver(prep).Run()
		require.NoError(t, err)

		prep.Append(g).Append(g)
		after, err := NewEvolver(prep).Run()
		require.NoError(t, err)
		assert.True(t, before.ApproxEqual(after, 1e-9), "%v applied twice", g)
	}
}

func TestEvolverOrderMatters(t *testing.T) {
	// H then Z gives |−⟩; Z then H gives |+⟩.
	hz, err := NewEvolver(NewCircuit(1).H(0).Z(0)).Run()
	require.NoError(t, err)
	zh, err := NewEvolver(NewCircuit(1).Z(0).H(0)).Run()
	require.NoError(t, err)

	r := 1 / math.Sqrt2
	assert.InDelta(t, -r, real(hz.Amplitudes[1]), 1e-12)
	assert.InDelta(t, r, real(zh.Amplitudes[1]), 1e-12)
}

func TestEvolverRunUpTo(t *testing.T) {
	c := NewCircuit(2).X(0).CX(0, 1).X(0)
	e := NewEvolver(c)

	want := map[int]string{
		-1: "1.0000+0.0000i: 00, 0.0000+0.0000i: 01, 0.0000+0.0000i: 10, 0.0000+0.0000i: 11",
		0:  "0.0000+0.0000i: 00, 0.0000+0.0000i: 01, 1.0000+0.0000i: 10, 0.0000+0.0000i: 11",
		1:  "0.0000+0.0000i: 00, 0.0000+0.0000i: 01, 0.0000+0.0000i: 10, 1.0000+0.0000i: 11",
		2:  "0.0000+0.0000i: 00, 1.0000+0.0000i: 01, 0.0000+0.0000i: 10, 0.0000+0.0000i: 11",
		10: "0.0000+0.0000i: 00, 1.0000+0.0000i: 01, 0.0000+0.0000i: 10, 0.0000+0.0000i: 11",
	}
	for step, s := range want {
		state, err := e.RunUpTo(step)
		require.NoError(t, err)
		assert.Equal(t, s, state.String(), "step %d", step)
	}
}

func TestEvolverAbortsOnInvalidGate(t *testing.T) {
	c := NewCircuit(2).X(0).CX(1, 1).X(1)
	for backend, opts := range backends {
		state, err := NewEvolver(c, opts...).Run()
		assert.ErrorIs(t, err, ErrInvalidDescriptor, backend)
		assert.ErrorContains(t, err, "gate 1", backend)
		assert.Nil(t, state, backend)
	}

	c = NewCircuit(1).Append(Gate{Kind: GateKind(12), Target: 0, Control: NoControl})
	_, err := NewEvolver(c).Run()
	assert.ErrorIs(t, err, ErrUnsupportedGateKind)
}

func TestEvolverEvolve(t *testing.T) {
	e := NewEvolver(NewCircuit(2).CX(0, 1))

	initial := NewStateVector(2)
	initial.Amplitudes = []complex128{0, 0, 1, 0}
	state, err := e.Evolve(initial)
	require.NoError(t, err)
	assert.Equal(t, []complex128{0, 0, 0, 1}, state.Amplitudes)
	assert.Equal(t, []complex128{0, 0, 1, 0}, initial.Amplitudes, "initial state must be left alone")

	_, err = e.Evolve(NewStateVector(3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEvolverQubitLimit(t *testing.T) {
	_, err := NewEvolver(NewCircuit(DefaultMaxQubits + 1)).Run()
	assert.ErrorIs(t, err, ErrQubitLimit)

	_, err = NewEvolver(NewCircuit(3), WithMaxQubits(2)).Run()
	assert.ErrorIs(t, err, ErrQubitLimit)

	_, err = NewEvolver(NewCircuit(3).H(2), WithMaxQubits(0)).Run()
	assert.NoError(t, err)

	// Lifting the configured limit keeps the hard cap.
	for _, n := range []int{MaxRegisterQubits + 1, 64} {
		_, err = NewEvolver(NewCircuit(n), WithMaxQubits(0)).Run()
		assert.ErrorIs(t, err, ErrQubitLimit, "%d qubits", n)
		_, err = NewEvolver(NewCircuit(n), WithMaxQubits(0)).Evolve(&StateVector{Amplitudes: []complex128{1}, NumQubits: n})
		assert.ErrorIs(t, err, ErrQubitLimit, "%d qubits", n)
	}
}

func TestEvolverLogsEachGate(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(&buf)
	logger.SetLevel(log.DebugLevel)

	_, err := NewEvolver(NewCircuit(2).H(0).CX(0, 1), WithLogger(logger)).Run()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "applied gate 0 H q[0]")
	assert.Contains(t, buf.String(), "applied gate 1 CX q[0], q[1]")
	assert.Contains(t, buf.String(), "evolved 2 qubits through 2 gates")
}
