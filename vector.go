package qlogic

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/theapemachine/errnie"
)

/*
VectorBackend simulates a fragment by updating a dense statevector in
place, one gate at a time, using bit-mask kernels. Shot outcomes are
accumulated as bitstring counts written most-significant-qubit-first, the
convention of hardware-style count maps, so the marginaliser reverses each
key before indexing: qubit 0 always means the first-allocated qubit.
*/
type VectorBackend struct {
	composer
	shots int
	rng   *rand.Rand
}

func NewVectorBackend(opts ...BackendOption) *VectorBackend {
	cfg := newBackendConfig(opts)
	backend := &VectorBackend{shots: cfg.shots, rng: cfg.rng}
	backend.composer.backend = backend
	return backend
}

// Execute measures every qubit over repeated shots and reports per-tag
// marginal probabilities.
func (vb *VectorBackend) Execute(circuit *Circuit) (*Result, error) {
	if err := checkExecutable(circuit); err != nil {
		return nil, err
	}

	errnie.Info(
		"VectorBackend.Execute - width %d, gates %d, shots %d",
		circuit.Width,
		len(circuit.Gates),
		vb.shots,
	)

	state := make([]complex128, 1<<circuit.Width)
	state[0] = 1

	for _, gate := range circuit.Gates {
		switch gate.Kind {
		case GateCertainty:
			applyCertainty(state, gate.Qubits[0], gate.Alpha)
		case GateX:
			applyX(state, gate.Qubits[0])
		case GateCNOT:
			applyCNOT(state, gate.Qubits[0], gate.Qubits[1])
		case GateCCNOT:
			applyCCNOT(state, gate.Qubits[0], gate.Qubits[1], gate.Qubits[2])
		}
	}

	counts := vb.sampleCounts(state, circuit.Width)

	// Count keys arrive most-significant-qubit-first; flip them so that
	// position i addresses qubit i before marginalising.
	normalized := make(map[string]int, len(counts))
	for key, hits := range counts {
		normalized[reverseKey(key)] += hits
	}

	values := make(map[string]float64, len(circuit.Tags))
	for tag, qubit := range circuit.Tags {
		ones := 0
		for key, hits := range normalized {
			if key[qubit] == '1' {
				ones += hits
			}
		}
		values[tag] = float64(ones) / float64(vb.shots)
	}

	return &Result{Values: values}, nil
}

// sampleCounts draws shot outcomes from the final state's probability
// distribution and keys them as bitstrings with qubit 0 rightmost.
func (vb *VectorBackend) sampleCounts(state []complex128, width int) map[string]int {
	cumulative := make([]float64, len(state))
	total := 0.0
	for i, amplitude := range state {
		total += real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
		cumulative[i] = total
	}

	counts := make(map[string]int)
	key := make([]byte, width)
	for shot := 0; shot < vb.shots; shot++ {
		r := vb.rng.Float64() * total
		outcome := sort.SearchFloat64s(cumulative, r)
		if outcome >= len(state) {
			outcome = len(state) - 1
		}

		for qubit := 0; qubit < width; qubit++ {
			key[width-1-qubit] = '0' + byte(outcome>>qubit&1)
		}
		counts[string(key)]++
	}

	return counts
}

func reverseKey(key string) string {
	flipped := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		flipped[i] = key[len(key)-1-i]
	}
	return string(flipped)
}

// applyCertainty rotates one qubit by M(alpha) = [[cos,sin],[sin,-cos]].
func applyCertainty(state []complex128, qubit int, alpha float64) {
	cos := complex(math.Cos(alpha), 0)
	sin := complex(math.Sin(alpha), 0)
	mask := 1 << qubit

	for i := range state {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		zero, one := state[i], state[j]
		state[i] = cos*zero + sin*one
		state[j] = sin*zero - cos*one
	}
}

func applyX(state []complex128, qubit int) {
	mask := 1 << qubit
	for i := range state {
		if i&mask == 0 {
			j := i | mask
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyCNOT(state []complex128, control, target int) {
	controlMask := 1 << control
	targetMask := 1 << target
	for i := range state {
		if i&controlMask != 0 && i&targetMask == 0 {
			j := i | targetMask
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyCCNOT(state []complex128, controlA, controlB, target int) {
	controlMask := 1<<controlA | 1<<controlB
	targetMask := 1 << target
	for i := range state {
		if i&controlMask == controlMask && i&targetMask == 0 {
			j := i | targetMask
			state[i], state[j] = state[j], state[i]
		}
	}
}
