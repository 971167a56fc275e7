// tensor.go
package qlogic

import (
	"math/rand/v2"
	"sort"

	"github.com/theapemachine/errnie"
)

/*
TensorBackend simulates a fragment by expanding each gate into its explicit
unitary matrix and applying it through a generic k-qubit kernel. Shot
outcomes are recorded as a shots-by-width measurement table indexed
directly by qubit, the convention of per-qubit measurement records, so no
key reversal is needed on this engine.
*/
type TensorBackend struct {
	composer
	shots int
	rng   *rand.Rand
}

func NewTensorBackend(opts ...BackendOption) *TensorBackend {
	cfg := newBackendConfig(opts)
	backend := &TensorBackend{shots: cfg.shots, rng: cfg.rng}
	backend.composer.backend = backend
	return backend
}

// Execute measures every qubit over repeated shots and reports per-tag
// marginal probabilities.
func (tb *TensorBackend) Execute(circuit *Circuit) (*Result, error) {
	if err := checkExecutable(circuit); err != nil {
		return nil, err
	}

	errnie.Info(
		"TensorBackend.Execute - width %d, gates %d, shots %d",
		circuit.Width,
		len(circuit.Gates),
		tb.shots,
	)

	state := make([]complex128, 1<<circuit.Width)
	state[0] = 1

	for _, gate := range circuit.Gates {
		applyUnitary(state, gateUnitary(gate), gate.Qubits)
	}

	records := tb.measure(state, circuit.Width)

	values := make(map[string]float64, len(circuit.Tags))
	for tag, qubit := range circuit.Tags {
		ones := 0
		for _, record := range records {
			ones += int(record[qubit])
		}
		values[tag] = float64(ones) / float64(tb.shots)
	}

	return &Result{Values: values}, nil
}

// measure samples shot outcomes and records one row of per-qubit bits per
// shot, with column q holding qubit q.
func (tb *TensorBackend) measure(state []complex128, width int) [][]byte {
	cumulative := make([]float64, len(state))
	total := 0.0
	for i, amplitude := range state {
		total += real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
		cumulative[i] = total
	}

	records := make([][]byte, tb.shots)
	for shot := range records {
		r := tb.rng.Float64() * total
		outcome := sort.SearchFloat64s(cumulative, r)
		if outcome >= len(state) {
			outcome = len(state) - 1
		}

		record := make([]byte, width)
		for qubit := 0; qubit < width; qubit++ {
			record[qubit] = byte(outcome >> qubit & 1)
		}
		records[shot] = record
	}

	return records
}

// gateUnitary expands a gate into its dense matrix over the local basis,
// where local bit p is the gate's p-th operand qubit.
func gateUnitary(gate Gate) [][]complex128 {
	switch gate.Kind {
	case GateCertainty:
		m := CertaintyMatrix(gate.Alpha)
		return [][]complex128{
			{m[0][0], m[0][1]},
			{m[1][0], m[1][1]},
		}
	case GateX:
		return [][]complex128{
			{0, 1},
			{1, 0},
		}
	case GateCNOT:
		// Local basis |t c>: flips the target where the control is set.
		return permutationUnitary(4, map[int]int{1: 3, 3: 1})
	case GateCCNOT:
		// Local basis |t b a>: flips the target where both controls are set.
		return permutationUnitary(8, map[int]int{3: 7, 7: 3})
	default:
		return permutationUnitary(2, nil)
	}
}

// permutationUnitary builds an identity of the given dimension with the
// listed basis states exchanged.
func permutationUnitary(dim int, swaps map[int]int) [][]complex128 {
	unitary := make([][]complex128, dim)
	for row := range unitary {
		unitary[row] = make([]complex128, dim)
		source := row
		if to, ok := swaps[row]; ok {
			source = to
		}
		unitary[row][source] = 1
	}
	return unitary
}

/*
applyUnitary applies a dense 2^k x 2^k unitary to the k operand qubits of
the statevector. For every group of basis states that agree outside the
operand qubits, it gathers the local sub-vector, multiplies, and scatters
the result back.
*/
func applyUnitary(state []complex128, unitary [][]complex128, qubits []int) {
	k := len(qubits)
	dim := 1 << k

	masks := make([]int, k)
	spread := 0
	for p, qubit := range qubits {
		masks[p] = 1 << qubit
		spread |= masks[p]
	}

	indices := make([]int, dim)
	local := make([]complex128, dim)

	for base := range state {
		if base&spread != 0 {
			continue
		}

		for b := 0; b < dim; b++ {
			position := base
			for p := 0; p < k; p++ {
				if b>>p&1 == 1 {
					position |= masks[p]
				}
			}
			indices[b] = position
			local[b] = state[position]
		}

		for row := 0; row < dim; row++ {
			var sum complex128
			for col := 0; col < dim; col++ {
				sum += unitary[row][col] * local[col]
			}
			state[indices[row]] = sum
		}
	}
}
