package qlogic

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DefaultShots is the number of repetitions a backend samples when no
// override is given.
const DefaultShots = 1024

// maxWidth caps the statevector size; 2^24 amplitudes is already 256MB.
const maxWidth = 24

var (
	// ErrEmptyCircuit reports an execution attempt on a nil or zero-width
	// fragment.
	ErrEmptyCircuit = errors.New("empty circuit")

	// ErrCircuitTooWide reports a fragment beyond the simulation ceiling.
	ErrCircuitTooWide = errors.New("circuit too wide to simulate")
)

/*
Backend is the platform contract of the factory method: one build method
per node kind, sharing identical tag-index semantics, plus a sampling
executor. Two simulators implement it with different execution engines;
trees stay backend-agnostic and pick one at Accept time.
*/
type Backend interface {
	BuildFact(fact *Fact) (*Circuit, error)
	BuildNot(not *NotOperator) (*Circuit, error)
	BuildAnd(and *AndOperator) (*Circuit, error)
	BuildOr(or *OrOperator) (*Circuit, error)

	// Execute measures every qubit of the fragment over repeated shots and
	// reports the observed probability of |1> for each tagged qubit.
	Execute(circuit *Circuit) (*Result, error)
}

// Result holds the per-tag marginal probabilities of one execution.
// It is created once, after the final shot, and never mutated.
type Result struct {
	Values map[string]float64
}

// BackendOption configures a backend at construction time.
type BackendOption func(*backendConfig)

type backendConfig struct {
	shots int
	rng   *rand.Rand
}

func newBackendConfig(opts []BackendOption) backendConfig {
	cfg := backendConfig{
		shots: DefaultShots,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithShots overrides the number of sampled repetitions.
func WithShots(shots int) BackendOption {
	return func(cfg *backendConfig) {
		if shots > 0 {
			cfg.shots = shots
		}
	}
}

// WithSeed makes the backend's sampling deterministic.
func WithSeed(seed uint64) BackendOption {
	return func(cfg *backendConfig) {
		cfg.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// checkExecutable rejects fragments the simulators cannot run.
func checkExecutable(circuit *Circuit) error {
	if circuit == nil || circuit.Width == 0 {
		return ErrEmptyCircuit
	}
	if circuit.Width > maxWidth {
		return fmt.Errorf("%w: %d qubits exceeds the %d qubit ceiling",
			ErrCircuitTooWide, circuit.Width, maxWidth)
	}
	return nil
}
