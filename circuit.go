package qlogic

import "math"

// GateKind identifies one of the four gate primitives the builder emits.
type GateKind int

const (
	// GateCertainty is the single-qubit certainty rotation M(alpha).
	GateCertainty GateKind = iota
	// GateX is the Pauli-X bit flip.
	GateX
	// GateCNOT is the controlled NOT; Qubits holds [control, target].
	GateCNOT
	// GateCCNOT is the Toffoli; Qubits holds [control, control, target].
	GateCCNOT
)

// Gate is one operation over the fragment's qubit register. Qubit indices
// are register-relative and only meaningful within the owning Circuit.
type Gate struct {
	Kind   GateKind
	Qubits []int
	Alpha  float64 // rotation angle, set for GateCertainty only
}

/*
Circuit is the fragment produced for one subtree: a register of Width
qubits, the ordered gates over that register, and the mapping from tag to
the register index holding that node's truth amplitude. A fragment is
created by one build call, consumed by its parent (or the executor at the
root), and discarded.
*/
type Circuit struct {
	Width int
	Gates []Gate
	Tags  map[string]int
}

// Output returns the index of the fragment's own output qubit. The
// allocator guarantees this is always the last qubit of the register.
func (c *Circuit) Output() int {
	return c.Width - 1
}

// Alpha converts a certainty weight into the rotation angle of the
// certainty gate: alpha = certainty * pi/2, so that measuring the rotated
// qubit yields 1 with probability sin^2(alpha).
func Alpha(certainty float64) float64 {
	return certainty * math.Pi / 2
}

// CertaintyMatrix returns the unitary of the certainty gate,
//
//	[[cos a,  sin a]
//	 [sin a, -cos a]]
//
// applied by backends that execute gates as explicit matrices.
func CertaintyMatrix(alpha float64) [2][2]complex128 {
	cos := complex(math.Cos(alpha), 0)
	sin := complex(math.Sin(alpha), 0)
	return [2][2]complex128{
		{cos, sin},
		{sin, -cos},
	}
}
