// builder.go
package qlogic

import (
	"errors"
	"fmt"
)

// ErrTagCollision reports that two simultaneously-tracked qubits would end
// up sharing one tag, which would make the resulting marginals ambiguous.
var ErrTagCollision = errors.New("tag collision")

/*
allocator hands out register indices for one fragment in claim order. It
exists so the invariant "a fragment's output qubit is the final allocated
index" holds by construction rather than by -1/-2/-3 arithmetic at every
call site.
*/
type allocator struct {
	next int
}

// block reserves width consecutive qubits and returns the first index.
func (a *allocator) block(width int) int {
	offset := a.next
	a.next += width
	return offset
}

// claim reserves a single qubit and returns its index.
func (a *allocator) claim() int {
	index := a.next
	a.next++
	return index
}

// size returns the number of qubits handed out so far.
func (a *allocator) size() int {
	return a.next
}

/*
composer implements the backend-independent half of the visitor contract:
the recursive fragment composition and tag-index bookkeeping for the four
node kinds. Backends embed it and contribute only their execution engine.
Recursion goes through Accept on the owning backend, so the dispatch per
node kind stays with the tree.

Every build call returns a fresh fragment with a freshly built tag map;
child maps are read but never aliased, so a fragment can safely be handed
to its parent and forgotten.
*/
type composer struct {
	backend Backend
}

// BuildFact allocates a single qubit and rotates it by the fact's
// certainty. The fact's tag points at that qubit.
func (c *composer) BuildFact(fact *Fact) (*Circuit, error) {
	var alloc allocator
	qubit := alloc.claim()

	return &Circuit{
		Width: alloc.size(),
		Gates: []Gate{
			{Kind: GateCertainty, Qubits: []int{qubit}, Alpha: Alpha(fact.Certainty())},
		},
		Tags: map[string]int{fact.Tag(): qubit},
	}, nil
}

/*
BuildNot composes the child fragment, flips the child's output qubit, and
ANDs the flipped bit with a freshly certainty-rotated ancilla into a new
output qubit. The child's own tag is consumed: its qubit is an internal
ancilla of the negation from here on, so the tag is dropped from the map
before the operator's tag is added.
*/
func (c *composer) BuildNot(not *NotOperator) (*Circuit, error) {
	child, err := not.Child().Accept(c.backend)
	if err != nil {
		return nil, err
	}

	var alloc allocator
	alloc.block(child.Width)
	weight := alloc.claim()
	out := alloc.claim()

	tags := make(map[string]int, len(child.Tags))
	for tag, qubit := range child.Tags {
		tags[tag] = qubit
	}
	delete(tags, not.Child().Tag())
	if _, live := tags[not.Tag()]; live {
		return nil, fmt.Errorf("%w: NOT tag %q already names a live qubit in its operand",
			ErrTagCollision, not.Tag())
	}
	tags[not.Tag()] = out

	gates := make([]Gate, 0, len(child.Gates)+3)
	gates = append(gates, child.Gates...)
	gates = append(gates,
		Gate{Kind: GateX, Qubits: []int{child.Output()}},
		Gate{Kind: GateCertainty, Qubits: []int{weight}, Alpha: Alpha(not.Certainty())},
		Gate{Kind: GateCCNOT, Qubits: []int{child.Output(), weight, out}},
	)

	return &Circuit{Width: alloc.size(), Gates: gates, Tags: tags}, nil
}

// BuildAnd composes both children side by side, Toffolis their output
// qubits into an intermediate, and re-weights that conjunction through the
// operator's certainty into the output qubit.
func (c *composer) BuildAnd(and *AndOperator) (*Circuit, error) {
	return c.buildBinary(and.Tag(), and.Certainty(), and.Left(), and.Right(), false)
}

// BuildOr is BuildAnd with the intermediate flipped once per asserted
// operand: OR(a,b) = AND(a,b) XOR a XOR b.
func (c *composer) BuildOr(or *OrOperator) (*Circuit, error) {
	return c.buildBinary(or.Tag(), or.Certainty(), or.Left(), or.Right(), true)
}

func (c *composer) buildBinary(tag string, certainty float64, left, right Node, disjunction bool) (*Circuit, error) {
	leftCirc, err := left.Accept(c.backend)
	if err != nil {
		return nil, err
	}
	rightCirc, err := right.Accept(c.backend)
	if err != nil {
		return nil, err
	}

	var alloc allocator
	alloc.block(leftCirc.Width)
	shift := alloc.block(rightCirc.Width)
	meet := alloc.claim()
	weight := alloc.claim()
	out := alloc.claim()

	leftOut := leftCirc.Output()
	rightOut := shift + rightCirc.Output()

	// Right-hand tags move with their register: indices are register
	// relative and must be re-derived on every compose step.
	tags := make(map[string]int, len(leftCirc.Tags)+len(rightCirc.Tags)+1)
	for name, qubit := range leftCirc.Tags {
		tags[name] = qubit
	}
	for name, qubit := range rightCirc.Tags {
		if _, dup := tags[name]; dup {
			return nil, fmt.Errorf("%w: %q is tracked by both operands of %q",
				ErrTagCollision, name, tag)
		}
		tags[name] = qubit + shift
	}

	// Each child's own tag is re-pointed at its designated output qubit;
	// those stay addressable, unlike NOT's consumed ancilla.
	tags[left.Tag()] = leftOut
	tags[right.Tag()] = rightOut

	if _, live := tags[tag]; live {
		return nil, fmt.Errorf("%w: operator tag %q already names a live qubit",
			ErrTagCollision, tag)
	}
	tags[tag] = out

	gates := make([]Gate, 0, len(leftCirc.Gates)+len(rightCirc.Gates)+5)
	gates = append(gates, leftCirc.Gates...)
	for _, gate := range rightCirc.Gates {
		gates = append(gates, shiftGate(gate, shift))
	}
	gates = append(gates, Gate{Kind: GateCCNOT, Qubits: []int{leftOut, rightOut, meet}})
	if disjunction {
		gates = append(gates,
			Gate{Kind: GateCNOT, Qubits: []int{leftOut, meet}},
			Gate{Kind: GateCNOT, Qubits: []int{rightOut, meet}},
		)
	}
	gates = append(gates,
		Gate{Kind: GateCertainty, Qubits: []int{weight}, Alpha: Alpha(certainty)},
		Gate{Kind: GateCCNOT, Qubits: []int{meet, weight, out}},
	)

	return &Circuit{Width: alloc.size(), Gates: gates, Tags: tags}, nil
}

// shiftGate rebases a gate onto a register that starts at offset.
func shiftGate(gate Gate, offset int) Gate {
	qubits := make([]int, len(gate.Qubits))
	for i, qubit := range gate.Qubits {
		qubits[i] = qubit + offset
	}
	return Gate{Kind: gate.Kind, Qubits: qubits, Alpha: gate.Alpha}
}
