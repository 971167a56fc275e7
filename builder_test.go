package qlogic

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildFact(t *testing.T) {
	Convey("Given a single fact", t, func() {
		backend := NewVectorBackend()
		circuit, err := NewFact("A", 0.4).Accept(backend)
		So(err, ShouldBeNil)

		Convey("It compiles to one rotated qubit", func() {
			So(circuit.Width, ShouldEqual, 1)
			So(circuit.Tags, ShouldResemble, map[string]int{"A": 0})
			So(len(circuit.Gates), ShouldEqual, 1)
			So(circuit.Gates[0].Kind, ShouldEqual, GateCertainty)
			So(circuit.Gates[0].Alpha, ShouldAlmostEqual, Alpha(0.4))
		})
	})
}

func TestBuildNot(t *testing.T) {
	Convey("Given a negated fact", t, func() {
		backend := NewVectorBackend()
		circuit, err := NewNot("N", 0.8, NewFact("A", 0.4)).Accept(backend)
		So(err, ShouldBeNil)

		Convey("The fragment grows by two qubits", func() {
			So(circuit.Width, ShouldEqual, 3)
		})

		Convey("The child's tag is consumed and the operator owns the last qubit", func() {
			So(circuit.Tags, ShouldResemble, map[string]int{"N": 2})
		})

		Convey("The gate order is flip, weight, conjoin", func() {
			kinds := gateKinds(circuit)
			So(kinds, ShouldResemble, []GateKind{GateCertainty, GateX, GateCertainty, GateCCNOT})
			So(circuit.Gates[1].Qubits, ShouldResemble, []int{0})
			So(circuit.Gates[3].Qubits, ShouldResemble, []int{0, 1, 2})
		})
	})

	Convey("Given a NOT over an operator with live grandchild tags", t, func() {
		backend := NewVectorBackend()
		child := NewAnd("C", 0.75, NewFact("A", 1.0), NewFact("B", 0.4))
		circuit, err := NewNot("N", 0.8, child).Accept(backend)
		So(err, ShouldBeNil)

		Convey("Only the child's own tag is deleted", func() {
			So(circuit.Width, ShouldEqual, 7)
			So(circuit.Tags, ShouldResemble, map[string]int{"A": 0, "B": 1, "N": 6})
		})
	})

	Convey("Given a NOT reusing its own child's tag", t, func() {
		backend := NewVectorBackend()
		circuit, err := NewNot("A", 0.8, NewFact("A", 0.4)).Accept(backend)

		Convey("The build succeeds because the child tag was consumed first", func() {
			So(err, ShouldBeNil)
			So(circuit.Tags, ShouldResemble, map[string]int{"A": 2})
		})
	})
}

func TestBuildAnd(t *testing.T) {
	Convey("Given a conjunction of two facts", t, func() {
		backend := NewVectorBackend()
		circuit, err := NewAnd("C", 0.75, NewFact("A", 1.0), NewFact("B", 0.4)).Accept(backend)
		So(err, ShouldBeNil)

		Convey("The fragment allocates three working qubits", func() {
			So(circuit.Width, ShouldEqual, 5)
		})

		Convey("Child tags point at their designated outputs and stay addressable", func() {
			So(circuit.Tags, ShouldResemble, map[string]int{"A": 0, "B": 1, "C": 4})
		})

		Convey("The conjunction flows through meet, weight and output", func() {
			kinds := gateKinds(circuit)
			So(kinds, ShouldResemble, []GateKind{
				GateCertainty, GateCertainty, GateCCNOT, GateCertainty, GateCCNOT,
			})
			So(circuit.Gates[2].Qubits, ShouldResemble, []int{0, 1, 2})
			So(circuit.Gates[4].Qubits, ShouldResemble, []int{2, 3, 4})
		})
	})

	Convey("Given nested conjunctions", t, func() {
		backend := NewVectorBackend()
		left := NewAnd("C", 0.75, NewFact("A", 1.0), NewFact("B", 0.4))
		circuit, err := NewAnd("I", 0.9, left, NewFact("D", 0.42)).Accept(backend)
		So(err, ShouldBeNil)

		Convey("Right-hand tags are rebased past the left register", func() {
			So(circuit.Width, ShouldEqual, 9)
			So(circuit.Tags, ShouldResemble, map[string]int{
				"A": 0, "B": 1, "C": 4, "D": 5, "I": 8,
			})
		})

		Convey("Every tag indexes a qubit inside the register", func() {
			for _, qubit := range circuit.Tags {
				So(qubit, ShouldBeLessThan, circuit.Width)
			}
		})
	})
}

func TestBuildOr(t *testing.T) {
	Convey("Given a disjunction of two facts", t, func() {
		backend := NewVectorBackend()
		circuit, err := NewOr("H", 0.76, NewFact("F", 0.33), NewFact("G", 0.85)).Accept(backend)
		So(err, ShouldBeNil)

		Convey("It is the conjunction plus two corrective CNOTs", func() {
			So(circuit.Width, ShouldEqual, 5)
			So(circuit.Tags, ShouldResemble, map[string]int{"F": 0, "G": 1, "H": 4})

			kinds := gateKinds(circuit)
			So(kinds, ShouldResemble, []GateKind{
				GateCertainty, GateCertainty, GateCCNOT, GateCNOT, GateCNOT,
				GateCertainty, GateCCNOT,
			})
			So(circuit.Gates[3].Qubits, ShouldResemble, []int{0, 2})
			So(circuit.Gates[4].Qubits, ShouldResemble, []int{1, 2})
		})
	})
}

func TestTagCollisions(t *testing.T) {
	Convey("Given sibling subtrees reusing one tag", t, func() {
		backend := NewVectorBackend()
		_, err := NewAnd("I", 0.5, NewFact("X", 0.1), NewFact("X", 0.2)).Accept(backend)

		Convey("The build is rejected instead of silently mis-mapping", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrTagCollision), ShouldBeTrue)
		})
	})

	Convey("Given an operator shadowing a live child tag", t, func() {
		backend := NewVectorBackend()
		_, err := NewAnd("A", 0.5, NewFact("A", 0.1), NewFact("B", 0.2)).Accept(backend)

		So(errors.Is(err, ErrTagCollision), ShouldBeTrue)
	})

	Convey("Given a collision buried deep in the tree", t, func() {
		backend := NewTensorBackend()
		tree := NewOr("E", 0.67,
			NewAnd("C", 0.75, NewFact("A", 1.0), NewFact("B", 0.4)),
			NewFact("B", 0.42),
		)
		_, err := tree.Accept(backend)

		So(errors.Is(err, ErrTagCollision), ShouldBeTrue)
	})
}

func gateKinds(circuit *Circuit) []GateKind {
	kinds := make([]GateKind, len(circuit.Gates))
	for i, gate := range circuit.Gates {
		kinds[i] = gate.Kind
	}
	return kinds
}
