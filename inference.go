package qlogic

/*
Node is a single element of an inference tree: a fact or one of the three
logical operators, each carrying a tag that identifies it and a certainty
weight in [0,1]. Nodes form an exclusive-ownership tree; the same node must
not appear in two places of one expression.
*/
type Node interface {
	// Tag returns the name identifying this node and, after building, the
	// qubit that carries its truth probability.
	Tag() string

	// Certainty returns the confidence weight assigned to this node.
	Certainty() float64

	// Accept dispatches to the backend's build method for this node kind
	// and returns the composed circuit fragment for the subtree.
	Accept(backend Backend) (*Circuit, error)
}

// Fact is a leaf proposition with an associated certainty.
type Fact struct {
	tag       string
	certainty float64
}

func NewFact(tag string, certainty float64) *Fact {
	return &Fact{tag: tag, certainty: certainty}
}

func (f *Fact) Tag() string        { return f.tag }
func (f *Fact) Certainty() float64 { return f.certainty }

func (f *Fact) Accept(backend Backend) (*Circuit, error) {
	return backend.BuildFact(f)
}

// NotOperator negates a single child, re-weighted by its own certainty.
type NotOperator struct {
	tag       string
	certainty float64
	child     Node
}

func NewNot(tag string, certainty float64, child Node) *NotOperator {
	return &NotOperator{tag: tag, certainty: certainty, child: child}
}

func (n *NotOperator) Tag() string        { return n.tag }
func (n *NotOperator) Certainty() float64 { return n.certainty }
func (n *NotOperator) Child() Node        { return n.child }

func (n *NotOperator) Accept(backend Backend) (*Circuit, error) {
	return backend.BuildNot(n)
}

// AndOperator conjoins two children, re-weighted by its own certainty.
type AndOperator struct {
	tag       string
	certainty float64
	left      Node
	right     Node
}

func NewAnd(tag string, certainty float64, left, right Node) *AndOperator {
	return &AndOperator{tag: tag, certainty: certainty, left: left, right: right}
}

func (a *AndOperator) Tag() string        { return a.tag }
func (a *AndOperator) Certainty() float64 { return a.certainty }
func (a *AndOperator) Left() Node         { return a.left }
func (a *AndOperator) Right() Node        { return a.right }

func (a *AndOperator) Accept(backend Backend) (*Circuit, error) {
	return backend.BuildAnd(a)
}

// OrOperator disjoins two children, re-weighted by its own certainty.
type OrOperator struct {
	tag       string
	certainty float64
	left      Node
	right     Node
}

func NewOr(tag string, certainty float64, left, right Node) *OrOperator {
	return &OrOperator{tag: tag, certainty: certainty, left: left, right: right}
}

func (o *OrOperator) Tag() string        { return o.tag }
func (o *OrOperator) Certainty() float64 { return o.certainty }
func (o *OrOperator) Left() Node         { return o.left }
func (o *OrOperator) Right() Node        { return o.right }

func (o *OrOperator) Accept(backend Backend) (*Circuit, error) {
	return backend.BuildOr(o)
}
