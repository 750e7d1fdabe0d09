package expr

// Node is a parsed expression.
type Node interface {
	node()
}

// Literal is a Number or String constant.
type Literal struct {
	Value Value
}

// ListExpr is a [a, b, ...] list constructor.
type ListExpr struct {
	Items []Node
}

// VarRef reads a variable. Name keeps its scope prefix as typed.
type VarRef struct {
	Name string
}

// OptionRef reads an option: &name.
type OptionRef struct {
	Name string
}

// RegisterRef reads a register: @r.
type RegisterRef struct {
	Name rune
}

// Unary is !x, -x or +x.
type Unary struct {
	Op      TokenType
	Operand Node
}

// Binary is an arithmetic, concatenation, logical or comparison operation.
// Op holds the operator text, including a #/? suffix.
type Binary struct {
	Op          string
	Left, Right Node
}

// Ternary is cond ? then : else.
type Ternary struct {
	Cond, Then, Else Node
}

// Call is a builtin function call.
type Call struct {
	Name string
	Args []Node
}

// Index is x[i], or x[from:to] when Slice is set. A nil bound is open.
type Index struct {
	Target   Node
	From, To Node
	Slice    bool
}

func (*Literal) node()     {}
func (*ListExpr) node()    {}
func (*VarRef) node()      {}
func (*OptionRef) node()   {}
func (*RegisterRef) node() {}
func (*Unary) node()       {}
func (*Binary) node()      {}
func (*Ternary) node()     {}
func (*Call) node()        {}
func (*Index) node()       {}
