package vim

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
)

// operatorKeys maps single-key operators.
var operatorKeys = map[rune]operator.Operator{
	'd': operator.OpDelete,
	'y': operator.OpYank,
	'c': operator.OpChange,
	'>': operator.OpIndent,
	'<': operator.OpOutdent,
	'=': operator.OpReindent,
}

// gOperatorKeys maps operators typed after "g".
var gOperatorKeys = map[rune]operator.Operator{
	'~': operator.OpToggleCase,
	'u': operator.OpLower,
	'U': operator.OpUpper,
	'?': operator.OpRot13,
	'q': operator.OpFormat,
}

// doubles reports whether r repeats op, as the second "d" of "dd" or the
// "U" of "gUU" does.
func doubles(op operator.Operator, r rune) bool {
	keys := []rune(op.Keys())
	return len(keys) > 0 && keys[len(keys)-1] == r
}

// shorthand is a Normal mode key that stands for an operator command.
type shorthand struct {
	op       operator.Operator
	motion   motion.Kind
	linewise bool
}

// shorthands maps x, X, D, C, s, S and Y onto the commands they abbreviate.
var shorthands = map[rune]shorthand{
	'x': {op: operator.OpDelete, motion: motion.Right},
	'X': {op: operator.OpDelete, motion: motion.Left},
	'D': {op: operator.OpDelete, motion: motion.LineEnd},
	'C': {op: operator.OpChange, motion: motion.LineEnd},
	's': {op: operator.OpChange, motion: motion.Right},
	'S': {op: operator.OpChange, linewise: true},
	'Y': {op: operator.OpYank, linewise: true},
}

// visualOperators maps keys that apply an operator to the Visual selection.
var visualOperators = map[rune]shorthand{
	'd': {op: operator.OpDelete},
	'x': {op: operator.OpDelete},
	'y': {op: operator.OpYank},
	'c': {op: operator.OpChange},
	's': {op: operator.OpChange},
	'>': {op: operator.OpIndent},
	'<': {op: operator.OpOutdent},
	'=': {op: operator.OpReindent},
	'~': {op: operator.OpToggleCase},
	'u': {op: operator.OpLower},
	'U': {op: operator.OpUpper},
	'X': {op: operator.OpDelete, linewise: true},
	'D': {op: operator.OpDelete, linewise: true},
	'Y': {op: operator.OpYank, linewise: true},
	'C': {op: operator.OpChange, linewise: true},
	'S': {op: operator.OpChange, linewise: true},
	'R': {op: operator.OpChange, linewise: true},
}
