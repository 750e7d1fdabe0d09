package ex

// RangeFlag says whether a command takes a range.
type RangeFlag uint8

const (
	RangeOptional RangeFlag = iota
	RangeRequired
	RangeForbidden
)

// ArgumentFlag says whether a command takes an argument.
type ArgumentFlag uint8

const (
	ArgumentOptional ArgumentFlag = iota
	ArgumentRequired
	ArgumentForbidden
)

// AccessClass picks the host transaction a command runs in.
type AccessClass uint8

const (
	// Writable commands edit the buffer and run in a write action. They
	// fail on a read-only document before the action starts.
	Writable AccessClass = iota
	// ReadOnly commands run in a read action.
	ReadOnly
	// SelfSynchronized commands open their own transactions, typically
	// because they run other commands.
	SelfSynchronized
)

// String returns the class name.
func (a AccessClass) String() string {
	switch a {
	case Writable:
		return "writable"
	case ReadOnly:
		return "read-only"
	default:
		return "self-synchronized"
	}
}

// Flags is the contract a command declares.
type Flags struct {
	Range    RangeFlag
	Argument ArgumentFlag
	Access   AccessClass
	// SaveVisual keeps Visual mode active while the command runs.
	SaveVisual bool
}

// Execution says how a command treats multiple carets.
type Execution uint8

const (
	// ForEachCaret runs the command once per caret, bottom caret first.
	ForEachCaret Execution = iota
	// SingleExecution runs the command once for the primary caret.
	SingleExecution
)

// traits are parsing details that are not part of the contract.
type traits uint8

const (
	// takesBar commands see "|" as part of their argument.
	takesBar traits = 1 << iota
	// wholeFile commands default to every line instead of the current one.
	wholeFile
	// lineZero commands accept address 0 as "before the first line".
	lineZero
	// clampRange commands move out-of-range lines to the last line instead
	// of failing.
	clampRange
)
