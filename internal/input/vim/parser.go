package vim

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/operator"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/register"
)

// state is where the parser is within a command.
type state uint8

const (
	stateInitial state = iota
	stateRegister
	stateOperator
	stateG
	stateObject
	stateChar
)

// charUse says what a pending character operand is for.
type charUse uint8

const (
	charMotion charUse = iota
	charReplace
	charMark
	charRecord
	charPlay
)

// normalActions are Normal mode commands that complete on one key.
var normalActions = map[rune]Action{
	'i': ActInsert,
	'a': ActAppend,
	'I': ActInsertStart,
	'A': ActAppendEnd,
	'o': ActOpenBelow,
	'O': ActOpenAbove,
	'R': ActReplaceMode,
	'~': ActToggleCase,
	'p': ActPut,
	'P': ActPutBefore,
	'J': ActJoin,
	'u': ActUndo,
	'.': ActRepeat,
	'v': ActVisual,
	'V': ActVisualLine,
	':': ActCmdline,
	'&': ActRepeatSubstitute,
}

// visualActions are Visual mode commands that complete on one key.
var visualActions = map[rune]Action{
	'o': ActSwapEnds,
	'O': ActSwapCorner,
	'I': ActInsertStart,
	'A': ActAppendEnd,
	'J': ActJoin,
	'p': ActPut,
	'P': ActPutBefore,
	'v': ActVisual,
	'V': ActVisualLine,
	':': ActCmdline,
}

var gNormalActions = map[rune]Action{
	'I': ActInsertColumnZero,
	'i': ActInsertResume,
	'p': ActPutAfterMove,
	'P': ActPutBeforeMove,
	'J': ActJoinRaw,
	'v': ActReselect,
	'h': ActSelect,
	'H': ActSelectLine,
}

var gVisualActions = map[rune]Action{
	'J': ActJoinRaw,
	'v': ActReselect,
}

// ctrlActions are CTRL commands valid in both Normal and Visual mode.
var ctrlActions = map[rune]Action{
	'a': ActIncrement,
	'x': ActDecrement,
	'r': ActRedo,
	'o': ActJumpOlder,
	'v': ActVisualBlock,
}

// charActions read a character operand before completing.
var charActions = map[rune]charUse{
	'r': charReplace,
	'm': charMark,
	'q': charRecord,
	'@': charPlay,
}

var charActionFor = map[charUse]Action{
	charReplace: ActReplaceChar,
	charMark:    ActSetMark,
	charRecord:  ActRecord,
	charPlay:    ActPlay,
}

// Parser turns keys into commands. It is not safe for concurrent use.
type Parser struct {
	state     state
	visual    bool
	recording bool

	before, after counter
	register      rune
	op            operator.Operator
	force         operator.Force
	around        bool
	use           charUse
	motion        motion.Kind

	// keys holds the command without its counts; typed holds everything.
	keys  key.Sequence
	typed key.Sequence
}

// NewParser returns a parser in Normal mode.
func NewParser() *Parser {
	return &Parser{}
}

// Reset abandons any pending command.
func (p *Parser) Reset() {
	p.state = stateInitial
	p.before.reset()
	p.after.reset()
	p.register = 0
	p.op = operator.OpNone
	p.force = operator.ForceNone
	p.around = false
	p.keys = nil
	p.typed = nil
}

// SetVisual switches between the Normal and Visual grammars and resets
// the pending command.
func (p *Parser) SetVisual(visual bool) {
	p.visual = visual
	p.Reset()
}

// Visual reports whether the parser reads Visual mode commands.
func (p *Parser) Visual() bool { return p.visual }

// SetRecording tells the parser a macro is being recorded, so that "q"
// stops recording instead of waiting for a register name.
func (p *Parser) SetRecording(recording bool) { p.recording = recording }

// Idle reports whether no command is pending.
func (p *Parser) Idle() bool { return len(p.typed) == 0 }

// AwaitsOperand reports whether the next key is a literal operand, such
// as a register name or the character of "f" or "r", rather than a
// command key.
func (p *Parser) AwaitsOperand() bool {
	return p.state == stateRegister || p.state == stateChar
}

// OperatorPending reports whether an operator waits for its motion.
func (p *Parser) OperatorPending() bool {
	return p.op != operator.OpNone && !p.visual
}

// Count returns the count typed so far, before and after the operator
// combined, or 0.
func (p *Parser) Count() int { return combine(p.before.get(), p.after.get()) }

// Operator returns the pending operator.
func (p *Parser) Operator() operator.Operator { return p.op }

// Pending returns the notation of the keys typed so far.
func (p *Parser) Pending() string { return p.typed.String() }

// Parse feeds one key to the parser.
func (p *Parser) Parse(e key.Event) Result {
	e = e.Normalize()
	if e.Is(key.KeyEscape) {
		if p.Idle() {
			return p.complete(&Command{Action: ActEscape})
		}
		p.Reset()
		return Result{Status: StatusCancelled}
	}

	p.typed = append(p.typed, e)
	switch p.state {
	case stateInitial:
		return p.parseInitial(e)
	case stateRegister:
		return p.parseRegister(e)
	case stateOperator:
		return p.parseOperator(e)
	case stateG:
		return p.parseG(e)
	case stateObject:
		return p.parseObject(e)
	case stateChar:
		return p.parseChar(e)
	}
	return p.invalid()
}

func (p *Parser) parseInitial(e key.Event) Result {
	r := e.Char()
	if r != 0 && p.before.digit(r) {
		return p.pending()
	}
	p.keys = append(p.keys, e)

	switch {
	case e.Key == key.KeyRune && e.Mods == key.ModCtrl:
		if act, ok := ctrlActions[e.Rune]; ok {
			return p.complete(&Command{Action: act})
		}
		return p.invalid()
	case e.Is(key.KeyTab):
		if p.visual {
			return p.invalid()
		}
		return p.complete(&Command{Action: ActJumpNewer})
	case r == 0:
		if k, ok := motionFor(e); ok {
			return p.completeMotion(k)
		}
		return p.invalid()
	}

	switch r {
	case '"':
		p.state = stateRegister
		return p.pending()
	case 'g':
		p.state = stateG
		return p.pending()
	case '/', '?':
		return p.completeSearch(r)
	}

	if p.visual {
		return p.parseVisual(r)
	}

	if op, ok := operatorKeys[r]; ok {
		p.op = op
		p.state = stateOperator
		return p.pending()
	}
	if p.recording && r == 'q' {
		return p.complete(&Command{Action: ActStopRecord})
	}
	if k, ok := charMotionKeys[r]; ok {
		return p.awaitChar(charMotion, k)
	}
	if use, ok := charActions[r]; ok {
		return p.awaitChar(use, 0)
	}
	if k, ok := motionKeys[r]; ok {
		return p.completeMotion(k)
	}
	if s, ok := shorthands[r]; ok {
		return p.complete(&Command{
			Action:    ActOperator,
			Operator:  s.op,
			Linewise:  s.linewise,
			Motion:    s.motion,
			HasMotion: !s.linewise,
		})
	}
	if act, ok := normalActions[r]; ok {
		return p.complete(&Command{Action: act})
	}
	return p.invalid()
}

// parseVisual handles the first key of a Visual mode command.
func (p *Parser) parseVisual(r rune) Result {
	if s, ok := visualOperators[r]; ok {
		return p.complete(&Command{Action: ActOperator, Operator: s.op, Linewise: s.linewise})
	}
	switch r {
	case 'i', 'a':
		p.around = r == 'a'
		p.state = stateObject
		return p.pending()
	case 'r':
		return p.awaitChar(charReplace, 0)
	}
	if k, ok := charMotionKeys[r]; ok {
		return p.awaitChar(charMotion, k)
	}
	if k, ok := motionKeys[r]; ok {
		return p.completeMotion(k)
	}
	if act, ok := visualActions[r]; ok {
		return p.complete(&Command{Action: act})
	}
	return p.invalid()
}

func (p *Parser) parseRegister(e key.Event) Result {
	r := e.Char()
	if !register.IsValid(r) {
		return p.invalid()
	}
	p.keys = append(p.keys, e)
	p.register = r
	p.state = stateInitial
	return p.pending()
}

func (p *Parser) parseOperator(e key.Event) Result {
	r := e.Char()
	if r != 0 && p.after.digit(r) {
		return p.pending()
	}
	p.keys = append(p.keys, e)

	switch {
	case e.IsCtrl('v'):
		p.force = operator.ForceBlock
		return p.pending()
	case r == 0:
		if k, ok := motionFor(e); ok {
			return p.completeMotion(k)
		}
		return p.invalid()
	case doubles(p.op, r):
		return p.completeLinewise()
	}

	switch r {
	case 'v':
		p.force = operator.ForceCharacter
		return p.pending()
	case 'V':
		p.force = operator.ForceLine
		return p.pending()
	case 'g':
		p.state = stateG
		return p.pending()
	case 'i', 'a':
		p.around = r == 'a'
		p.state = stateObject
		return p.pending()
	case '/', '?':
		return p.completeSearch(r)
	}
	if k, ok := charMotionKeys[r]; ok {
		return p.awaitChar(charMotion, k)
	}
	if k, ok := motionKeys[r]; ok {
		return p.completeMotion(k)
	}
	return p.invalid()
}

func (p *Parser) parseG(e key.Event) Result {
	p.keys = append(p.keys, e)
	r := e.Char()

	if r == 'n' || r == 'N' {
		return p.completeMatch(r == 'N')
	}
	if p.op != operator.OpNone {
		if op, ok := gOperatorKeys[r]; ok && op == p.op {
			return p.completeLinewise()
		}
		if k, ok := gMotionKeys[r]; ok {
			return p.completeMotion(k)
		}
		return p.invalid()
	}

	if op, ok := gOperatorKeys[r]; ok {
		if p.visual {
			return p.complete(&Command{Action: ActOperator, Operator: op})
		}
		p.op = op
		p.state = stateOperator
		return p.pending()
	}
	if k, ok := gMotionKeys[r]; ok {
		return p.completeMotion(k)
	}
	if p.visual && e.IsCtrl('a') {
		return p.complete(&Command{Action: ActIncrementProgressive})
	}
	if p.visual && e.IsCtrl('x') {
		return p.complete(&Command{Action: ActDecrementProgressive})
	}
	actions := gNormalActions
	if p.visual {
		actions = gVisualActions
	} else if e.Is(key.KeyBackspace) {
		// g CTRL-H arrives as <BS> once normalized.
		return p.complete(&Command{Action: ActSelectBlock})
	}
	if act, ok := actions[r]; ok {
		return p.complete(&Command{Action: act})
	}
	return p.invalid()
}

func (p *Parser) parseObject(e key.Event) Result {
	p.keys = append(p.keys, e)
	obj, ok := search.ObjectFor(e.Char())
	if !ok {
		return p.invalid()
	}
	cmd := &Command{Object: obj, HasObject: true, Around: p.around}
	if p.op != operator.OpNone {
		cmd.Action = ActOperator
		cmd.Operator = p.op
		cmd.Force = p.force
	} else {
		cmd.Action = ActObject
	}
	return p.complete(cmd)
}

func (p *Parser) parseChar(e key.Event) Result {
	p.keys = append(p.keys, e)
	r := e.Char()
	switch {
	case e.Is(key.KeyTab):
		r = '\t'
	case e.Is(key.KeyEnter) && p.use == charReplace:
		r = '\n'
	}
	if r == 0 {
		return p.invalid()
	}

	if p.use == charMotion {
		res := p.completeMotion(p.motion)
		res.Command.Char = r
		return res
	}
	return p.complete(&Command{Action: charActionFor[p.use], Char: r})
}

func (p *Parser) awaitChar(use charUse, k motion.Kind) Result {
	p.use = use
	p.motion = k
	p.state = stateChar
	return p.pending()
}

func (p *Parser) completeMotion(k motion.Kind) Result {
	count := combine(p.before.get(), p.after.get())
	cmd := &Command{Action: ActMotion, Motion: countedMotion(k, count), HasMotion: true}
	if p.op != operator.OpNone {
		cmd.Action = ActOperator
		cmd.Operator = p.op
		cmd.Force = p.force
	}
	return p.complete(cmd)
}

func (p *Parser) completeSearch(r rune) Result {
	k := motion.SearchForward
	if r == '?' {
		k = motion.SearchBackward
	}
	return p.complete(&Command{
		Action:    ActSearch,
		Operator:  p.op,
		Force:     p.force,
		Motion:    k,
		HasMotion: true,
	})
}

// completeMatch finishes gn or gN: an operator's operand, or a command
// selecting the match.
func (p *Parser) completeMatch(backward bool) Result {
	k := motion.SearchNext
	if backward {
		k = motion.SearchPrev
	}
	cmd := &Command{Action: ActSelectMatch, Motion: k}
	if p.op != operator.OpNone {
		cmd.Action = ActOperator
		cmd.Operator = p.op
		cmd.Force = p.force
		cmd.Match = true
	}
	return p.complete(cmd)
}

func (p *Parser) completeLinewise() Result {
	return p.complete(&Command{Action: ActOperator, Operator: p.op, Linewise: true, Force: p.force})
}

// complete fills in the counts, register and keys, then resets.
func (p *Parser) complete(cmd *Command) Result {
	cmd.Count = combine(p.before.get(), p.after.get())
	cmd.Register = p.register
	cmd.Keys = p.keys.Clone()
	p.Reset()
	return Result{Status: StatusComplete, Command: cmd}
}

func (p *Parser) pending() Result {
	return Result{Status: StatusPending, Pending: p.Pending()}
}

func (p *Parser) invalid() Result {
	p.Reset()
	return Result{Status: StatusInvalid}
}
