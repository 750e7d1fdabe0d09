package dispatcher

import (
	"slices"

	"github.com/dshills/vimcore/internal/input/vim"
)

// HandlerFunc runs one parsed command.
type HandlerFunc func(m *Machine, cmd *vim.Command) Result

// Registry maps actions to their handlers.
type Registry struct {
	handlers map[vim.Action]HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[vim.Action]HandlerFunc)}
}

// Register sets the handler for act, replacing any previous one.
func (r *Registry) Register(act vim.Action, h HandlerFunc) {
	r.handlers[act] = h
}

// Unregister removes the handler for act.
func (r *Registry) Unregister(act vim.Action) {
	delete(r.handlers, act)
}

// Get returns the handler for act.
func (r *Registry) Get(act vim.Action) (HandlerFunc, bool) {
	h, ok := r.handlers[act]
	return h, ok
}

// Actions returns the registered actions in order.
func (r *Registry) Actions() []vim.Action {
	acts := make([]vim.Action, 0, len(r.handlers))
	for a := range r.handlers {
		acts = append(acts, a)
	}
	slices.Sort(acts)
	return acts
}

// defaultRegistry registers the built-in Normal and Visual commands.
func defaultRegistry() *Registry {
	r := NewRegistry()
	for act, h := range map[vim.Action]HandlerFunc{
		vim.ActMotion:           (*Machine).doMotion,
		vim.ActOperator:         (*Machine).doOperator,
		vim.ActObject:           (*Machine).doObject,
		vim.ActInsert:           (*Machine).doInsert,
		vim.ActAppend:           (*Machine).doInsert,
		vim.ActInsertStart:      (*Machine).doInsert,
		vim.ActAppendEnd:        (*Machine).doInsert,
		vim.ActInsertColumnZero: (*Machine).doInsert,
		vim.ActInsertResume:     (*Machine).doInsert,
		vim.ActOpenBelow:        (*Machine).doInsert,
		vim.ActOpenAbove:        (*Machine).doInsert,
		vim.ActReplaceMode:      (*Machine).doInsert,
		vim.ActToggleCase:       (*Machine).doToggleCase,
		vim.ActReplaceChar:      (*Machine).doReplaceChar,
		vim.ActPut:              (*Machine).doPut,
		vim.ActPutBefore:        (*Machine).doPut,
		vim.ActPutAfterMove:     (*Machine).doPut,
		vim.ActPutBeforeMove:    (*Machine).doPut,
		vim.ActJoin:             (*Machine).doJoin,
		vim.ActJoinRaw:          (*Machine).doJoin,
		vim.ActUndo:             (*Machine).doUndo,
		vim.ActRedo:             (*Machine).doUndo,
		vim.ActRepeat:           (*Machine).doRepeat,
		vim.ActRecord:           (*Machine).doRecord,
		vim.ActStopRecord:       (*Machine).doStopRecord,
		vim.ActPlay:             (*Machine).doPlay,
		vim.ActSetMark:          (*Machine).doSetMark,
		vim.ActVisual:           (*Machine).doVisual,
		vim.ActVisualLine:       (*Machine).doVisual,
		vim.ActVisualBlock:      (*Machine).doVisual,
		vim.ActReselect:         (*Machine).doReselect,
		vim.ActSelect:           (*Machine).doSelect,
		vim.ActSelectLine:       (*Machine).doSelect,
		vim.ActSelectBlock:      (*Machine).doSelect,
		vim.ActSwapEnds:         (*Machine).doSwapEnds,
		vim.ActSwapCorner:       (*Machine).doSwapEnds,
		vim.ActCmdline:          (*Machine).doCmdline,
		vim.ActSearch:           (*Machine).doCmdline,
		vim.ActJumpOlder:        (*Machine).doJump,
		vim.ActJumpNewer:        (*Machine).doJump,
		vim.ActRepeatSubstitute: (*Machine).doRepeatSubstitute,
		vim.ActIncrement:        (*Machine).doIncrement,
		vim.ActDecrement:        (*Machine).doIncrement,
		vim.ActSelectMatch:      (*Machine).doSelectMatch,
		vim.ActEscape:           (*Machine).doEscape,

		vim.ActIncrementProgressive: (*Machine).doIncrement,
		vim.ActDecrementProgressive: (*Machine).doIncrement,
	} {
		r.Register(act, h)
	}
	return r
}
