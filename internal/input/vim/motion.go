package vim

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/input/key"
)

// motionKeys maps single-character motions.
var motionKeys = map[rune]motion.Kind{
	'h': motion.Left,
	'l': motion.Right,
	'j': motion.Down,
	'k': motion.Up,
	' ': motion.Space,
	'+': motion.LineDown,
	'-': motion.LineUp,
	'_': motion.LineCurrent,
	'0': motion.LineStart,
	'^': motion.FirstNonBlank,
	'$': motion.LineEnd,
	'|': motion.Column,
	'w': motion.WordForward,
	'W': motion.BigWordForward,
	'b': motion.WordBackward,
	'B': motion.BigWordBackward,
	'e': motion.WordEnd,
	'E': motion.BigWordEnd,
	'G': motion.GotoLine,
	'H': motion.ScreenTop,
	'M': motion.ScreenMiddle,
	'L': motion.ScreenBottom,
	'%': motion.MatchPair,
	';': motion.RepeatFind,
	',': motion.RepeatFindReverse,
	'}': motion.ParagraphForward,
	'{': motion.ParagraphBackward,
	')': motion.SentenceForward,
	'(': motion.SentenceBackward,
	'n': motion.SearchNext,
	'N': motion.SearchPrev,
	'*': motion.SearchWordForward,
	'#': motion.SearchWordBackward,
}

// gMotionKeys maps motions typed after "g".
var gMotionKeys = map[rune]motion.Kind{
	'g': motion.GotoFirstLine,
	'e': motion.WordEndBackward,
	'E': motion.BigWordEndBackward,
	'_': motion.LastNonBlank,
	'j': motion.ScreenDown,
	'k': motion.ScreenUp,
	'0': motion.ScreenLineStart,
	'$': motion.ScreenLineEnd,
	'o': motion.GotoByte,
	'*': motion.SearchPartialWordForward,
	'#': motion.SearchPartialWordBackward,
}

// specialMotions maps special keys that move the caret.
var specialMotions = map[key.Key]motion.Kind{
	key.KeyLeft:      motion.Left,
	key.KeyRight:     motion.Right,
	key.KeyUp:        motion.Up,
	key.KeyDown:      motion.Down,
	key.KeyHome:      motion.LineStart,
	key.KeyEnd:       motion.LineEnd,
	key.KeyBackspace: motion.Backspace,
	key.KeyEnter:     motion.LineDown,
}

// charMotionKeys are the motions that read a character operand.
var charMotionKeys = map[rune]motion.Kind{
	'f':  motion.FindForward,
	'F':  motion.FindBackward,
	't':  motion.TillForward,
	'T':  motion.TillBackward,
	'\'': motion.MarkLine,
	'`':  motion.MarkExact,
}

// motionFor returns the motion an unmodified event types in the initial
// or operator state.
func motionFor(e key.Event) (motion.Kind, bool) {
	if e.Mods != key.ModNone {
		return 0, false
	}
	if e.Key == key.KeyRune {
		k, ok := motionKeys[e.Rune]
		return k, ok
	}
	k, ok := specialMotions[e.Key]
	return k, ok
}

// countedMotion applies count-dependent remapping: "N%" goes to a
// percentage of the file rather than the matching bracket.
func countedMotion(k motion.Kind, count int) motion.Kind {
	if k == motion.MatchPair && count > 0 {
		return motion.GotoPercent
	}
	return k
}
