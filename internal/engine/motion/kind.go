package motion

// Kind identifies a motion.
type Kind uint8

const (
	Left Kind = iota
	Backspace
	Right
	Space
	Up
	Down
	ScreenUp
	ScreenDown
	LineUp
	LineDown
	LineCurrent
	LineStart
	ScreenLineStart
	FirstNonBlank
	LineEnd
	ScreenLineEnd
	LastNonBlank
	Column
	WordForward
	BigWordForward
	WordBackward
	BigWordBackward
	WordEnd
	BigWordEnd
	WordEndBackward
	BigWordEndBackward
	GotoFirstLine
	GotoLine
	GotoPercent
	GotoByte
	MatchPair
	ScreenTop
	ScreenMiddle
	ScreenBottom
	FindForward
	FindBackward
	TillForward
	TillBackward
	RepeatFind
	RepeatFindReverse
	ParagraphForward
	ParagraphBackward
	SentenceForward
	SentenceBackward
	MarkLine
	MarkExact
	SearchForward
	SearchBackward
	SearchNext
	SearchPrev
	SearchWordForward
	SearchWordBackward
	SearchPartialWordForward
	SearchPartialWordBackward

	kindCount
)

type kindInfo struct {
	name string
	typ  Type
	// jump motions set the ' mark and push the jump list.
	jump bool
	// vertical motions keep the desired column.
	vertical bool
	// bigDelete motions always rotate the numbered registers on delete.
	bigDelete bool
}

var kinds = [kindCount]kindInfo{
	Left:                      {name: "left"},
	Backspace:                 {name: "backspace"},
	Right:                     {name: "right"},
	Space:                     {name: "space"},
	Up:                        {name: "up", typ: Linewise, vertical: true},
	Down:                      {name: "down", typ: Linewise, vertical: true},
	ScreenUp:                  {name: "screenUp", vertical: true},
	ScreenDown:                {name: "screenDown", vertical: true},
	LineUp:                    {name: "lineUp", typ: Linewise},
	LineDown:                  {name: "lineDown", typ: Linewise},
	LineCurrent:               {name: "lineCurrent", typ: Linewise},
	LineStart:                 {name: "lineStart"},
	ScreenLineStart:           {name: "screenLineStart"},
	FirstNonBlank:             {name: "firstNonBlank"},
	LineEnd:                   {name: "lineEnd", typ: Inclusive},
	ScreenLineEnd:             {name: "screenLineEnd", typ: Inclusive},
	LastNonBlank:              {name: "lastNonBlank", typ: Inclusive},
	Column:                    {name: "column"},
	WordForward:               {name: "wordForward"},
	BigWordForward:            {name: "bigWordForward"},
	WordBackward:              {name: "wordBackward"},
	BigWordBackward:           {name: "bigWordBackward"},
	WordEnd:                   {name: "wordEnd", typ: Inclusive},
	BigWordEnd:                {name: "bigWordEnd", typ: Inclusive},
	WordEndBackward:           {name: "wordEndBackward", typ: Inclusive},
	BigWordEndBackward:        {name: "bigWordEndBackward", typ: Inclusive},
	GotoFirstLine:             {name: "gotoFirstLine", typ: Linewise, jump: true},
	GotoLine:                  {name: "gotoLine", typ: Linewise, jump: true},
	GotoPercent:               {name: "gotoPercent", typ: Linewise, jump: true},
	GotoByte:                  {name: "gotoByte", jump: true},
	MatchPair:                 {name: "matchPair", typ: Inclusive, jump: true, bigDelete: true},
	ScreenTop:                 {name: "screenTop", typ: Linewise, jump: true},
	ScreenMiddle:              {name: "screenMiddle", typ: Linewise, jump: true},
	ScreenBottom:              {name: "screenBottom", typ: Linewise, jump: true},
	FindForward:               {name: "findForward", typ: Inclusive},
	FindBackward:              {name: "findBackward"},
	TillForward:               {name: "tillForward", typ: Inclusive},
	TillBackward:              {name: "tillBackward"},
	RepeatFind:                {name: "repeatFind"},
	RepeatFindReverse:         {name: "repeatFindReverse"},
	ParagraphForward:          {name: "paragraphForward", jump: true, bigDelete: true},
	ParagraphBackward:         {name: "paragraphBackward", jump: true, bigDelete: true},
	SentenceForward:           {name: "sentenceForward", jump: true, bigDelete: true},
	SentenceBackward:          {name: "sentenceBackward", jump: true, bigDelete: true},
	MarkLine:                  {name: "markLine", typ: Linewise, jump: true, bigDelete: true},
	MarkExact:                 {name: "markExact", jump: true, bigDelete: true},
	SearchForward:             {name: "searchForward", jump: true, bigDelete: true},
	SearchBackward:            {name: "searchBackward", jump: true, bigDelete: true},
	SearchNext:                {name: "searchNext", jump: true, bigDelete: true},
	SearchPrev:                {name: "searchPrev", jump: true, bigDelete: true},
	SearchWordForward:         {name: "searchWordForward", jump: true, bigDelete: true},
	SearchWordBackward:        {name: "searchWordBackward", jump: true, bigDelete: true},
	SearchPartialWordForward:  {name: "searchPartialWordForward", jump: true, bigDelete: true},
	SearchPartialWordBackward: {name: "searchPartialWordBackward", jump: true, bigDelete: true},
}

// String returns the motion name.
func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kinds[k].name
}

// Type returns how operators treat the motion.
func (k Kind) Type() Type {
	if k >= kindCount {
		return Exclusive
	}
	return kinds[k].typ
}

// IsJump reports whether the motion records a jump.
func (k Kind) IsJump() bool {
	return k < kindCount && kinds[k].jump
}

// IsVertical reports whether the motion keeps the desired column.
func (k Kind) IsVertical() bool {
	return k < kindCount && kinds[k].vertical
}

// AlwaysBigDelete reports whether a delete over this motion goes to the
// numbered registers even when it spans less than a line.
func (k Kind) AlwaysBigDelete() bool {
	return k < kindCount && kinds[k].bigDelete
}

// IsSearch reports whether the motion is computed by the search package.
func (k Kind) IsSearch() bool {
	return k >= SearchForward && k <= SearchPartialWordBackward
}

// IsFind reports whether k is one of f, F, t, T.
func (k Kind) IsFind() bool {
	return k >= FindForward && k <= TillBackward
}

// NeedsChar reports whether the motion takes a character operand.
func (k Kind) NeedsChar() bool {
	return k.IsFind() || k == MarkLine || k == MarkExact
}
