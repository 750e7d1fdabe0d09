package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a key. Character keys use KeyRune with Event.Rune set.
type Key uint8

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyRune
)

// names holds the canonical notation name of each special key.
var names = map[Key]string{
	KeyEscape:    "Esc",
	KeyEnter:     "CR",
	KeyTab:       "Tab",
	KeyBackspace: "BS",
	KeyDelete:    "Del",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// aliases maps lower-case notation names to keys.
var aliases = map[string]Key{
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"cr":        KeyEnter,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"nl":        KeyEnter,
	"tab":       KeyTab,
	"bs":        KeyBackspace,
	"backspace": KeyBackspace,
	"del":       KeyDelete,
	"delete":    KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// runeAliases maps notation names that stand for printable characters.
var runeAliases = map[string]rune{
	"space":  ' ',
	"lt":     '<',
	"bar":    '|',
	"bslash": '\\',
}

// String returns the key's notation name.
func (k Key) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	}
	return fmt.Sprintf("Key(%d)", k)
}

// lookup resolves a notation name, case-insensitively.
func lookup(name string) (Key, rune, bool) {
	lower := strings.ToLower(name)
	if k, ok := aliases[lower]; ok {
		return k, 0, true
	}
	if r, ok := runeAliases[lower]; ok {
		return KeyRune, r, true
	}
	if rest, ok := strings.CutPrefix(lower, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 12 {
			return KeyF1 + Key(n-1), 0, true
		}
	}
	return KeyNone, 0, false
}
