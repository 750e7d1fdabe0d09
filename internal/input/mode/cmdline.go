package mode

import (
	"fmt"
	"strings"
)

// MaxHistory bounds each history list, as 'history' does in Vim.
const MaxHistory = 50

// History is the list of lines entered at one kind of prompt.
type History struct {
	entries []string
	// numbers holds the entry numbers :history prints.
	numbers []int
	next    int
}

// Add appends line. An earlier identical entry is dropped first.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	for i, e := range h.entries {
		if e == line {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			h.numbers = append(h.numbers[:i], h.numbers[i+1:]...)
			break
		}
	}
	h.next++
	h.entries = append(h.entries, line)
	h.numbers = append(h.numbers, h.next)
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[1:]
		h.numbers = h.numbers[1:]
	}
}

// Entries returns the lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Last returns the newest entry.
func (h *History) Last() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Format returns the :history listing under title, marking the newest
// entry with ">".
func (h *History) Format(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "      #  %s history", title)
	for i, e := range h.entries {
		mark := " "
		if i == len(h.entries)-1 {
			mark = ">"
		}
		fmt.Fprintf(&b, "\n%s%6d  %s", mark, h.numbers[i], e)
	}
	return b.String()
}

// Line is the line edited after ":", "/" or "?".
type Line struct {
	buffer []rune
	cursor int
	prompt rune

	history *History
	// index walks history; -1 is the line being typed.
	index int
	saved []rune
}

// NewLine starts an empty line for prompt, browsing history.
func NewLine(prompt rune, history *History) *Line {
	if history == nil {
		history = &History{}
	}
	return &Line{prompt: prompt, history: history, index: -1}
}

// Prompt returns the prompt character.
func (c *Line) Prompt() rune { return c.prompt }

// Text returns the typed line.
func (c *Line) Text() string { return string(c.buffer) }

// Cursor returns the cursor position in runes.
func (c *Line) Cursor() int { return c.cursor }

// SetText replaces the line and moves the cursor to its end.
func (c *Line) SetText(s string) {
	c.buffer = []rune(s)
	c.cursor = len(c.buffer)
}

// Insert types s at the cursor.
func (c *Line) Insert(s string) {
	for _, r := range s {
		c.insertRune(r)
	}
}

func (c *Line) insertRune(r rune) {
	if c.cursor >= len(c.buffer) {
		c.buffer = append(c.buffer, r)
	} else {
		c.buffer = append(c.buffer[:c.cursor+1], c.buffer[c.cursor:]...)
		c.buffer[c.cursor] = r
	}
	c.cursor++
}

// Backspace deletes the character before the cursor. It reports false
// when the line was already empty, which cancels the command line.
func (c *Line) Backspace() bool {
	if len(c.buffer) == 0 {
		return false
	}
	if c.cursor > 0 {
		c.buffer = append(c.buffer[:c.cursor-1], c.buffer[c.cursor:]...)
		c.cursor--
	}
	return true
}

// DeleteWord deletes the word before the cursor (CTRL-W).
func (c *Line) DeleteWord() {
	i := c.cursor
	for i > 0 && c.buffer[i-1] == ' ' {
		i--
	}
	for i > 0 && c.buffer[i-1] != ' ' {
		i--
	}
	c.buffer = append(c.buffer[:i], c.buffer[c.cursor:]...)
	c.cursor = i
}

// DeleteToStart deletes everything before the cursor (CTRL-U).
func (c *Line) DeleteToStart() {
	c.buffer = append(c.buffer[:0], c.buffer[c.cursor:]...)
	c.cursor = 0
}

// MoveLeft moves the cursor one character left.
func (c *Line) MoveLeft() bool {
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// MoveRight moves the cursor one character right.
func (c *Line) MoveRight() bool {
	if c.cursor >= len(c.buffer) {
		return false
	}
	c.cursor++
	return true
}

// MoveToStart moves the cursor to the start of the line.
func (c *Line) MoveToStart() { c.cursor = 0 }

// MoveToEnd moves the cursor to the end of the line.
func (c *Line) MoveToEnd() { c.cursor = len(c.buffer) }

// HistoryPrev recalls the previous history entry.
func (c *Line) HistoryPrev() bool {
	entries := c.history.entries
	switch {
	case len(entries) == 0:
		return false
	case c.index == -1:
		c.saved = append([]rune(nil), c.buffer...)
		c.index = len(entries) - 1
	case c.index > 0:
		c.index--
	default:
		return false
	}
	c.SetText(entries[c.index])
	return true
}

// HistoryNext recalls the next history entry, returning to the typed line
// after the newest.
func (c *Line) HistoryNext() bool {
	if c.index == -1 {
		return false
	}
	c.index++
	if c.index >= len(c.history.entries) {
		c.index = -1
		c.buffer = c.saved
		c.cursor = len(c.buffer)
		c.saved = nil
		return true
	}
	c.SetText(c.history.entries[c.index])
	return true
}

// Commit adds the line to history and returns it.
func (c *Line) Commit() string {
	line := c.Text()
	c.history.Add(line)
	return line
}
