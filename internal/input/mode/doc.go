// Package mode defines Vim's modes and the mode stack.
//
// The stack holds the mode the user is in plus the modes to return to:
// operator-pending returns to normal or visual, CTRL-O in insert mode
// returns to insert, and so on. Visual and select modes carry a sub mode
// naming the selection shape.
package mode
