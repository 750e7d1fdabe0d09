package mode

import "errors"

// ErrStackEmpty is returned by Pop when only the base mode remains.
var ErrStackEmpty = errors.New("mode stack is empty")

// State is one stack entry.
type State struct {
	Mode Mode
	Sub  SubMode
}

// ChangeFunc is called after the current state changes.
type ChangeFunc func(from, to State)

// Stack tracks the current mode and the modes to return to. The bottom
// entry is always present.
type Stack struct {
	entries   []State
	callbacks []ChangeFunc
}

// NewStack returns a stack in normal mode.
func NewStack() *Stack {
	return &Stack{entries: []State{{Mode: Normal}}}
}

// Current returns the top entry.
func (s *Stack) Current() State {
	return s.entries[len(s.entries)-1]
}

// Mode returns the current mode.
func (s *Stack) Mode() Mode {
	return s.Current().Mode
}

// Sub returns the current sub mode.
func (s *Stack) Sub() SubMode {
	return s.Current().Sub
}

// Depth returns the number of entries.
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Below returns the entry under the top, or the top itself at the base.
func (s *Stack) Below() State {
	if len(s.entries) < 2 {
		return s.Current()
	}
	return s.entries[len(s.entries)-2]
}

// Push enters m on top of the current mode.
func (s *Stack) Push(m Mode, sub SubMode) {
	from := s.Current()
	s.entries = append(s.entries, State{Mode: m, Sub: sub})
	s.notify(from)
}

// Pop returns to the mode below the top.
func (s *Stack) Pop() (State, error) {
	if len(s.entries) < 2 {
		return s.Current(), ErrStackEmpty
	}
	from := s.Current()
	s.entries = s.entries[:len(s.entries)-1]
	s.notify(from)
	return from, nil
}

// Switch replaces the top entry.
func (s *Stack) Switch(m Mode, sub SubMode) {
	from := s.Current()
	s.entries[len(s.entries)-1] = State{Mode: m, Sub: sub}
	s.notify(from)
}

// Reset drops every entry and returns to normal mode.
func (s *Stack) Reset() {
	from := s.Current()
	s.entries = s.entries[:1]
	s.entries[0] = State{Mode: Normal}
	s.notify(from)
}

// Contains reports whether m is anywhere on the stack.
func (s *Stack) Contains(m Mode) bool {
	for _, e := range s.entries {
		if e.Mode == m {
			return true
		}
	}
	return false
}

// OnChange registers fn and returns a function that removes it.
func (s *Stack) OnChange(fn ChangeFunc) func() {
	s.callbacks = append(s.callbacks, fn)
	i := len(s.callbacks) - 1
	return func() {
		if i < len(s.callbacks) {
			s.callbacks[i] = nil
		}
	}
}

func (s *Stack) notify(from State) {
	to := s.Current()
	if from == to {
		return
	}
	for _, cb := range s.callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}
