package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds one chunk.
const DefaultTimeout = 5 * time.Second

// State is a sandboxed Lua interpreter. It is not safe for concurrent use.
type State struct {
	L *lua.LState

	timeout time.Duration
	out     strings.Builder
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets how long one chunk may run. Zero disables the limit.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, &s.out)
	return s
}

// Exec runs code and returns the values it returns.
func (s *State) Exec(code string) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := s.L.LoadString(code)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	s.L.Push(fn)
	if err := s.doWithRecovery(func() error { return s.L.PCall(0, lua.MultRet, nil) }); err != nil {
		s.L.SetTop(top)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return nil, err
	}

	n := s.L.GetTop() - top
	results := make([]lua.LValue, n)
	for i := range n {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.SetTop(top)
	return results, nil
}

// doWithRecovery turns a panic inside the interpreter into an error.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Output returns and clears what print wrote since the last call.
func (s *State) Output() string {
	out := s.out.String()
	s.out.Reset()
	return out
}

// Close releases the interpreter. Later calls return ErrStateClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
