package lua

import (
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals load code from disk or from strings outside the chunk
// being run.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// safeLibraries have no file, process or debug access.
var safeLibraries = []lua.LGFunction{
	lua.OpenBase,
	lua.OpenTable,
	lua.OpenString,
	lua.OpenMath,
}

// openSafeLibraries opens safeLibraries. Each opener pushes the module
// table it registers; it is popped so chunks start on an empty stack.
func openSafeLibraries(L *lua.LState) {
	for _, open := range safeLibraries {
		L.Pop(open(L))
	}
}

// installSandbox removes the loaders and sends print to out.
func installSandbox(L *lua.LState, out io.Writer) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		_, _ = io.WriteString(out, strings.Join(parts, "\t")+"\n")
		return 0
	}))
}
