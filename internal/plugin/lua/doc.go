// Package lua runs :lua chunks on gopher-lua.
//
// A State is a sandboxed interpreter: only the base, table, string and
// math libraries are open, the loaders (dofile, loadfile, load,
// loadstring, require) are removed, print writes into a buffer the caller
// drains, and every chunk runs under a timeout.
//
// A Scripter binds a State to an ex executor and installs the "vim"
// module:
//
//	vim.cmd("2,3d")              -- run a command line
//	vim.eval("line('$')")        -- evaluate an expression
//	vim.g.count = 3              -- g: variables
//	vim.o.tabstop                -- options
//	vim.fn.toupper("abc")        -- builtin functions
//	vim.api.nvim_get_current_line()
//
// The Scripter satisfies ex.Scripter, so ":lua" and ":lua =expr" reach it
// once it is passed to ex.WithScripter.
package lua
