// Package vim parses Normal and Visual mode key sequences into commands.
//
// The grammar is
//
//	[count]["x][operator][count][v|V|CTRL-V](motion|text-object|operator)
//	[count]["x]command[char]
//
// A Parser consumes one key.Event at a time and reports StatusPending while
// the command is incomplete. When it completes, the Result carries a
// Command naming the operator, motion or text object and the simple action
// to run, with the counts multiplied together. The Parser keeps no buffer
// state; evaluating the command is the dispatcher's job.
//
//	p := vim.NewParser()
//	for _, e := range key.ParseNotation(`"a2d3w`) {
//	    res := p.Parse(e)
//	    if res.Status == vim.StatusComplete {
//	        // res.Command.Operator == operator.OpDelete, Count == 6
//	    }
//	}
package vim
