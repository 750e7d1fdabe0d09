package ex

import (
	"sort"
	"strings"
)

// handler runs one command for one caret and returns its output.
type handler func(c *Context) (string, error)

// definition is a built-in command.
type definition struct {
	// name is the full name; abbrev is the shortest accepted prefix.
	name   string
	abbrev int
	flags  Flags
	exec   Execution
	traits traits
	run    handler
}

var (
	table []*definition
	// jump runs for a bare range such as ":12".
	jump *definition
)

// define builds a definition from a name spec such as "d[elete]", where
// the part before "[" is the shortest abbreviation.
func define(spec string, flags Flags, exec Execution, tr traits, run handler) *definition {
	name, abbrev := spec, len(spec)
	if i := strings.IndexByte(spec, '['); i >= 0 {
		name = spec[:i] + strings.Trim(spec[i:], "[]")
		abbrev = i
	}
	return &definition{name: name, abbrev: abbrev, flags: flags, exec: exec, traits: tr, run: run}
}

// Flag shorthands for the table.
var (
	rangeWrite = Flags{Range: RangeOptional, Argument: ArgumentOptional, Access: Writable}
	rangeRead  = Flags{Range: RangeOptional, Argument: ArgumentOptional, Access: ReadOnly}
	plainRead  = Flags{Range: RangeForbidden, Argument: ArgumentOptional, Access: ReadOnly}
	plainList  = Flags{Range: RangeForbidden, Argument: ArgumentForbidden, Access: ReadOnly}
)

// The table is built in init because handlers reach back into the
// executor, which reads the table.
func init() {
	jump = define("", Flags{Range: RangeRequired, Argument: ArgumentForbidden, Access: ReadOnly},
		ForEachCaret, clampRange|lineZero, cmdGoto)

	table = []*definition{
		define("d[elete]", rangeWrite, ForEachCaret, 0, cmdDelete),
		define("delm[arks]", plainRead, SingleExecution, 0, cmdDeleteMarks),
		define("delc[ommand]", Flags{Range: RangeForbidden, Argument: ArgumentRequired, Access: SelfSynchronized},
			SingleExecution, 0, cmdDeleteAlias),
		define("y[ank]", rangeRead, ForEachCaret, 0, cmdYank),
		define("pu[t]", rangeWrite, SingleExecution, lineZero, cmdPut),
		define("m[ove]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: Writable},
			SingleExecution, 0, cmdMove),
		define("ma[rk]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: ReadOnly},
			SingleExecution, 0, cmdMark),
		define("marks", plainRead, SingleExecution, 0, cmdMarks),
		define("co[py]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: Writable},
			SingleExecution, 0, cmdCopy),
		define("t", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: Writable},
			SingleExecution, 0, cmdCopy),
		define("com[mand]", Flags{Range: RangeForbidden, Argument: ArgumentOptional, Access: SelfSynchronized},
			SingleExecution, takesBar, cmdDefineAlias),
		define("comc[lear]", Flags{Range: RangeForbidden, Argument: ArgumentForbidden, Access: SelfSynchronized},
			SingleExecution, 0, cmdClearAliases),
		define("j[oin]", rangeWrite, ForEachCaret, 0, cmdJoin),
		define("ju[mps]", plainList, SingleExecution, 0, cmdJumps),
		define("s[ubstitute]", rangeWrite, SingleExecution, 0, cmdSubstitute),
		define("se[t]", plainRead, SingleExecution, 0, cmdSet),
		define("sor[t]", rangeWrite, SingleExecution, wholeFile, cmdSort),
		define("g[lobal]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: SelfSynchronized},
			SingleExecution, wholeFile|takesBar, cmdGlobal),
		define("v[global]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: SelfSynchronized},
			SingleExecution, wholeFile|takesBar, cmdGlobal),
		define("norm[al]", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: SelfSynchronized, SaveVisual: true},
			SingleExecution, takesBar, cmdNormal),
		define("noh[lsearch]", plainList, SingleExecution, 0, cmdNoHighlight),
		define("let", Flags{Range: RangeForbidden, Argument: ArgumentOptional, Access: SelfSynchronized},
			SingleExecution, 0, cmdLet),
		define("unl[et]", Flags{Range: RangeForbidden, Argument: ArgumentRequired, Access: SelfSynchronized},
			SingleExecution, 0, cmdUnlet),
		define("u[ndo]", Flags{Range: RangeForbidden, Argument: ArgumentForbidden, Access: SelfSynchronized},
			SingleExecution, 0, cmdUndo),
		define("red[o]", Flags{Range: RangeForbidden, Argument: ArgumentForbidden, Access: SelfSynchronized},
			SingleExecution, 0, cmdRedo),
		define("reg[isters]", plainRead, SingleExecution, 0, cmdRegisters),
		define("di[splay]", plainRead, SingleExecution, 0, cmdRegisters),
		define("ec[ho]", Flags{Range: RangeForbidden, Argument: ArgumentOptional, Access: ReadOnly},
			SingleExecution, 0, cmdEcho),
		define("his[tory]", plainRead, SingleExecution, 0, cmdHistory),
		define("lua", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: SelfSynchronized},
			SingleExecution, takesBar, cmdLua),
		define("k", Flags{Range: RangeOptional, Argument: ArgumentRequired, Access: ReadOnly},
			SingleExecution, 0, cmdMark),
		define("p[rint]", rangeRead, SingleExecution, 0, cmdPrint),
		define("&", rangeWrite, SingleExecution, 0, cmdRepeatSubstitute),
		define("~", rangeWrite, SingleExecution, 0, cmdRepeatWithSearch),
		define("@", Flags{Range: RangeOptional, Argument: ArgumentOptional, Access: SelfSynchronized},
			SingleExecution, 0, cmdExecuteRegister),
		define("*", Flags{Range: RangeOptional, Argument: ArgumentOptional, Access: SelfSynchronized},
			SingleExecution, 0, cmdExecuteRegister),
		define("=", Flags{Range: RangeOptional, Argument: ArgumentForbidden, Access: ReadOnly},
			SingleExecution, lineZero, cmdLineNumber),
		define(">", rangeWrite, ForEachCaret, 0, cmdShift),
		define("<", rangeWrite, ForEachCaret, 0, cmdShift),
	}
	table = append(table, mapCommands()...)
}

// mapCommands defines the map, noremap, unmap and mapclear families.
func mapCommands() []*definition {
	mapFlags := Flags{Range: RangeForbidden, Argument: ArgumentOptional, Access: SelfSynchronized}
	unmapFlags := Flags{Range: RangeForbidden, Argument: ArgumentRequired, Access: SelfSynchronized}
	clearFlags := Flags{Range: RangeForbidden, Argument: ArgumentForbidden, Access: SelfSynchronized}
	var out []*definition
	for _, spec := range []string{
		"map", "nm[ap]", "vm[ap]", "xm[ap]", "smap", "om[ap]", "im[ap]", "cm[ap]",
		"no[remap]", "nn[oremap]", "vn[oremap]", "xn[oremap]", "snor[emap]", "ono[remap]", "ino[remap]", "cno[remap]",
	} {
		out = append(out, define(spec, mapFlags, SingleExecution, 0, cmdMap))
	}
	for _, spec := range []string{
		"unm[ap]", "nun[map]", "vu[nmap]", "xu[nmap]", "sunm[ap]", "ou[nmap]", "iu[nmap]", "cu[nmap]",
	} {
		out = append(out, define(spec, unmapFlags, SingleExecution, 0, cmdUnmap))
	}
	for _, spec := range []string{
		"mapc[lear]", "nmapc[lear]", "vmapc[lear]", "xmapc[lear]", "smapc[lear]", "omapc[lear]", "imapc[lear]", "cmapc[lear]",
	} {
		out = append(out, define(spec, clearFlags, SingleExecution, 0, cmdMapClear))
	}
	return out
}

// lookup finds the built-in command called name, which may be
// abbreviated. Runs of "<" or ">" name the shift commands.
func lookup(name string) (*definition, bool) {
	if name == "" {
		return jump, true
	}
	if name[0] == '<' || name[0] == '>' {
		name = name[:1]
	}
	for _, d := range table {
		if len(name) >= d.abbrev && strings.HasPrefix(d.name, name) {
			return d, true
		}
	}
	return nil, false
}

// Names returns the full names of the built-in commands, sorted.
func Names() []string {
	out := make([]string, 0, len(table))
	for _, d := range table {
		out = append(out, d.name)
	}
	sort.Strings(out)
	return out
}
