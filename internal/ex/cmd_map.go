package ex

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
)

// mapPrefixes are the mode letters of the map command family.
var mapPrefixes = map[string]keymap.Modes{
	"n": keymap.Normal,
	"v": keymap.VisualSelect,
	"x": keymap.Visual,
	"s": keymap.Select,
	"o": keymap.OperatorPending,
	"i": keymap.Insert,
	"c": keymap.CmdLine,
}

// mapModes returns the modes a map command applies in. The letter before
// "map", "noremap", "unmap" or "mapclear" names them; the plain forms
// cover Normal, Visual, Select and Operator-pending, or Insert and
// Command-line with "!".
func mapModes(c *Context) keymap.Modes {
	name := c.def.name
	for _, suffix := range []string{"mapclear", "noremap", "unmap", "map"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if modes, ok := mapPrefixes[name]; ok {
		return modes
	}
	if c.Command.Bang {
		return keymap.InsertCmdLine
	}
	return keymap.NVO
}

// mapArgs is a parsed map command argument.
type mapArgs struct {
	from, to key.Sequence
	unique   bool
}

// parseMapArgs splits "[<special>...] {lhs} [{rhs}]". The {lhs} ends at
// the first blank; "\|" stands for "|" in both sides.
func parseMapArgs(arg string) (mapArgs, []string, error) {
	var out mapArgs
	var ignored []string
	arg = strings.TrimLeft(arg, " \t")
special:
	for strings.HasPrefix(arg, "<") {
		end := strings.IndexByte(arg, '>')
		if end < 0 {
			break
		}
		word := strings.ToLower(arg[1:end])
		switch word {
		case "unique":
			out.unique = true
		case "silent", "nowait", "special", "script", "buffer":
			ignored = append(ignored, word)
		case "expr":
			return out, nil, fmt.Errorf("%w: <expr> mappings are not supported", engine.ErrInvalidArgument)
		default:
			break special
		}
		arg = strings.TrimLeft(arg[end+1:], " \t")
	}
	lhs, rhs := arg, ""
	if i := strings.IndexAny(arg, " \t"); i >= 0 {
		lhs, rhs = arg[:i], arg[i+1:]
	}
	unbar := strings.NewReplacer(`\|`, "|")
	out.from = key.ParseNotation(unbar.Replace(lhs))
	out.to = key.ParseNotation(unbar.Replace(strings.TrimLeft(rhs, " \t")))
	return out, ignored, nil
}

// cmdMap is :map, :noremap and their mode variants. Without an argument
// it lists mappings; with only a {lhs} it lists the mappings starting
// with it.
func cmdMap(c *Context) (string, error) {
	modes := mapModes(c)
	mappings := c.state.Mappings
	args, ignored, err := parseMapArgs(c.Command.Argument)
	if err != nil {
		return "", err
	}
	if len(args.from) == 0 {
		return mappings.Format(modes, nil), nil
	}
	if len(args.to) == 0 {
		return mappings.Format(modes, args.from), nil
	}
	if args.unique && mappings.Has(modes, args.from) {
		return "", fmt.Errorf("E227: mapping already exists for %s", args.from)
	}
	if len(ignored) > 0 {
		c.logger.Debug("ignoring map arguments", "lhs", args.from.String(), "arguments", ignored)
	}
	recursive := !strings.Contains(c.def.name, "noremap")
	c.logger.Debug("defining mapping", "modes", modes.String(), "lhs", args.from.String(), "rhs", args.to.String(), "recursive", recursive)
	return "", mappings.Set(modes, args.from, args.to, recursive)
}

// cmdUnmap is :unmap and its mode variants.
func cmdUnmap(c *Context) (string, error) {
	args, _, err := parseMapArgs(c.Command.Argument)
	if err != nil {
		return "", err
	}
	return "", c.state.Mappings.Remove(mapModes(c), args.from)
}

// cmdMapClear is :mapclear and its mode variants.
func cmdMapClear(c *Context) (string, error) {
	c.state.Mappings.Clear(mapModes(c))
	return "", nil
}
