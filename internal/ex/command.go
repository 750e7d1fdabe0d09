package ex

import (
	"strings"
	"unicode"
)

// Command is one parsed invocation, such as "'<,'>s/a/b/g".
type Command struct {
	Ranges   Ranges
	Name     string
	Bang     bool
	Argument string
}

// singleCharNames are the commands whose name is punctuation.
const singleCharNames = "&~@*=!#"

// Parse splits one command line into range, name, bang and argument.
// Leading colons and blanks are skipped. An empty name means the line is a
// bare range, which jumps to a line.
func Parse(line string) (*Command, error) {
	s := strings.TrimLeft(line, " \t:")
	ranges, rest, err := ParseRange(s)
	if err != nil {
		return nil, err
	}
	rest = strings.TrimLeft(rest, " \t")
	cmd := &Command{Ranges: ranges}
	if rest == "" {
		return cmd, nil
	}

	n := nameLength(rest)
	cmd.Name, rest = rest[:n], rest[n:]
	// "ka" is ":k a".
	if len(cmd.Name) == 2 && cmd.Name[0] == 'k' {
		rest = cmd.Name[1:] + rest
		cmd.Name = "k"
	}
	if strings.HasPrefix(rest, "!") && cmd.Name != "" && cmd.Name != "!" {
		cmd.Bang = true
		rest = rest[1:]
	}
	cmd.Argument = strings.TrimLeft(rest, " \t")
	return cmd, nil
}

func nameLength(s string) int {
	c := rune(s[0])
	switch {
	case c == '<' || c == '>':
		// ">>>" shifts three times.
		n := 1
		for n < len(s) && rune(s[n]) == c {
			n++
		}
		return n
	case strings.ContainsRune(singleCharNames, c):
		return 1
	case !unicode.IsLetter(c):
		return 0
	}
	user := unicode.IsUpper(c)
	n := 1
	for n < len(s) {
		r := rune(s[n])
		if !unicode.IsLetter(r) && !(user && unicode.IsDigit(r)) {
			break
		}
		n++
	}
	return n
}

// String formats the command back to its typed form.
func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Bang {
		b.WriteByte('!')
	}
	if c.Argument != "" {
		b.WriteByte(' ')
		b.WriteString(c.Argument)
	}
	return b.String()
}

// splitBar cuts arg at the first "|" not escaped with a backslash. "\|"
// is left as it is, so patterns keep their alternation.
func splitBar(arg string) (first, rest string, ok bool) {
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '\\':
			i++
		case '|':
			return arg[:i], arg[i+1:], true
		}
	}
	return arg, "", false
}
