package search

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheExpiration = 10 * time.Minute
	cacheCleanup    = 30 * time.Minute

	// matchGroup names the capture that \zs and \ze delimit.
	matchGroup = "vimcorezs"
)

// Pattern is a compiled Vim search pattern.
type Pattern struct {
	Source string
	re     *regexp.Regexp
	group  int
}

// Regexp returns the translated regular expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// Matches returns every match in s as [start, end) pairs, honoring \zs
// and \ze.
func (p *Pattern) Matches(s string) [][2]int {
	all := p.re.FindAllStringSubmatchIndex(s, -1)
	out := make([][2]int, 0, len(all))
	for _, m := range all {
		if p.group > 0 && m[2*p.group] >= 0 {
			out = append(out, [2]int{m[2*p.group], m[2*p.group+1]})
			continue
		}
		out = append(out, [2]int{m[0], m[1]})
	}
	return out
}

// Submatches returns every match in s with its capture groups. Element 0
// of each match is the match itself, honoring \zs and \ze; element n is
// group \n, or {-1, -1} when the group did not take part.
func (p *Pattern) Submatches(s string) [][][2]int {
	all := p.re.FindAllStringSubmatchIndex(s, -1)
	out := make([][][2]int, 0, len(all))
	for _, m := range all {
		groups := [][2]int{{m[0], m[1]}}
		if p.group > 0 && m[2*p.group] >= 0 {
			groups[0] = [2]int{m[2*p.group], m[2*p.group+1]}
		}
		for g := 1; g < len(m)/2; g++ {
			if g != p.group {
				groups = append(groups, [2]int{m[2*g], m[2*g+1]})
			}
		}
		out = append(out, groups)
	}
	return out
}

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

// Cache memoizes compiled patterns. Entries expire after ten minutes idle.
type Cache struct {
	c *gocache.Cache
}

// NewCache creates an empty pattern cache.
func NewCache() *Cache {
	return &Cache{c: gocache.New(cacheExpiration, cacheCleanup)}
}

// Compile translates and compiles pattern, consulting the cache first.
func (c *Cache) Compile(pattern string, ignoreCase bool) (*Pattern, error) {
	key := "C:" + pattern
	if ignoreCase {
		key = "I:" + pattern
	}
	if c != nil {
		if v, ok := c.c.Get(key); ok {
			if p, ok := v.(*Pattern); ok {
				return p, nil
			}
		}
	}
	p, err := Compile(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.c.SetDefault(key, p)
	}
	return p, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int { return c.c.ItemCount() }

// Compile translates a Vim pattern to RE2 syntax and compiles it.
// ignoreCase is the default before any \c or \C in the pattern.
func Compile(pattern string, ignoreCase bool) (*Pattern, error) {
	expr, fold, zs := Translate(pattern, ignoreCase)
	if fold {
		expr = "(?i)" + expr
	}
	expr = "(?m)" + expr
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("E383: Invalid search string: %s: %w", pattern, err)
	}
	p := &Pattern{Source: pattern, re: re}
	if zs {
		p.group = re.SubexpIndex(matchGroup)
	}
	return p, nil
}

type magic uint8

const (
	veryNoMagic magic = iota
	noMagic
	magicOn
	veryMagic
)

// Translate converts Vim pattern syntax to RE2. It reports the effective
// case folding and whether \zs or \ze was used.
func Translate(pattern string, ignoreCase bool) (expr string, fold bool, zs bool) {
	var b strings.Builder
	mode := magicOn
	fold = ignoreCase
	hasZs := strings.Contains(pattern, `\zs`)
	hasZe := strings.Contains(pattern, `\ze`)
	zs = hasZs || hasZe
	if zs && !hasZs {
		b.WriteString("(?P<" + matchGroup + ">")
	}

	special := func(c byte) bool {
		switch mode {
		case veryMagic:
			return strings.IndexByte("()|+?={}<>@*.[~^$", c) >= 0
		case magicOn:
			return strings.IndexByte("*.[~^$", c) >= 0
		case noMagic:
			return c == '^' || c == '$'
		default:
			return false
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		escaped := false
		if c == '\\' && i+1 < len(pattern) {
			i++
			c = pattern[i]
			escaped = true
			switch c {
			case 'c':
				fold = true
				continue
			case 'C':
				fold = false
				continue
			case 'v':
				mode = veryMagic
				continue
			case 'm':
				mode = magicOn
				continue
			case 'M':
				mode = noMagic
				continue
			case 'V':
				mode = veryNoMagic
				continue
			case 'z':
				if i+1 < len(pattern) {
					switch pattern[i+1] {
					case 's':
						i++
						b.WriteString("(?P<" + matchGroup + ">")
						continue
					case 'e':
						i++
						b.WriteString(")")
						continue
					}
				}
			case '%':
				if i+1 < len(pattern) && pattern[i+1] == '(' {
					i++
					b.WriteString("(?:")
					continue
				}
			case 'n':
				b.WriteString(`\n`)
				continue
			case 't':
				b.WriteString(`\t`)
				continue
			case 's', 'S', 'd', 'D', 'w', 'W':
				b.WriteByte('\\')
				b.WriteByte(c)
				continue
			case 'a':
				b.WriteString(`[A-Za-z]`)
				continue
			case 'A':
				b.WriteString(`[^A-Za-z]`)
				continue
			case 'l':
				b.WriteString(`[a-z]`)
				continue
			case 'L':
				b.WriteString(`[^a-z]`)
				continue
			case 'u':
				b.WriteString(`[A-Z]`)
				continue
			case 'U':
				b.WriteString(`[^A-Z]`)
				continue
			case 'x':
				b.WriteString(`[0-9A-Fa-f]`)
				continue
			case 'h':
				b.WriteString(`[A-Za-z_]`)
				continue
			case 'k', 'i', 'f', 'p':
				b.WriteString(`\S`)
				continue
			}
		}

		// A character is an operator when it is special in the current mode
		// and unescaped, or not special and escaped.
		op := special(c) != escaped
		if !op {
			writeLiteral(&b, c)
			continue
		}
		switch c {
		case '(':
			b.WriteByte('(')
		case ')', '|', '+', '*', '.', '^', '$':
			b.WriteByte(c)
		case '?', '=':
			b.WriteByte('?')
		case '<', '>':
			b.WriteString(`\b`)
		case '~':
			// Last substitute string is not tracked here; match it literally.
			b.WriteString(`~`)
		case '{':
			j := strings.IndexByte(pattern[i:], '}')
			if j < 0 {
				writeLiteral(&b, c)
				continue
			}
			body := pattern[i+1 : i+j]
			body = strings.TrimSuffix(body, `\`)
			i += j
			lazy := strings.HasPrefix(body, "-")
			body = strings.TrimPrefix(body, "-")
			switch {
			case body == "":
				b.WriteString("*")
			case strings.HasPrefix(body, ","):
				b.WriteString("{0" + body + "}")
			default:
				b.WriteString("{" + body + "}")
			}
			if lazy {
				b.WriteByte('?')
			}
		case '[':
			j := classEnd(pattern, i)
			if j < 0 {
				writeLiteral(&b, c)
				continue
			}
			b.WriteString(pattern[i : j+1])
			i = j
		case '@':
			// Lookaround is unsupported by RE2; drop the operator.
		default:
			writeLiteral(&b, c)
		}
	}
	if hasZs && !hasZe {
		b.WriteString(")")
	}
	return b.String(), fold, zs
}

// classEnd returns the index of the ']' closing the class opened at i.
func classEnd(p string, i int) int {
	j := i + 1
	if j < len(p) && p[j] == '^' {
		j++
	}
	if j < len(p) && p[j] == ']' {
		j++
	}
	for ; j < len(p); j++ {
		switch p[j] {
		case '\\':
			j++
		case ']':
			return j
		}
	}
	return -1
}

func writeLiteral(b *strings.Builder, c byte) {
	if strings.IndexByte(`\.+*?()|[]{}^$`, c) >= 0 {
		b.WriteByte('\\')
	}
	b.WriteByte(c)
}
