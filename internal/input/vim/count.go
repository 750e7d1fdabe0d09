package vim

// maxCount caps an accumulated count.
const maxCount = 99999999

// counter accumulates a typed count.
type counter struct {
	value  int
	active bool
}

func (c *counter) reset() {
	c.value = 0
	c.active = false
}

// digit adds r to the count. A leading '0' is not a count; it is the
// column-0 motion.
func (c *counter) digit(r rune) bool {
	if r < '0' || r > '9' || (!c.active && r == '0') {
		return false
	}
	c.active = true
	c.value = c.value*10 + int(r-'0')
	if c.value > maxCount {
		c.value = maxCount
	}
	return true
}

// get returns the typed count, or 0 when none was typed.
func (c *counter) get() int {
	if !c.active {
		return 0
	}
	return c.value
}

// combine multiplies the count before an operator with the count after it.
// Zero means no count was typed.
func combine(before, after int) int {
	switch {
	case before == 0:
		return after
	case after == 0:
		return before
	}
	n := before * after
	if n > maxCount || n/after != before {
		return maxCount
	}
	return n
}
