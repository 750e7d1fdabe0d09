package key

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// prefix returns the notation prefix such as "C-S-".
func (m Modifier) prefix() string {
	var b []byte
	if m.Has(ModCtrl) {
		b = append(b, "C-"...)
	}
	if m.Has(ModAlt) {
		b = append(b, "A-"...)
	}
	if m.Has(ModMeta) {
		b = append(b, "D-"...)
	}
	if m.Has(ModShift) {
		b = append(b, "S-"...)
	}
	return string(b)
}

func modifierFor(c byte) (Modifier, bool) {
	switch c {
	case 'c', 'C':
		return ModCtrl, true
	case 'a', 'A', 'm', 'M':
		return ModAlt, true
	case 'd', 'D':
		return ModMeta, true
	case 's', 'S':
		return ModShift, true
	}
	return ModNone, false
}
