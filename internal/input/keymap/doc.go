// Package keymap holds key mappings: {lhs} key sequences that stand for
// {rhs} sequences in some set of modes, as defined by :map and friends.
//
// # Modes
//
// Each mapping applies in a set of [Modes]. The command that defines it
// picks the set: :map covers Normal, Visual, Select and Operator-pending,
// :nmap only Normal, :map! Insert and Command-line, and so on.
//
// # Lookup
//
// A Map keeps one prefix tree per mode. [Map.Lookup] tells the caller
// whether the keys typed so far complete a mapping and whether a longer
// mapping starts with them, which is all a key loop needs to decide
// between waiting, expanding and passing keys through:
//
//	mp, exact, longer := maps.Lookup(keymap.Normal, typed)
//	switch {
//	case longer:
//	    // wait for more keys
//	case exact:
//	    // feed mp.To
//	}
package keymap
