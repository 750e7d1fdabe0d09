package dispatcher

import (
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
)

// mappable reports whether the next key is looked up in the mappings.
// Literal operands, such as the register after CTRL-R or the character
// after "f", are never mapped.
func (m *Machine) mappable() bool {
	switch {
	case m.noremap > 0:
		return false
	case m.parser.AwaitsOperand():
		return false
	case m.insert != nil && m.insert.awaitRegister && m.modes.Mode().IsInsert():
		return false
	case m.cmdline != nil && m.cmdline.awaitRegister:
		return false
	}
	return keymap.For(m.modes.Mode()) != 0
}

// typeKey feeds e through the mappings when they apply.
func (m *Machine) typeKey(e key.Event) DispatchResult {
	if m.mappable() {
		return m.mapKey(e)
	}
	return m.feedKey(e)
}

// mapKey adds e to the held keys. They stay held while a longer mapping
// may still match.
func (m *Machine) mapKey(e key.Event) DispatchResult {
	m.mapPending = append(m.mapPending, e)
	mp, exact, longer := m.state.Mappings.Lookup(keymap.For(m.modes.Mode()), m.mapPending)
	if longer {
		return incomplete(m.Pending())
	}
	held := m.mapPending
	m.mapPending = nil
	if exact {
		return m.expand(mp)
	}
	return m.resolve(held)
}

// resolve handles held keys that no mapping matches as a whole. The
// longest mapped prefix is expanded, or else the first key goes through
// unmapped; the keys after it are typed again.
func (m *Machine) resolve(keys key.Sequence) DispatchResult {
	md := keymap.For(m.modes.Mode())
	var res DispatchResult
	n := len(keys) - 1
	for ; n > 0; n-- {
		if mp, exact, _ := m.state.Mappings.Lookup(md, keys[:n]); exact {
			res = m.expand(mp)
			break
		}
	}
	if n == 0 {
		n = 1
		res = m.feedKey(keys[0])
	}
	for _, e := range keys[n:] {
		if failed(res) {
			break
		}
		res = m.typeKey(e)
	}
	return res
}

// expand types the {rhs} of mp. A recursive mapping has its {rhs} mapped
// again, except for the first key when the {rhs} starts with the {lhs}.
func (m *Machine) expand(mp keymap.Mapping) DispatchResult {
	limit := m.config.MaxMapDepth
	if limit <= 0 {
		limit = DefaultMaxMapDepth
	}
	if m.mapDepth >= limit {
		return dispatched(Error(&engine.RecursionLimitError{What: "mapping", Limit: limit}))
	}
	m.mapDepth++
	defer func() { m.mapDepth-- }()
	m.logger.Debug("expanding mapping", "lhs", mp.From.String(), "rhs", mp.To.String(), "recursive", mp.Recursive)

	skipFirst := keymap.HasPrefix(mp.To, mp.From)
	res := dispatched(NoOp())
	for i, e := range mp.To {
		if mp.Recursive && (i > 0 || !skipFirst) {
			res = m.typeKey(e)
		} else {
			res = m.feedKey(e)
		}
		if failed(res) {
			break
		}
	}
	return res
}

// FlushMappings stops waiting for a longer mapping, as Vim does when
// 'timeoutlen' runs out: the held keys are taken as they are.
func (m *Machine) FlushMappings() DispatchResult {
	res := dispatched(NoOp())
	for len(m.mapPending) > 0 && !failed(res) {
		held := m.mapPending
		m.mapPending = nil
		if mp, exact, _ := m.state.Mappings.Lookup(keymap.For(m.modes.Mode()), held); exact {
			res = m.expand(mp)
		} else {
			res = m.resolve(held)
		}
	}
	m.mapPending = nil
	if res.Kind != Incomplete {
		res.Result.Mode = m.modes.Mode()
	}
	return res
}

func failed(res DispatchResult) bool {
	return res.Kind == Dispatched && res.Result.IsError()
}
