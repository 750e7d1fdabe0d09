package session

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine/search"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/ex/alias"
	"github.com/dshills/vimcore/internal/ex/expr"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/mark"
	"github.com/dshills/vimcore/internal/register"
)

// StorageKey is the key the snapshot is stored under.
const StorageKey = "session"

const snapshotVersion = 1

// ErrBadSnapshot is returned for snapshots that are not valid JSON or
// come from a newer version.
var ErrBadSnapshot = errors.New("invalid session snapshot")

// Snapshot encodes registers, marks, the jump list, variables, aliases,
// mappings, changed options, search memory and histories as JSON.
func (s *State) Snapshot() ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}

	set("version", snapshotVersion)
	set("handle", s.Handle.String())

	set("registers", []any{})
	for _, r := range s.Registers.All() {
		if register.IsClipboard(r.Name) || r.Name == register.FileName {
			continue
		}
		set("registers.-1", map[string]any{
			"name": string(r.Name),
			"text": r.Text,
			"type": r.Type.String(),
		})
	}

	set("marks", []any{})
	for _, m := range s.Marks.All() {
		set("marks.-1", map[string]any{
			"key":    string(m.Key),
			"line":   m.Line,
			"column": m.Column,
			"path":   m.Path,
		})
	}

	jumps := s.Marks.Jumps()
	set("jumps.spot", jumps.Spot())
	set("jumps.list", []any{})
	for _, j := range jumps.List() {
		set("jumps.list.-1", map[string]any{"line": j.Line, "column": j.Column, "path": j.Path})
	}

	set("variables", []any{})
	for _, name := range s.Variables.Names() {
		v, _ := s.Variables.Get(name)
		set("variables.-1", map[string]any{"name": name, "value": plain(v)})
	}

	set("aliases", []any{})
	for _, a := range s.Aliases.List("") {
		if a.Handler != nil {
			continue
		}
		set("aliases.-1", map[string]any{"name": a.Name, "nargs": a.Nargs(), "command": a.Command})
	}

	set("mappings", []any{})
	for _, mp := range s.Mappings.List(keymap.All, nil) {
		set("mappings.-1", map[string]any{
			"modes":     int(mp.Modes),
			"from":      mp.From.String(),
			"to":        mp.To.String(),
			"recursive": mp.Recursive,
		})
	}

	defaults := config.Defaults()
	set("options", map[string]any{})
	for _, name := range config.OptionNames() {
		cur, _ := s.Options.Get(name)
		orig, _ := defaults.Get(name)
		if cur != orig {
			set("options."+name, cur)
		}
	}

	if p, ok := s.Search.Pattern(search.RESearch); ok {
		set("search.pattern", p)
	}
	if p, ok := s.Search.Pattern(search.RESubst); ok {
		set("search.substitute", p)
	}
	if r, ok := s.Search.Replacement(); ok {
		set("search.replacement", r)
	}
	set("search.backward", s.Search.Dir == search.Backward)

	set("history.cmd", s.CmdHistory.Entries())
	set("history.search", s.SearchHistory.Entries())

	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return doc, nil
}

// plain converts a Value to what encoding/json writes.
func plain(v expr.Value) any {
	switch v.Kind() {
	case expr.KindNumber:
		n, _ := v.Int()
		return n
	case expr.KindString:
		s, _ := v.Text()
		return s
	}
	items := v.Items()
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = plain(item)
	}
	return out
}

func fromJSON(r gjson.Result) expr.Value {
	switch {
	case r.IsArray():
		var items []expr.Value
		for _, item := range r.Array() {
			items = append(items, fromJSON(item))
		}
		return expr.List(items...)
	case r.Type == gjson.Number:
		return expr.Number(int(r.Int()))
	}
	return expr.String(r.String())
}

// Restore loads a snapshot into s, replacing registers, marks, jumps,
// variables, aliases and mappings. Options absent from the snapshot keep their
// current values.
func (s *State) Restore(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrBadSnapshot
	}
	doc := gjson.ParseBytes(data)
	if v := doc.Get("version").Int(); v > snapshotVersion {
		return fmt.Errorf("%w: version %d", ErrBadSnapshot, v)
	}

	var errs []error

	doc.Get("registers").ForEach(func(_, r gjson.Result) bool {
		name := []rune(r.Get("name").String())
		if len(name) != 1 {
			return true
		}
		typ, ok := text.ParseSelectionType(r.Get("type").String())
		if !ok {
			typ = text.Character
		}
		s.Registers.Restore(register.Register{Name: name[0], Text: r.Get("text").String(), Type: typ})
		return true
	})

	s.Marks.Reset()
	doc.Get("marks").ForEach(func(_, m gjson.Result) bool {
		key := []rune(m.Get("key").String())
		if len(key) == 1 {
			s.Marks.Restore(mark.Mark{
				Key:    key[0],
				Line:   int(m.Get("line").Int()),
				Column: int(m.Get("column").Int()),
				Path:   m.Get("path").String(),
			})
		}
		return true
	})

	var jumps []mark.Jump
	doc.Get("jumps.list").ForEach(func(_, j gjson.Result) bool {
		jumps = append(jumps, mark.Jump{
			Line:   int(j.Get("line").Int()),
			Column: int(j.Get("column").Int()),
			Path:   j.Get("path").String(),
		})
		return true
	})
	spot := -1
	if sp := doc.Get("jumps.spot"); sp.Exists() {
		spot = int(sp.Int())
	}
	s.Marks.Jumps().Restore(jumps, spot)

	s.Variables.Clear()
	doc.Get("variables").ForEach(func(_, v gjson.Result) bool {
		s.Variables.Set(v.Get("name").String(), fromJSON(v.Get("value")))
		return true
	})

	s.Aliases.Clear()
	doc.Get("aliases").ForEach(func(_, a gjson.Result) bool {
		arg := "-nargs=" + a.Get("nargs").String() + " " + a.Get("name").String() + " " + a.Get("command").String()
		def, err := alias.Parse(arg)
		if err == nil {
			err = s.Aliases.Define(def.Alias, true)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("alias %s: %w", a.Get("name").String(), err))
		}
		return true
	})

	s.Mappings.Clear(keymap.All)
	doc.Get("mappings").ForEach(func(_, mp gjson.Result) bool {
		modes := keymap.Modes(mp.Get("modes").Int()) & keymap.All
		from := key.ParseNotation(mp.Get("from").String())
		to := key.ParseNotation(mp.Get("to").String())
		if err := s.Mappings.Set(modes, from, to, mp.Get("recursive").Bool()); err != nil {
			errs = append(errs, fmt.Errorf("mapping %s: %w", mp.Get("from").String(), err))
		}
		return true
	})

	doc.Get("options").ForEach(func(k, v gjson.Result) bool {
		if err := s.Options.SetValue(k.String(), v.Value()); err != nil {
			errs = append(errs, fmt.Errorf("option %s: %w", k.String(), err))
		}
		return true
	})

	if p := doc.Get("search.substitute"); p.Exists() {
		s.Search.Save(search.RESubst, p.String())
	}
	if p := doc.Get("search.pattern"); p.Exists() {
		s.Search.Save(search.RESearch, p.String())
	}
	if r := doc.Get("search.replacement"); r.Exists() {
		s.Search.SetReplacement(r.String())
	}
	s.Search.Dir = search.Forward
	if doc.Get("search.backward").Bool() {
		s.Search.Dir = search.Backward
	}
	s.Search.Highlight = false

	doc.Get("history.cmd").ForEach(func(_, h gjson.Result) bool {
		s.CmdHistory.Add(h.String())
		return true
	})
	doc.Get("history.search").ForEach(func(_, h gjson.Result) bool {
		s.SearchHistory.Add(h.String())
		return true
	})

	s.logger.Debug("session restored", "handle", s.Handle.String())
	return errors.Join(errs...)
}

// Save writes the snapshot to st.
func (s *State) Save(st Storage) error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := st.Put(s.Handle, StorageKey, data); err != nil {
		return fmt.Errorf("saving session %s: %w", s.Handle, err)
	}
	return nil
}

// Load reads the snapshot for h from st into s and adopts h.
func (s *State) Load(st Storage, h Handle) error {
	data, err := st.Get(h, StorageKey)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", h, err)
	}
	if err := s.Restore(data); err != nil {
		return err
	}
	s.Handle = h
	return nil
}
