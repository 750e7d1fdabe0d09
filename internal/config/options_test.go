package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine"
)

func TestOptionsSet(t *testing.T) {
	tests := []struct {
		arg   string
		check func(t *testing.T, o *Options)
	}{
		{"ts=4", func(t *testing.T, o *Options) { assert.Equal(t, 4, o.TabStop) }},
		{"tabstop:2", func(t *testing.T, o *Options) { assert.Equal(t, 2, o.TabStop) }},
		{"sw+=2", func(t *testing.T, o *Options) { assert.Equal(t, 10, o.ShiftWidth) }},
		{"sw-=3", func(t *testing.T, o *Options) { assert.Equal(t, 5, o.ShiftWidth) }},
		{"ic", func(t *testing.T, o *Options) { assert.True(t, o.IgnoreCase) }},
		{"nows", func(t *testing.T, o *Options) { assert.False(t, o.WrapScan) }},
		{"invws", func(t *testing.T, o *Options) { assert.False(t, o.WrapScan) }},
		{"ws!", func(t *testing.T, o *Options) { assert.False(t, o.WrapScan) }},
		{"ve+=block", func(t *testing.T, o *Options) { assert.Equal(t, "block", o.VirtualEdit) }},
		{"ww+=h", func(t *testing.T, o *Options) { assert.Equal(t, "b,s,h", o.WhichWrap) }},
		{"ww-=s", func(t *testing.T, o *Options) { assert.Equal(t, "b", o.WhichWrap) }},
		{"ww^=l", func(t *testing.T, o *Options) { assert.Equal(t, "l,b,s", o.WhichWrap) }},
		{"sel=exclusive", func(t *testing.T, o *Options) { assert.Equal(t, "exclusive", o.Selection) }},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			o := Defaults()
			_, err := o.Set(tt.arg)
			require.NoError(t, err)
			tt.check(t, &o)
		})
	}
}

func TestOptionsQuery(t *testing.T) {
	o := Defaults()
	out, err := o.Set("ts?")
	require.NoError(t, err)
	assert.Equal(t, "  tabstop=8", out)

	out, err = o.Set("ic?")
	require.NoError(t, err)
	assert.Equal(t, "noignorecase", out)

	out, err = o.Set("ts")
	require.NoError(t, err)
	assert.Equal(t, "  tabstop=8", out)
}

func TestOptionsResetAndChanged(t *testing.T) {
	o := Defaults()
	_, _ = o.Set("ts=3")
	_, _ = o.Set("ic")
	assert.ElementsMatch(t, []string{"tabstop=3", "ignorecase"}, o.Changed())

	_, err := o.Set("ts&")
	require.NoError(t, err)
	assert.Equal(t, 8, o.TabStop)
}

func TestOptionsErrors(t *testing.T) {
	o := Defaults()

	_, err := o.Set("bogus")
	var nf *engine.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, engine.NotFoundOption, nf.Kind)

	_, err = o.Set("ts=abc")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)

	_, err = o.Set("ic=1")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)

	_, err = o.Set("ts!")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestOptionsHelpers(t *testing.T) {
	o := Defaults()
	assert.True(t, o.WrapsWith("b"))
	assert.False(t, o.WrapsWith("l"))

	_, ok := o.ClipboardUnnamed()
	assert.False(t, ok)
	o.Clipboard = "unnamedplus"
	r, ok := o.ClipboardUnnamed()
	assert.True(t, ok)
	assert.Equal(t, '+', r)

	assert.Equal(t, map[rune]rune{'(': ')', '{': '}', '[': ']'}, o.Pairs())

	o.VirtualEdit = "all"
	assert.True(t, o.HasVirtualEdit("onemore"))

	assert.False(t, o.IgnoreCaseFor("abc"))
	o.IgnoreCase = true
	o.SmartCase = true
	assert.True(t, o.IgnoreCaseFor("abc"))
	assert.False(t, o.IgnoreCaseFor("Abc"))
}

func TestOptionsSetValue(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.SetValue("tabstop", int64(3)))
	require.NoError(t, o.SetValue("ignorecase", "true"))
	require.NoError(t, o.SetValue("whichwrap", []any{"h", "l"}))
	assert.Equal(t, 3, o.TabStop)
	assert.True(t, o.IgnoreCase)
	assert.Equal(t, "h,l", o.WhichWrap)

	assert.ErrorIs(t, o.SetValue("tabstop", []any{}), ErrTypeMismatch)
	assert.Contains(t, OptionNames(), "virtualedit")
}
