package dispatcher

import (
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
)

// keyHandler consumes one key in a mode.
type keyHandler func(m *Machine, e key.Event) DispatchResult

// router picks the key handler for the current mode.
type router struct {
	routes map[mode.Mode]keyHandler
}

func newRouter() *router {
	return &router{routes: map[mode.Mode]keyHandler{
		mode.Normal:          (*Machine).normalKey,
		mode.OperatorPending: (*Machine).normalKey,
		mode.InsertNormal:    (*Machine).normalKey,
		mode.Visual:          (*Machine).visualKey,
		mode.InsertVisual:    (*Machine).visualKey,
		mode.Select:          (*Machine).selectKey,
		mode.InsertSelect:    (*Machine).selectKey,
		mode.Insert:          (*Machine).insertKey,
		mode.Replace:         (*Machine).insertKey,
		mode.CommandLine:     (*Machine).cmdlineKey,
	}}
}

func (r *router) route(md mode.Mode) (keyHandler, bool) {
	h, ok := r.routes[md]
	return h, ok
}
