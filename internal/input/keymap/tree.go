package keymap

import "github.com/dshills/vimcore/internal/input/key"

// tree is a prefix tree of the mappings of one mode, one level per key.
type tree struct {
	root *node
}

type node struct {
	children map[key.Event]*node
	mapping  *Mapping
}

func newNode() *node {
	return &node{children: make(map[key.Event]*node)}
}

func newTree() *tree {
	return &tree{root: newNode()}
}

func (t *tree) insert(seq key.Sequence, mp Mapping) {
	n := t.root
	for _, e := range seq {
		child, ok := n.children[e]
		if !ok {
			child = newNode()
			n.children[e] = child
		}
		n = child
	}
	n.mapping = &mp
}

// find returns the node reached by seq, or nil.
func (t *tree) find(seq key.Sequence) *node {
	n := t.root
	for _, e := range seq {
		child, ok := n.children[e]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func (t *tree) get(seq key.Sequence) (Mapping, bool) {
	n := t.find(seq)
	if n == nil || n.mapping == nil {
		return Mapping{}, false
	}
	return *n.mapping, true
}

// remove deletes the mapping of seq and prunes the nodes left empty.
func (t *tree) remove(seq key.Sequence) bool {
	path := make([]*node, 0, len(seq)+1)
	path = append(path, t.root)
	n := t.root
	for _, e := range seq {
		child, ok := n.children[e]
		if !ok {
			return false
		}
		path = append(path, child)
		n = child
	}
	if n.mapping == nil {
		return false
	}
	n.mapping = nil

	for i := len(path) - 1; i > 0; i-- {
		cur := path[i]
		if cur.mapping != nil || len(cur.children) > 0 {
			break
		}
		delete(path[i-1].children, seq[i-1])
	}
	return true
}

// walk calls fn for every mapping in the tree.
func (t *tree) walk(fn func(Mapping)) {
	var visit func(n *node)
	visit = func(n *node) {
		if n.mapping != nil {
			fn(*n.mapping)
		}
		for _, child := range n.children {
			visit(child)
		}
	}
	visit(t.root)
}
