package forest

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/forest/ancestry"
)

// Forest is an ordered forest below a virtual root, with a pre-order
// linearization of its nodes.
//
// The zero value is not usable; create forests with New.
type Forest struct {
	props
	nodes  map[ID]*node        // arena, including the virtual root
	linear []*node             // pre-order linearization, excluding the virtual root
	anc    *ancestry.Index[ID] // LCA oracle for subtree boundaries
	rec    *recorder           // non-nil while recording deltas
}

// New creates an empty forest, consisting of the virtual root only.
func New(opts ...Option) *Forest {
	f := &Forest{}
	for _, option := range opts {
		f.props = option.config(f.props)
	}
	f.nodes = make(map[ID]*node, f.capacity+1)
	f.linear = make([]*node, 0, f.capacity)
	f.nodes[Root] = &node{id: Root, parent: NoParent, index: -1}
	f.anc = ancestry.New(Root, ancestry.Capacity(f.capacity))
	if f.recording {
		f.BeginRecord()
	}
	return f
}

// Option is a type to help initializing forests at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	capacity  int
	recording bool
}

// Capacity pre-sizes a forest for n nodes.
//
//	f := forest.New(forest.Capacity(1000))
func Capacity(n int) Option {
	conf := func(p props) props {
		if n < 0 {
			n = 0
		}
		p.capacity = n
		return p
	}
	return Option{config: conf}
}

// Recording lets a new forest start recording deltas immediately,
// as if BeginRecord had been called.
func Recording() Option {
	conf := func(p props) props {
		p.recording = true
		return p
	}
	return Option{config: conf}
}

// --- Mutations -------------------------------------------------------------

// Insert creates a node for id as the last child of the virtual root.
// It is appended to the end of the linearization.
func (f *Forest) Insert(id ID) error {
	const op = "insert"
	if id == Root || id == NoParent {
		return fail(op, id, ErrInvalidArgument, "ID is reserved")
	}
	if _, exists := f.nodes[id]; exists {
		return fail(op, id, ErrInvalidArgument, "node already exists")
	}
	n := &node{id: id, parent: Root, index: len(f.linear)}
	f.linear = append(f.linear, n)
	f.nodes[id] = n
	root := f.nodes[Root]
	root.children = root.children.insertAt(len(root.children), id)
	f.anc.Register(id, Root)
	tracer().Debugf("inserted %d at %d", id, n.index)
	f.touch(n)
	f.flush()
	return nil
}

// Reparent hangs the subtree of id below parent, as the child whose slot
// is determined by the current position of id. It is a no-op if parent
// already is the parent of id.
//
// If the subtree already sits at the position this slot implies for the
// linearization, no position changes. This is the case after a client
// placed the node with Reposition. Otherwise the subtree is moved as a
// block to that position and the shifted range is renumbered.
func (f *Forest) Reparent(id, parent ID) error {
	const op = "reparent"
	n, err := f.live(op, id)
	if err != nil {
		return err
	}
	p, ok := f.nodes[parent]
	if !ok {
		return fail(op, id, ErrNotFound, "parent %d does not exist", parent)
	}
	if n.parent == parent {
		return nil
	}
	if parent == id {
		return fail(op, id, ErrInvalidArgument, "node cannot be its own parent")
	}
	last, err := f.lastDescendant(op, n)
	if err != nil {
		return err
	}
	if p.index > n.index && p.index <= last {
		return fail(op, id, ErrInvalidArgument, "parent %d is a descendant", parent)
	}
	for i := n.index; i <= last; i++ {
		f.anc.Invalidate(f.linear[i].id)
	}
	if err = f.detach(op, n); err != nil {
		return err
	}
	f.attach(n, p)
	f.touch(n)
	f.settle(n, last-n.index+1)
	tracer().Debugf("reparented %d below %d", id, parent)
	f.flush()
	return nil
}

// Reposition moves the node id to position toIndex of the linearization.
// Only leaves may be moved. The new parent of the node is the parent of
// the node which follows it after the move, or the virtual root if the
// node ends up last.
func (f *Forest) Reposition(id ID, toIndex int) error {
	const op = "reposition"
	n, err := f.live(op, id)
	if err != nil {
		return err
	}
	if len(n.children) > 0 {
		return fail(op, id, ErrPrecondition, "node has %d children", len(n.children))
	}
	if toIndex < 0 || toIndex >= len(f.linear) {
		return fail(op, id, ErrInvalidArgument, "index %d out of range [0,%d)", toIndex, len(f.linear))
	}
	from := n.index
	if from == toIndex {
		return nil
	}
	// detach before renumbering: binary search relies on current positions
	if err = f.detach(op, n); err != nil {
		return err
	}
	to := toIndex // insertion point, counted before the move
	if from < toIndex {
		to = toIndex + 1
	}
	p := f.nodes[Root]
	if to < len(f.linear) {
		p = f.nodes[f.linear[to].parent]
	}
	f.moveBlock(from, 1, to)
	f.anc.Invalidate(n.id)
	f.attach(n, p)
	f.touch(n)
	tracer().Debugf("repositioned %d from %d to %d below %d", id, from, toIndex, p.id)
	f.flush()
	return nil
}

// PromoteAndRemove removes the node id. If it has children, its first child
// takes its place and adopts the remaining children, in order.
// All subsequent positions of the linearization shift down by one.
func (f *Forest) PromoteAndRemove(id ID) error {
	const op = "remove"
	n, err := f.live(op, id)
	if err != nil {
		return err
	}
	parent := f.nodes[n.parent]
	if len(n.children) == 0 {
		if err = f.detach(op, n); err != nil {
			return err
		}
	} else {
		last, err := f.lastDescendant(op, n)
		if err != nil {
			return err
		}
		pos, found := parent.children.search(n.index, f.nodes)
		if !found {
			return fail(op, id, ErrInvariant, "node not listed as child of %d", parent.id)
		}
		for i := n.index; i <= last; i++ {
			f.anc.Invalidate(f.linear[i].id)
		}
		first := f.nodes[n.children[0]]
		first.parent = parent.id
		f.anc.SetParent(first.id, parent.id)
		f.touch(first)
		for _, cid := range n.children[1:] {
			c := f.nodes[cid]
			c.parent = first.id
			first.children = append(first.children, cid)
			f.anc.SetParent(cid, first.id)
			f.touch(c)
		}
		n.children = nil
		parent.children[pos] = first.id // first.index == n.index+1 keeps the order
		tracer().Debugf("promoted %d into place of %d", first.id, id)
	}
	f.anc.Remove(id)
	copy(f.linear[n.index:], f.linear[n.index+1:])
	f.linear[len(f.linear)-1] = nil
	f.linear = f.linear[:len(f.linear)-1]
	f.renumber(n.index, len(f.linear))
	delete(f.nodes, id)
	tracer().Debugf("removed %d", id)
	f.flush()
	return nil
}

// --- Internals -------------------------------------------------------------

// live returns the node for id. The virtual root is not a valid target.
func (f *Forest) live(op string, id ID) (*node, error) {
	if id == Root {
		return nil, fail(op, id, ErrInvalidArgument, "cannot operate on the virtual root")
	}
	n, ok := f.nodes[id]
	if !ok {
		return nil, fail(op, id, ErrNotFound, "")
	}
	return n, nil
}

// detach removes n from the children of its parent, using binary search
// on the current position of n.
func (f *Forest) detach(op string, n *node) error {
	p := f.nodes[n.parent]
	pos, found := p.children.search(n.index, f.nodes)
	if !found || p.children[pos] != n.id {
		return fail(op, n.id, ErrInvariant, "node not listed as child of %d", p.id)
	}
	p.children = p.children.removeAt(pos)
	return nil
}

// attach inserts n into the children of p, keeping them ordered by position.
func (f *Forest) attach(n *node, p *node) {
	pos, _ := p.children.search(n.index, f.nodes)
	p.children = p.children.insertAt(pos, n.id)
	n.parent = p.id
	f.anc.SetParent(n.id, p.id)
}

// settle moves the subtree block of n (size entries, starting at n.index)
// to the position its slot among the children of its parent implies.
func (f *Forest) settle(n *node, size int) {
	p := f.nodes[n.parent]
	pos, _ := p.children.search(n.index, f.nodes)
	target := p.index + 1
	if pos > 0 {
		// the children lists are exact, whereas the LCA oracle needs all
		// subtrees to be contiguous, which the block of n may not be yet
		target = f.rightmostLeaf(f.nodes[p.children[pos-1]]).index + 1
	}
	f.moveBlock(n.index, size, target)
}

// moveBlock moves linear[from:from+size] in front of position to, which is
// counted before the move, and renumbers the affected range.
func (f *Forest) moveBlock(from, size, to int) {
	if to >= from && to <= from+size {
		return
	}
	block := make([]*node, size)
	copy(block, f.linear[from:from+size])
	if to < from {
		copy(f.linear[to+size:], f.linear[to:from])
		copy(f.linear[to:], block)
		f.renumber(to, from+size)
		return
	}
	copy(f.linear[from:], f.linear[from+size:to])
	copy(f.linear[to-size:], block)
	f.renumber(from, to)
}

// renumber sets the index of every node in linear[from:to].
func (f *Forest) renumber(from, to int) {
	for i := from; i < to; i++ {
		if n := f.linear[i]; n.index != i {
			n.index = i
			f.touch(n)
		}
	}
}

// rightmostLeaf follows last children down from n.
func (f *Forest) rightmostLeaf(n *node) *node {
	for {
		ch, ok := n.children.last()
		if !ok {
			return n
		}
		n = f.nodes[ch]
	}
}
