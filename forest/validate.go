package forest

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Validate checks the structural invariants of the forest and returns an
// ErrInvariant error describing the first violation found, or nil.
//
// Checked are: index coherence of the linearization (no gaps, position i
// holds a node with index i), bidirectional parent/children consistency,
// ordering of children, absence of self-parenting and cycles, equality of
// the linearization with a pre-order walk from the virtual root, equality of
// map size and tree size, and the subtree boundary of every node.
//
// Validate walks the whole forest and is meant for tests and debugging.
func (f *Forest) Validate() error {
	const op = "validate"
	for i, n := range f.linear {
		if n == nil {
			return fail(op, Root, ErrInvariant, "gap in linearization at %d", i)
		}
		if n.index != i {
			return fail(op, n.id, ErrInvariant, "node at position %d has index %d", i, n.index)
		}
		if f.nodes[n.id] != n {
			return fail(op, n.id, ErrInvariant, "node at position %d is not the mapped node", i)
		}
	}
	for id, n := range f.nodes {
		if n.id != id {
			return fail(op, id, ErrInvariant, "mapped to node %d", n.id)
		}
		if err := f.validateChildren(op, n); err != nil {
			return err
		}
	}
	for id, n := range f.nodes {
		if id == Root {
			continue
		}
		if n.parent == id {
			return fail(op, id, ErrInvariant, "node is parented to itself")
		}
		p, ok := f.nodes[n.parent]
		if !ok {
			return fail(op, id, ErrInvariant, "parent %d does not exist", n.parent)
		}
		if pos, found := p.children.search(n.index, f.nodes); !found || p.children[pos] != id {
			return fail(op, id, ErrInvariant, "node is not listed as child of its parent %d", p.id)
		}
	}
	if err := f.validatePreorder(op); err != nil {
		return err
	}
	for _, n := range f.linear {
		if _, err := f.lastDescendant(op, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *Forest) validateChildren(op string, n *node) error {
	prev := n.index
	for _, cid := range n.children {
		c, ok := f.nodes[cid]
		if !ok {
			return fail(op, n.id, ErrInvariant, "child %d does not exist", cid)
		}
		if c.parent != n.id {
			return fail(op, n.id, ErrInvariant, "child %d has parent %d", cid, c.parent)
		}
		if c.index <= prev {
			return fail(op, n.id, ErrInvariant, "children out of order at child %d", cid)
		}
		prev = c.index
	}
	return nil
}

// validatePreorder walks the children relation from the virtual root and
// compares the visiting order with the linearization.
func (f *Forest) validatePreorder(op string) error {
	count := -1 // do not count the virtual root
	stack := []ID{Root}
	for len(stack) > 0 {
		top := f.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if count >= 0 {
			if count >= len(f.linear) {
				return fail(op, top.id, ErrInvariant, "tree has more nodes than linearization (cycle?)")
			}
			if f.linear[count] != top {
				return fail(op, top.id, ErrInvariant, "pre-order position %d holds %d in linearization",
					count, f.linear[count].id)
			}
		}
		count++
		for i := len(top.children) - 1; i >= 0; i-- {
			stack = append(stack, top.children[i])
		}
	}
	if count != len(f.linear) || count+1 != len(f.nodes) {
		return fail(op, Root, ErrInvariant, "tree size %d, linearization %d, map size %d",
			count+1, len(f.linear), len(f.nodes))
	}
	return nil
}
