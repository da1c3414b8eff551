package forest

import (
	"iter"
	"slices"
)

// Len returns the number of nodes in the linearization, i.e. the number of
// live nodes without the virtual root.
func (f *Forest) Len() int {
	return len(f.linear)
}

// Size returns the number of entries in the ID map, including the virtual
// root.
func (f *Forest) Size() int {
	return len(f.nodes)
}

// Has reports whether id is a live node. The virtual root always is.
func (f *Forest) Has(id ID) bool {
	_, ok := f.nodes[id]
	return ok
}

// Node returns a snapshot of the node for id.
func (f *Forest) Node(id ID) (Node, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.snapshot(), true
}

// Children returns the IDs of the children of id, ordered by position.
func (f *Forest) Children(id ID) ([]ID, error) {
	n, ok := f.nodes[id]
	if !ok {
		return nil, fail("children", id, ErrNotFound, "")
	}
	return n.children.clone(), nil
}

// LookupByIndex returns the ID at position i of the linearization.
func (f *Forest) LookupByIndex(i int) (ID, bool) {
	if i < 0 || i >= len(f.linear) {
		return Root, false
	}
	return f.linear[i].id, true
}

// Ancestors returns the IDs of the ancestors of id, nearest first,
// excluding the virtual root.
func (f *Forest) Ancestors(id ID) ([]ID, error) {
	n, ok := f.nodes[id]
	if !ok {
		return nil, fail("ancestors", id, ErrNotFound, "")
	}
	var ancestors []ID
	for n.parent != Root && n.parent != NoParent {
		n = f.nodes[n.parent]
		ancestors = append(ancestors, n.id)
	}
	return ancestors, nil
}

// Subtree returns the pre-order sequence of IDs of the subtree rooted at
// id, starting with id itself. The sequence is evaluated lazily and may be
// ranged over repeatedly. The forest must not be mutated while a sequence
// is being consumed.
func (f *Forest) Subtree(id ID) (iter.Seq[ID], error) {
	if _, ok := f.nodes[id]; !ok {
		return nil, fail("subtree", id, ErrNotFound, "")
	}
	return func(yield func(ID) bool) {
		stack := []ID{id}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(top) {
				return
			}
			chs := f.nodes[top].children
			for i := len(chs) - 1; i >= 0; i-- {
				stack = append(stack, chs[i])
			}
		}
	}, nil
}

// SubtreeIDs collects Subtree(id) into a slice.
func (f *Forest) SubtreeIDs(id ID) ([]ID, error) {
	seq, err := f.Subtree(id)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Depth returns the distance of id from the virtual root.
func (f *Forest) Depth(id ID) (int, error) {
	d, ok := f.anc.Depth(id)
	if !ok {
		return -1, fail("depth", id, ErrNotFound, "")
	}
	return d, nil
}

// LCA returns the lowest common ancestor of a and b. Nodes in different
// trees have the virtual root as their common ancestor.
func (f *Forest) LCA(a, b ID) (ID, error) {
	if !f.Has(a) {
		return Root, fail("lca", a, ErrNotFound, "")
	}
	lca, ok := f.anc.LCA(a, b)
	if !ok {
		return Root, fail("lca", b, ErrNotFound, "")
	}
	return lca, nil
}

// WarmAncestry computes the depth of every node in advance, so that
// subsequent queries will not have to rebuild ancestry on the fly.
func (f *Forest) WarmAncestry() {
	for _, n := range f.linear {
		f.anc.Depth(n.id)
	}
}

// LastDescendantIndex returns the position of the last node of the
// subtree of id in the linearization. For a leaf this is the position of
// id itself. For the virtual root it is Len()-1.
//
// The result is found by binary search with the LCA oracle and checked
// against a walk along last children. If both disagree, the forest is
// corrupt and an ErrInvariant error is returned.
func (f *Forest) LastDescendantIndex(id ID) (int, error) {
	const op = "lastdescendant"
	n, ok := f.nodes[id]
	if !ok {
		return -1, fail(op, id, ErrNotFound, "")
	}
	if id == Root {
		return f.rightmostLeaf(n).index, nil
	}
	return f.lastDescendant(op, n)
}

// lastDescendant gallops over the linearization starting at n, probing
// whether a position still belongs to the subtree of n, then bisects the
// last window. Membership is monotonic: true up to the last descendant,
// false afterwards.
func (f *Forest) lastDescendant(op string, n *node) (int, error) {
	inSubtree := func(p int) bool {
		lca, ok := f.anc.LCA(n.id, f.linear[p].id)
		return ok && lca == n.id
	}
	lo, step := n.index, 1
	for lo+step < len(f.linear) && inSubtree(lo+step) {
		lo += step
		step <<= 1
	}
	hi := lo + step
	if hi > len(f.linear) {
		hi = len(f.linear)
	}
	for hi-lo > 1 {
		mid := int(uint(lo+hi) >> 1)
		if inSubtree(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	if leaf := f.rightmostLeaf(n); leaf.index != lo {
		return -1, fail(op, n.id, ErrInvariant,
			"last descendant is %d at %d, binary search yields %d", leaf.id, leaf.index, lo)
	}
	return lo, nil
}
