package ancestry

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// invalidDepth marks an entry whose cached ancestry has to be rebuilt.
const invalidDepth = -1

// Index is a lazily maintained jump table over keys of type K.
// The root key is registered at creation time and is never stale.
type Index[K comparable] struct {
	props
	root    K
	entries map[K]*entry[K]
}

type entry[K comparable] struct {
	parent K
	depth  int // distance from root, or invalidDepth
	up     []K // up[k] is the 2^k-th ancestor; len(up) == bits.Len(depth)
}

func (e *entry[K]) stale() bool {
	return e.depth == invalidDepth
}

// New creates an index containing just the root key.
func New[K comparable](root K, opts ...Option) *Index[K] {
	x := &Index[K]{root: root}
	for _, option := range opts {
		x.props = option.config(x.props)
	}
	x.entries = make(map[K]*entry[K], x.capacity+1)
	x.entries[root] = &entry[K]{parent: root, depth: 0}
	return x
}

// Option is a type to help initializing an index at creation time.
type Option struct {
	config func(props) props
}

type props struct {
	capacity int
}

// Capacity pre-sizes the index for n keys.
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

// Root returns the root key.
func (x *Index[K]) Root() K {
	return x.root
}

// Len returns the number of keys in the index, including the root.
func (x *Index[K]) Len() int {
	return len(x.entries)
}

// Contains reports whether key id is known to the index.
func (x *Index[K]) Contains(id K) bool {
	_, ok := x.entries[id]
	return ok
}

// Register records a new key with its initial parent. The depth of the key
// is unknown until first queried. Registering an existing key resets it.
// The root may not be re-registered.
func (x *Index[K]) Register(id K, parent K) {
	assertThat(id != x.root, "cannot re-register root %v", id)
	x.entries[id] = &entry[K]{parent: parent, depth: invalidDepth}
}

// SetParent tells the index that the parent of id has changed.
// The entry for id becomes stale. Entries below id are not touched.
func (x *Index[K]) SetParent(id K, parent K) {
	e, ok := x.entries[id]
	if !ok || id == x.root {
		return
	}
	e.parent = parent
	e.depth = invalidDepth
}

// Invalidate marks the cached ancestry of id as stale.
// Invalidating the root or an unknown key is a no-op.
func (x *Index[K]) Invalidate(id K) {
	if e, ok := x.entries[id]; ok && id != x.root {
		e.depth = invalidDepth
	}
}

// Remove drops all state for id. The root cannot be removed.
func (x *Index[K]) Remove(id K) {
	if id == x.root {
		return
	}
	delete(x.entries, id)
}

// Parent returns the parent recorded for id. For the root it returns
// false.
func (x *Index[K]) Parent(id K) (K, bool) {
	e, ok := x.entries[id]
	if !ok || id == x.root {
		var zero K
		return zero, false
	}
	return e.parent, true
}

// Depth returns the distance of id from the root.
func (x *Index[K]) Depth(id K) (int, bool) {
	e, ok := x.ensure(id)
	if !ok {
		return invalidDepth, false
	}
	return e.depth, true
}

// Ancestor returns the n-th ancestor of id, where the 0-th ancestor is id
// itself. It returns false if id is unknown or n exceeds the depth of id.
func (x *Index[K]) Ancestor(id K, n int) (K, bool) {
	e, ok := x.ensure(id)
	if !ok || n < 0 || n > e.depth {
		var zero K
		return zero, false
	}
	return x.lift(id, n), true
}

// LCA returns the lowest common ancestor of a and b. It returns false if
// one of the keys is unknown.
func (x *Index[K]) LCA(a, b K) (K, bool) {
	ea, ok := x.ensure(a)
	if !ok {
		var zero K
		return zero, false
	}
	eb, ok := x.ensure(b)
	if !ok {
		var zero K
		return zero, false
	}
	if ea.depth < eb.depth {
		a, b = b, a
		ea, eb = eb, ea
	}
	a = x.lift(a, ea.depth-eb.depth)
	if a == b {
		return a, true
	}
	for k := len(x.entries[a].up) - 1; k >= 0; k-- {
		ua, ub := x.entries[a].up, x.entries[b].up
		if k < len(ua) && ua[k] != ub[k] {
			a, b = ua[k], ub[k]
		}
	}
	return x.entries[a].parent, true
}

// --- Internals -------------------------------------------------------------

// lift walks n steps up from id. id must be valid and n <= depth(id).
func (x *Index[K]) lift(id K, n int) K {
	for k := 0; n > 0; k++ {
		if n&1 == 1 {
			id = x.entries[id].up[k]
		}
		n >>= 1
	}
	return id
}

// ensure returns a valid entry for id, rebuilding stale entries on the path
// to the nearest valid ancestor.
func (x *Index[K]) ensure(id K) (*entry[K], bool) {
	e, ok := x.entries[id]
	if !ok {
		return nil, false
	}
	if !e.stale() {
		return e, true
	}
	var chain []*entry[K]
	for cur := e; cur.stale(); {
		chain = append(chain, cur)
		assertThat(len(chain) < len(x.entries), "cycle in parent chain of %v", id)
		p, ok := x.entries[cur.parent]
		assertThat(ok, "parent %v in chain of %v is not registered", cur.parent, id)
		cur = p
	}
	for i := len(chain) - 1; i >= 0; i-- {
		x.rebuild(chain[i])
	}
	tracer().Debugf("rebuilt %d entries for %v", len(chain), id)
	return e, true
}

// rebuild recomputes depth and jump pointers of e from its (valid) parent.
func (x *Index[K]) rebuild(e *entry[K]) {
	p := x.entries[e.parent]
	e.depth = p.depth + 1
	e.up = append(e.up[:0], e.parent)
	for k := 1; 1<<k <= e.depth; k++ {
		mid := x.entries[e.up[k-1]]
		e.up = append(e.up, mid.up[k-1])
	}
}
