package ancestry

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds root ← 1 ← 2 ← … ← n.
func chain(n int) *Index[int] {
	x := New(-1, Capacity(n))
	for i := 1; i <= n; i++ {
		x.Register(i, i-1)
	}
	x.SetParent(1, -1)
	return x
}

func TestIndexEmpty(t *testing.T) {
	x := New(-1)
	assert.Equal(t, 1, x.Len())
	d, ok := x.Depth(-1)
	require.True(t, ok)
	assert.Equal(t, 0, d)
	_, ok = x.Depth(7)
	assert.False(t, ok, "expected unknown key to have no depth")
	_, ok = x.LCA(-1, 7)
	assert.False(t, ok, "expected LCA with unknown key to fail")
	_, ok = x.Parent(-1)
	assert.False(t, ok, "expected root to have no parent")
}

func TestIndexDepthOfChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forest.ancestry")
	defer teardown()
	//
	x := chain(20)
	for i := 1; i <= 20; i++ {
		d, ok := x.Depth(i)
		require.True(t, ok)
		if d != i {
			t.Errorf("expected depth of %d to be %d, is %d", i, i, d)
		}
	}
	a, ok := x.Ancestor(17, 5)
	require.True(t, ok)
	assert.Equal(t, 12, a)
	a, ok = x.Ancestor(17, 17)
	require.True(t, ok)
	assert.Equal(t, -1, a)
	_, ok = x.Ancestor(17, 18)
	assert.False(t, ok, "expected ancestor above root to fail")
}

func TestIndexLCA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forest.ancestry")
	defer teardown()
	//
	//        root
	//       /    \
	//      1      5
	//     / \
	//    2   3
	//        |
	//        4
	x := New(-1)
	x.Register(1, -1)
	x.Register(2, 1)
	x.Register(3, 1)
	x.Register(4, 3)
	x.Register(5, -1)
	cases := []struct{ a, b, lca int }{
		{2, 4, 1},
		{4, 3, 3},
		{3, 4, 3},
		{4, 5, -1},
		{1, 1, 1},
		{-1, 4, -1},
	}
	for _, c := range cases {
		got, ok := x.LCA(c.a, c.b)
		require.True(t, ok)
		if got != c.lca {
			t.Errorf("expected LCA(%d,%d) to be %d, is %d", c.a, c.b, c.lca, got)
		}
	}
}

func TestIndexSetParentInvalidates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forest.ancestry")
	defer teardown()
	//
	x := chain(4) // root ← 1 ← 2 ← 3 ← 4
	d, _ := x.Depth(4)
	require.Equal(t, 4, d)
	// move 3 (and thus 4) below root; the owner invalidates the subtree
	x.SetParent(3, -1)
	x.Invalidate(4)
	d, _ = x.Depth(4)
	assert.Equal(t, 2, d)
	lca, _ := x.LCA(4, 2)
	assert.Equal(t, -1, lca)
	lca, _ = x.LCA(4, 3)
	assert.Equal(t, 3, lca)
}

func TestIndexRemove(t *testing.T) {
	x := chain(3)
	x.Remove(3)
	assert.False(t, x.Contains(3))
	x.Remove(-1)
	assert.True(t, x.Contains(-1), "expected root to survive Remove")
	assert.Equal(t, 3, x.Len())
}

func TestIndexRebuildOnlyStale(t *testing.T) {
	x := chain(8)
	x.Depth(8)
	for i := 1; i <= 8; i++ {
		assert.False(t, x.entries[i].stale(), "expected entry %d to be valid after query", i)
	}
	x.Invalidate(6)
	x.Invalidate(7)
	x.Invalidate(8)
	assert.False(t, x.entries[5].stale())
	x.Depth(7)
	assert.False(t, x.entries[6].stale())
	assert.True(t, x.entries[8].stale(), "expected entry 8 to stay stale until queried")
}

func TestIndexCyclePanics(t *testing.T) {
	x := New(-1)
	x.Register(1, 2)
	x.Register(2, 1)
	assert.Panics(t, func() { x.Depth(1) })
}

// naive ancestry over a parent map, for cross-checking.
func naiveDepth(parent map[int]int, id int) int {
	d := 0
	for id != -1 {
		id = parent[id]
		d++
	}
	return d
}

func naiveLCA(parent map[int]int, a, b int) int {
	seen := map[int]bool{-1: true}
	for n := a; n != -1; n = parent[n] {
		seen[n] = true
	}
	for n := b; n != -1; n = parent[n] {
		if seen[n] {
			return n
		}
	}
	return -1
}

func TestIndexRandomAgainstNaive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forest.ancestry")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	const n = 300
	parent := make(map[int]int, n)
	x := New(-1, Capacity(n))
	for i := 0; i < n; i++ {
		p := -1
		if i > 0 && rnd.Intn(5) > 0 {
			p = rnd.Intn(i)
		}
		parent[i] = p
		x.Register(i, p)
	}
	descendants := func(id int) []int {
		var ds []int
		for k := range parent {
			if naiveLCA(parent, id, k) == id {
				ds = append(ds, k)
			}
		}
		return ds
	}
	for round := 0; round < 50; round++ {
		for q := 0; q < 40; q++ {
			a, b := rnd.Intn(n), rnd.Intn(n)
			d, _ := x.Depth(a)
			if d != naiveDepth(parent, a) {
				t.Fatalf("round %d: expected depth(%d) = %d, is %d", round, a, naiveDepth(parent, a), d)
			}
			lca, _ := x.LCA(a, b)
			if want := naiveLCA(parent, a, b); lca != want {
				t.Fatalf("round %d: expected LCA(%d,%d) = %d, is %d", round, a, b, want, lca)
			}
		}
		// re-hang a random subtree below a node outside of it
		v := rnd.Intn(n)
		sub := descendants(v)
		inside := make(map[int]bool, len(sub))
		for _, s := range sub {
			inside[s] = true
		}
		p := rnd.Intn(n)
		if inside[p] {
			p = -1
		}
		parent[v] = p
		for _, s := range sub {
			x.Invalidate(s)
		}
		x.SetParent(v, p)
	}
}
