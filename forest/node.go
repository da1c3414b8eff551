package forest

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"math"
	"sort"
)

// ID identifies a node. IDs are assigned by clients and must be unique
// among live nodes.
type ID int64

// Root is the ID of the virtual root. It must not be used for entities.
const Root ID = -1

// NoParent is reported as the parent of the virtual root.
const NoParent ID = math.MinInt64

/*
Nodes live in an arena (the forest's ID map). Parent and children are stored
as IDs and resolved through the arena. The linearization holds pointers into
the same arena.
*/

type node struct {
	id       ID
	parent   ID        // NoParent for the virtual root
	index    int       // position in the linearization, -1 for the virtual root
	children childList // ordered by index
}

func (n *node) String() string {
	return fmt.Sprintf("(node %d ^%d @%d #ch=%d)", n.id, n.parent, n.index, len(n.children))
}

func (n *node) snapshot() Node {
	return Node{ID: n.id, Parent: n.parent, Index: n.index}
}

// Node is a read-only snapshot of a node.
type Node struct {
	ID     ID
	Parent ID  // NoParent for the virtual root
	Index  int // position in the linearization, -1 for the virtual root
}

// --- Ordered lists of children ---------------------------------------------

// childList holds the IDs of a node's children, sorted by their position
// in the linearization.
type childList []ID

// search returns the position of the child with linear index inx, or the
// position where such a child would have to be inserted.
func (chs childList) search(inx int, arena map[ID]*node) (int, bool) {
	pos := sort.Search(len(chs), func(i int) bool {
		return arena[chs[i]].index >= inx
	})
	return pos, pos < len(chs) && arena[chs[pos]].index == inx
}

func (chs childList) insertAt(i int, child ID) childList {
	chs = append(chs, 0)     // make room for one child
	copy(chs[i+1:], chs[i:]) // shift i+1..n
	chs[i] = child
	return chs
}

func (chs childList) removeAt(i int) childList {
	copy(chs[i:], chs[i+1:])
	return chs[:len(chs)-1]
}

func (chs childList) last() (ID, bool) {
	if len(chs) == 0 {
		return Root, false
	}
	return chs[len(chs)-1], true
}

func (chs childList) clone() []ID {
	c := make([]ID, len(chs))
	copy(c, chs)
	return c
}
