/*
Package forest maintains an ordered forest of externally owned entities,
together with a flat pre-order linearization of all of its nodes.

All trees of a forest hang below a virtual root with ID Root. Nodes carry
structural identity only: an ID, the ID of their parent and their position
in the linearization. Clients resolve IDs against their own entity store.

A forest keeps three views consistent under every mutation:

  - a map from IDs to nodes
  - the parent/children relation, children ordered by position
  - the linearization: position i holds the i-th node of a pre-order walk

Subtree boundaries are found by binary search over the linearization,
using an ancestry.Index as a lowest-common-ancestor oracle. The forest
invalidates the index for every subtree whose ancestry changes.

Mutations:

	Insert(id)             // new last child of the virtual root
	Reparent(id, parent)   // hang a subtree below another node
	Reposition(id, index)  // move a leaf to another position
	PromoteAndRemove(id)   // remove a node, promoting its first child

With BeginRecord/EndRecord clients collect a feed of Delta records for
every node touched by mutations, suitable to sync an external store
incrementally.

A Forest is not safe for concurrent use. Clients have to serialize access.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package forest

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forest'.
func tracer() tracing.Trace {
	return tracing.Select("forest")
}
