/*
Package ancestry implements a jump table for answering depth, level-ancestor
and lowest-common-ancestor queries over a forest whose parent relation changes
over time.

Every key carries its parent, a cached depth and a binary-lifting table
(the 2^k-th ancestors of the key). Clients report parent changes with
SetParent and mark keys stale with Invalidate. Stale entries are rebuilt
lazily by the next query touching them, top-down from the nearest valid
ancestor.

The index does not know about children. Whoever owns the tree structure is
responsible for invalidating every key below a key whose ancestry changed;
the set of valid entries therefore always is closed under taking ancestors.
Queries issued before a required invalidation may return stale answers.

An Index is not safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ancestry

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forest.ancestry'.
func tracer() tracing.Trace {
	return tracing.Select("forest.ancestry")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("forest.ancestry: "+msg, msgargs...)
		panic(msg)
	}
}
