package forest

// Delta describes the structural state of one node at the end of a
// mutation: its ID, its parent and its position in the linearization.
type Delta struct {
	ID     ID  `json:"id"`
	Parent ID  `json:"parentId"`
	Index  int `json:"index"`
}

// recorder collects the nodes touched by the current mutation. At the end
// of a mutation they are turned into deltas, in the order they were first
// touched, carrying their final values.
type recorder struct {
	deltas  []Delta
	touched []ID
	seen    map[ID]struct{}
}

// BeginRecord starts (or restarts) recording deltas. Every node whose
// parent or position is changed by subsequent mutations produces a Delta.
func (f *Forest) BeginRecord() {
	f.rec = &recorder{seen: make(map[ID]struct{})}
}

// EndRecord stops recording and returns the deltas recorded since
// BeginRecord, in emission order. If recording was not active, it returns
// nil.
func (f *Forest) EndRecord() []Delta {
	if f.rec == nil {
		return nil
	}
	deltas := f.rec.deltas
	f.rec = nil
	return deltas
}

// IsRecording reports whether deltas are currently being recorded.
func (f *Forest) IsRecording() bool {
	return f.rec != nil
}

// AsDeltas returns the state of the whole forest, one Delta per position of
// the linearization.
func (f *Forest) AsDeltas() []Delta {
	deltas := make([]Delta, len(f.linear))
	for i, n := range f.linear {
		deltas[i] = Delta{ID: n.id, Parent: n.parent, Index: n.index}
	}
	return deltas
}

func (f *Forest) touch(n *node) {
	if f.rec == nil {
		return
	}
	if _, ok := f.rec.seen[n.id]; ok {
		return
	}
	f.rec.seen[n.id] = struct{}{}
	f.rec.touched = append(f.rec.touched, n.id)
}

// flush ends a mutation for the recorder.
func (f *Forest) flush() {
	if f.rec == nil {
		return
	}
	for _, id := range f.rec.touched {
		if n, ok := f.nodes[id]; ok { // skips removed nodes
			f.rec.deltas = append(f.rec.deltas, Delta{ID: n.id, Parent: n.parent, Index: n.index})
		}
		delete(f.rec.seen, id)
	}
	f.rec.touched = f.rec.touched[:0]
}
