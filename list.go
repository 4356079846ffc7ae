package stk

// listIndex is an arena slot number. nilIndex stands in for a null pointer
// without ever being dereferenced, matching spec.md §9's guidance to model
// the intrusive closed-loop lists with arena indices rather than pointer
// cycles, so the scheduler's core data structures never interact with the
// garbage collector at schedule time.
type listIndex int32

const nilIndex listIndex = -1

// listNode is the intrusive linkage embedded in whatever the list is
// storing (a KernelTask, or a waiterRecord). linked guards against an entry
// being linked into two heads at once, enforcing the "at most one queue at
// any instant" invariant from spec.md §3.
type listNode struct {
	prev, next listIndex
	linked     bool
}

// listHead is a closed-loop (circular) doubly-linked list: the last
// entry's next is the first entry and vice versa, so a walk can detect a
// full revolution by index equality with a remembered starting point. This
// mirrors spec.md §4.A exactly; the "pointers" are listIndex arena slots
// resolved through a nodeAt accessor bound to the owning storage.
type listHead struct {
	first, last listIndex
	count       int
}

func (h *listHead) Len() int     { return h.count }
func (h *listHead) Empty() bool  { return h.count == 0 }
func (h *listHead) First() listIndex { return h.first }
func (h *listHead) Last() listIndex  { return h.last }

// nodeAt resolves an arena index to the listNode embedded in its backing
// storage. Kernel and syncObject bind this to a method closing over their
// own slice (e.g. k.taskNode, k.waiterSyncNode).
type nodeAt func(listIndex) *listNode

func linkBack(h *listHead, at nodeAt, idx listIndex) {
	n := at(idx)
	assertInvariant(!n.linked, "list_double_link", "entry %d already linked", idx)

	if h.count == 0 {
		n.prev, n.next = idx, idx
		h.first, h.last = idx, idx
	} else {
		first, last := h.first, h.last
		n.prev, n.next = last, first
		at(last).next = idx
		at(first).prev = idx
		h.last = idx
	}
	n.linked = true
	h.count++
}

func linkFront(h *listHead, at nodeAt, idx listIndex) {
	n := at(idx)
	assertInvariant(!n.linked, "list_double_link", "entry %d already linked", idx)

	if h.count == 0 {
		n.prev, n.next = idx, idx
		h.first, h.last = idx, idx
	} else {
		first, last := h.first, h.last
		n.next, n.prev = first, last
		at(first).prev = idx
		at(last).next = idx
		h.first = idx
	}
	n.linked = true
	h.count++
}

func unlink(h *listHead, at nodeAt, idx listIndex) {
	n := at(idx)
	assertInvariant(n.linked, "list_unlink_unlinked", "entry %d not linked", idx)

	if h.count == 1 {
		h.first, h.last = nilIndex, nilIndex
	} else {
		prev, next := n.prev, n.next
		at(prev).next = next
		at(next).prev = prev
		if h.first == idx {
			h.first = next
		}
		if h.last == idx {
			h.last = prev
		}
	}
	n.linked = false
	n.prev, n.next = nilIndex, nilIndex
	h.count--
}

// linkBefore inserts idx immediately before the existing member "before",
// preserving the relative order of every other member. If before is
// nilIndex, idx is appended at the back instead (equivalent to linkBack).
// Used by the monotonic-priority strategies to keep their runnable list
// sorted by ascending periodicity/deadline at admission time.
func linkBefore(h *listHead, at nodeAt, idx, before listIndex) {
	if before == nilIndex {
		linkBack(h, at, idx)
		return
	}

	n := at(idx)
	assertInvariant(!n.linked, "list_double_link", "entry %d already linked", idx)

	b := at(before)
	prev := b.prev
	n.prev, n.next = prev, before
	at(prev).next = idx
	b.prev = idx
	if h.first == before {
		h.first = idx
	}
	n.linked = true
	h.count++
}

func popFront(h *listHead, at nodeAt) listIndex {
	if h.count == 0 {
		return nilIndex
	}
	idx := h.first
	unlink(h, at, idx)
	return idx
}

func popBack(h *listHead, at nodeAt) listIndex {
	if h.count == 0 {
		return nilIndex
	}
	idx := h.last
	unlink(h, at, idx)
	return idx
}

func nextOf(at nodeAt, idx listIndex) listIndex { return at(idx).next }
func prevOf(at nodeAt, idx listIndex) listIndex { return at(idx).prev }

// forEach walks h starting at its first entry, invoking fn with each
// index. Iteration stops either when fn returns false or after count
// steps (closed-loop safety net: count is always an accurate bound on the
// number of distinct entries in h).
func forEach(h *listHead, at nodeAt, fn func(listIndex) bool) {
	if h.count == 0 {
		return
	}
	idx := h.first
	for i := 0; i < h.count; i++ {
		next := at(idx).next
		if !fn(idx) {
			return
		}
		idx = next
	}
}
