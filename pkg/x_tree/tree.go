// file: phfwd/pkg/x_tree/tree.go
package x_tree

import (
	"errors"
	"fmt"

	"github.com/rskv-p/phfwd/pkg/x_num"
)

var (
	ErrInvalidKey = errors.New("invalid key")
	ErrClosed     = errors.New("tree is closed")
	ErrCorrupt    = errors.New("tree is corrupt")
)

//---------------------
// Tree
//---------------------

// Tree is a trie over the phone-number alphabet. Nodes live in an arena
// and are addressed by NodeID; released slots go to a free list. Every
// node except the root carries a payload or has at least one child.
type Tree[P any] struct {
	nodes []node[P] // nodes[0] is unused so that NodeID 0 means "none"
	free  []NodeID
	alloc Allocator
	live  int // live nodes, root included
	count int // nodes carrying a payload
}

// New creates an empty tree whose nodes are charged to alloc.
// A nil alloc is unbounded.
func New[P any](alloc Allocator) (*Tree[P], error) {
	if alloc == nil {
		alloc = NewBudget(0)
	}
	t := &Tree[P]{
		nodes: make([]node[P], 1, 16),
		alloc: alloc,
	}
	id, err := t.newNode()
	if err != nil {
		return nil, err
	}
	if id != root {
		panic("x_tree: root is not the first node")
	}
	return t, nil
}

// Size returns the number of live nodes, root included.
func (t *Tree[P]) Size() int {
	if t == nil {
		return 0
	}
	return t.live
}

// Len returns the number of nodes carrying a payload.
func (t *Tree[P]) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

//---------------------
// Lookup
//---------------------

// Find returns the node at the end of key.
func (t *Tree[P]) Find(key string) (NodeID, bool) {
	if t == nil || t.live == 0 || len(key) == 0 {
		return none, false
	}
	id := root
	for i := 0; i < len(key); i++ {
		d, ok := digitAt(key, i)
		if !ok {
			return none, false
		}
		if id = t.nodes[id].child[d]; id == none {
			return none, false
		}
	}
	return id, true
}

// Get returns the payload stored at key.
func (t *Tree[P]) Get(key string) (P, bool) {
	id, ok := t.Find(key)
	if !ok {
		var zero P
		return zero, false
	}
	return t.Payload(id)
}

// WalkPath follows key from the root as far as nodes exist and calls fn
// for each payload node on the way with its depth (prefix length).
// Returning false from fn stops the walk.
func (t *Tree[P]) WalkPath(key string, fn func(depth int, p P) bool) {
	if t == nil || t.live == 0 {
		return
	}
	id := root
	for i := 0; i < len(key); i++ {
		d, ok := digitAt(key, i)
		if !ok {
			return
		}
		if id = t.nodes[id].child[d]; id == none {
			return
		}
		if n := &t.nodes[id]; n.has && !fn(i+1, n.payload) {
			return
		}
	}
}

//---------------------
// Payload
//---------------------

// Payload returns the payload of id.
func (t *Tree[P]) Payload(id NodeID) (P, bool) {
	n := &t.nodes[id]
	return n.payload, n.has
}

// Set stores p at id and returns the previous payload, if any.
// Setting a payload on the root is rejected.
func (t *Tree[P]) Set(id NodeID, p P) (P, bool) {
	if id == root {
		panic("x_tree: payload on root")
	}
	n := &t.nodes[id]
	old, had := n.payload, n.has
	if !had {
		t.count++
	}
	n.payload, n.has = p, true
	return old, had
}

// Clear drops the payload of id and returns it. The node itself stays;
// call Prune to remove it once dead.
func (t *Tree[P]) Clear(id NodeID) (P, bool) {
	n := &t.nodes[id]
	old, had := n.payload, n.has
	if had {
		var zero P
		n.payload, n.has = zero, false
		t.count--
	}
	return old, had
}

//---------------------
// Removal
//---------------------

// cutPoint walks key and finds the minimal prunable boundary: keep is
// the lowest node at or above the end of key that carries a payload,
// has more than one child, or is the root; cut is its child on the path.
func (t *Tree[P]) cutPoint(key string) (keep NodeID, digit int, cut, end NodeID, cutDepth int, ok bool) {
	if t == nil || t.live == 0 || len(key) == 0 {
		return
	}
	id := root
	for i := 0; i < len(key); i++ {
		d, valid := digitAt(key, i)
		if !valid {
			return none, 0, none, none, 0, false
		}
		n := &t.nodes[id]
		next := n.child[d]
		if next == none {
			return none, 0, none, none, 0, false
		}
		if n.has || n.size > 1 || cut == none {
			keep, digit, cut, cutDepth = id, d, next, i+1
		}
		id = next
	}
	return keep, digit, cut, id, cutDepth, true
}

// Prune removes the node at key if it is dead, together with the chain
// of payload-less single-child ancestors that die with it. It returns
// the number of nodes released.
func (t *Tree[P]) Prune(key string) int {
	keep, d, cut, end, cutDepth, ok := t.cutPoint(key)
	if !ok || !t.nodes[end].dead() {
		return 0
	}
	t.nodes[keep].setChild(d, none)
	return t.releaseSubtree(cut, key[:cutDepth], nil)
}

// Detach unlinks the subtree at key, including the dead chain above it,
// and releases every node in it. visit, when set, is called with the
// full key of each payload node before it is released. It returns the
// number of nodes released; 0 when key is absent.
func (t *Tree[P]) Detach(key string, visit func(key string, p P)) int {
	keep, d, cut, _, cutDepth, ok := t.cutPoint(key)
	if !ok {
		return 0
	}
	t.nodes[keep].setChild(d, none)
	return t.releaseSubtree(cut, key[:cutDepth], visit)
}

// releaseSubtree frees an already unlinked subtree using an explicit
// stack bounded by the subtree size. key is the full key of top.
func (t *Tree[P]) releaseSubtree(top NodeID, key string, visit func(string, P)) int {
	w := newWalker(frame{id: top, depth: len(key), sym: key[len(key)-1]}, key[:len(key)-1])
	var released int
	for f, ok := w.next(); ok; f, ok = w.next() {
		n := &t.nodes[f.id]
		if n.has {
			if visit != nil {
				visit(w.key(), n.payload)
			}
			t.count--
		}
		w.push(&n.child, f.depth)
		t.release(f.id)
		released++
	}
	return released
}

// Reset releases every node but the root.
func (t *Tree[P]) Reset() {
	if t == nil || t.live == 0 {
		return
	}
	for d := 0; d < x_num.Radix; d++ {
		if cid := t.nodes[root].child[d]; cid != none {
			t.nodes[root].setChild(d, none)
			t.releaseSubtree(cid, string(x_num.Symbol(d)), nil)
		}
	}
}

// Close releases every node including the root. A closed tree reports
// no content; closing twice is a no-op.
func (t *Tree[P]) Close() {
	if t == nil || t.live == 0 {
		return
	}
	t.Reset()
	t.release(root)
	t.nodes, t.free = nil, nil
}

//---------------------
// Iteration
//---------------------

// Iter visits every payload in symbol order (a prefix before its
// extensions). Returning false from fn stops the iteration.
func (t *Tree[P]) Iter(fn func(key string, p P) bool) {
	if t == nil || t.live == 0 {
		return
	}
	w := newWalker(frame{id: root}, "")
	for f, ok := w.next(); ok; f, ok = w.next() {
		n := &t.nodes[f.id]
		if n.has && !fn(w.key(), n.payload) {
			return
		}
		w.push(&n.child, f.depth)
	}
}

// Verify walks every reachable node and checks the structural invariants:
// no dead node besides the root, and the live and payload counters match
// what is reachable.
func (t *Tree[P]) Verify() error {
	if t == nil || t.live == 0 {
		return nil
	}
	var reachable, payloads int
	w := newWalker(frame{id: root}, "")
	for f, ok := w.next(); ok; f, ok = w.next() {
		n := &t.nodes[f.id]
		reachable++
		if n.has {
			payloads++
		}
		if f.depth > 0 && n.dead() {
			return fmt.Errorf("%w: dead node at %q", ErrCorrupt, w.key())
		}
		w.push(&n.child, f.depth)
	}
	if reachable != t.live {
		return fmt.Errorf("%w: %d reachable of %d live nodes", ErrCorrupt, reachable, t.live)
	}
	if payloads != t.count {
		return fmt.Errorf("%w: %d payloads, counted %d", ErrCorrupt, payloads, t.count)
	}
	return nil
}

//---------------------
// Arena
//---------------------

func (t *Tree[P]) newNode() (NodeID, error) {
	if t.nodes == nil {
		return none, ErrClosed
	}
	if err := t.alloc.Alloc(); err != nil {
		return none, fmt.Errorf("allocate node: %w", err)
	}
	var id NodeID
	if k := len(t.free); k > 0 {
		id = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		t.nodes = append(t.nodes, node[P]{})
		id = NodeID(len(t.nodes) - 1)
	}
	t.live++
	return id, nil
}

func (t *Tree[P]) release(id NodeID) {
	t.nodes[id] = node[P]{}
	t.free = append(t.free, id)
	t.live--
	t.alloc.Free(1)
}
