// file: phfwd/pkg/x_tree/util.go
package x_tree

import "github.com/rskv-p/phfwd/pkg/x_num"

// digitAt returns the alphabet index of key[pos].
func digitAt(key string, pos int) (int, bool) {
	if pos >= len(key) {
		return 0, false
	}
	return x_num.Index(key[pos])
}

//---------------------
// Explicit-stack walk
//---------------------

// frame is one stack entry of a depth-first walk. sym is the symbol on
// the edge into the node; unused at depth 0.
type frame struct {
	id    NodeID
	depth int
	sym   byte
}

// walker tracks the key of the node being visited. With a LIFO stack the
// first depth-1 bytes of path always spell the parent of the popped frame,
// so each step costs O(1) instead of copying the whole key.
type walker struct {
	stack []frame
	path  []byte
}

func newWalker(top frame, prefix string) *walker {
	w := &walker{stack: []frame{top}}
	w.path = append(w.path, prefix...)
	return w
}

func (w *walker) next() (frame, bool) {
	if len(w.stack) == 0 {
		return frame{}, false
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if f.depth > 0 {
		w.path = append(w.path[:f.depth-1], f.sym)
	} else {
		w.path = w.path[:0]
	}
	return f, true
}

// push schedules the children of n so that lower symbols pop first.
func (w *walker) push(child *[x_num.Radix]NodeID, depth int) {
	for c := x_num.Radix - 1; c >= 0; c-- {
		if cid := child[c]; cid != none {
			w.stack = append(w.stack, frame{id: cid, depth: depth + 1, sym: x_num.Symbol(c)})
		}
	}
}

func (w *walker) key() string { return string(w.path) }
