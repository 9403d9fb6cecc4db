// file: phfwd/pkg/x_tree/node.go
package x_tree

import "github.com/rskv-p/phfwd/pkg/x_num"

// NodeID addresses a node inside its tree's arena. The zero value is no node.
type NodeID int32

const (
	none NodeID = 0
	root NodeID = 1
)

//---------------------
// Node (direct-indexed, one slot per symbol)
//---------------------

type node[P any] struct {
	child   [x_num.Radix]NodeID
	size    uint8 // non-empty child slots
	has     bool  // payload present
	payload P
}

func (n *node[P]) setChild(d int, id NodeID) {
	switch {
	case n.child[d] == none && id != none:
		n.size++
	case n.child[d] != none && id == none:
		n.size--
	}
	n.child[d] = id
}

// dead reports a node with neither payload nor children.
func (n *node[P]) dead() bool {
	return !n.has && n.size == 0
}
