// file: phfwd/pkg/x_tree/stage.go
package x_tree

import (
	"errors"
	"fmt"
)

var ErrStageDone = errors.New("stage already committed or rolled back")

//---------------------
// Stage (transactional path growth)
//---------------------

// Stage holds the nodes needed to extend a tree along one key. Missing
// nodes are allocated up front as a detached chain; nothing becomes
// reachable until Commit splices the chain in. Rollback releases the
// chain and leaves the tree exactly as it was.
type Stage[P any] struct {
	t      *Tree[P]
	attach NodeID // existing node the chain hangs from
	digit  int    // slot of attach that receives the chain
	staged []NodeID
	end    NodeID // terminal node of key (existing or staged)
	done   bool
}

// Stage prepares the path for key. On allocation failure every node
// created by the call is released before the error is returned.
func (t *Tree[P]) Stage(key string) (*Stage[P], error) {
	if t == nil || t.live == 0 {
		return nil, ErrClosed
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	s := &Stage[P]{t: t}
	id := root
	for i := 0; i < len(key); i++ {
		d, ok := digitAt(key, i)
		if !ok {
			s.drop()
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		if len(s.staged) == 0 {
			if next := t.nodes[id].child[d]; next != none {
				id = next
				continue
			}
		}
		nid, err := t.newNode()
		if err != nil {
			s.drop()
			return nil, err
		}
		if len(s.staged) == 0 {
			s.attach, s.digit = id, d
		} else {
			t.nodes[id].setChild(d, nid)
		}
		s.staged = append(s.staged, nid)
		id = nid
	}
	s.end = id
	return s, nil
}

// Created returns how many nodes the stage allocated.
func (s *Stage[P]) Created() int { return len(s.staged) }

// Commit makes the staged path reachable and returns its terminal node.
func (s *Stage[P]) Commit() (NodeID, error) {
	if s.done {
		return none, ErrStageDone
	}
	s.done = true
	if len(s.staged) > 0 {
		s.t.nodes[s.attach].setChild(s.digit, s.staged[0])
	}
	return s.end, nil
}

// Rollback releases the staged nodes. It is a no-op after Commit.
func (s *Stage[P]) Rollback() {
	if s == nil || s.done {
		return
	}
	s.done = true
	s.drop()
}

func (s *Stage[P]) drop() {
	for i := len(s.staged) - 1; i >= 0; i-- {
		s.t.release(s.staged[i])
	}
	s.staged = nil
}
