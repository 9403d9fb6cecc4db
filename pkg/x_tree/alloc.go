// file: phfwd/pkg/x_tree/alloc.go
package x_tree

import (
	"errors"
	"fmt"
)

var ErrNoSpace = errors.New("node budget exhausted")

//---------------------
// Allocator
//---------------------

// Allocator gates every node a tree hands out. Alloc is called before a
// node is created, Free after n nodes are released.
type Allocator interface {
	Alloc() error
	Free(n int)
}

// Budget is an Allocator bounded by a maximum number of live nodes.
// A zero max means unbounded. One Budget may be shared by several trees.
type Budget struct {
	max  int
	used int
}

// NewBudget creates a budget for max live nodes.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

func (b *Budget) Alloc() error {
	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("%w: limit %d", ErrNoSpace, b.max)
	}
	b.used++
	return nil
}

func (b *Budget) Free(n int) {
	b.used -= n
	if b.used < 0 {
		panic("x_tree: budget freed more nodes than allocated")
	}
}

// Used returns the number of live nodes charged to the budget.
func (b *Budget) Used() int { return b.used }

// Max returns the configured limit; 0 means unbounded.
func (b *Budget) Max() int { return b.max }
