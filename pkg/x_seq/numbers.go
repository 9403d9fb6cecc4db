// file: phfwd/pkg/x_seq/numbers.go
package x_seq

import (
	"slices"

	"github.com/rskv-p/phfwd/pkg/x_num"
)

// Numbers is an ordered, growable sequence of phone numbers returned by
// queries. The zero value is ready to use.
type Numbers struct {
	items []string
}

// New creates a sequence with room for hint numbers.
func New(hint int) *Numbers {
	return &Numbers{items: make([]string, 0, max(hint, 1))}
}

// Of builds a sequence holding nums in the given order.
func Of(nums ...string) *Numbers {
	p := New(len(nums))
	p.AddAll(nums...)
	return p
}

//---------------------
// Building
//---------------------

// Add appends num.
func (p *Numbers) Add(num string) {
	p.items = append(p.items, num)
}

// AddAll appends nums keeping their order.
func (p *Numbers) AddAll(nums ...string) {
	p.items = append(p.items, nums...)
}

// Sort orders the sequence by x_num.Compare.
func (p *Numbers) Sort() {
	slices.SortFunc(p.items, x_num.Compare)
}

// Dedup drops adjacent duplicates. Call after Sort for set semantics.
func (p *Numbers) Dedup() {
	p.items = slices.Compact(p.items)
}

//---------------------
// Access
//---------------------

// Size returns the number of entries; 0 for a nil sequence.
func (p *Numbers) Size() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Get returns the entry at idx, or false when idx is out of range.
func (p *Numbers) Get(idx int) (string, bool) {
	if p == nil || idx < 0 || idx >= len(p.items) {
		return "", false
	}
	return p.items[idx], true
}

// Contains reports whether num is present.
func (p *Numbers) Contains(num string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.items, num)
}

// Slice returns a copy of the entries.
func (p *Numbers) Slice() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.items)
}

// Release drops the entries. Safe on nil.
func (p *Numbers) Release() {
	if p == nil {
		return
	}
	clear(p.items)
	p.items = nil
}
