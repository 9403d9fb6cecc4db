// file: phfwd/forward/forward.go
package forward

import (
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"
	"github.com/rskv-p/phfwd/pkg/x_log"
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_tree"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAllocation      = errors.New("allocation failure")
	ErrInconsistent    = errors.New("forward and reverse tries disagree")
)

const (
	opAdd     = "add"
	opRemove  = "remove"
	opGet     = "get"
	opReverse = "reverse"

	treeForward = "forward"
	treeReverse = "reverse"
)

// set is the reverse payload: every num1 forwarding to the node's key.
type set = map[string]struct{}

//---------------------
// Forward
//---------------------

// Forward is a phone-number forwarding directory. The forward trie maps a
// prefix to its replacement; the reverse trie maps a replacement back to
// every prefix using it. Both are kept consistent by every mutation.
//
// A Forward is not safe for concurrent use.
type Forward struct {
	id      string
	fwd     *x_tree.Tree[string]
	rev     *x_tree.Tree[set]
	log     zerolog.Logger
	metrics *x_metrics.Metrics
}

// New creates an empty directory. It fails only when the allocator
// refuses the two roots.
func New(opts ...Option) (*Forward, error) {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ID == "" {
		o.ID = nuid.Next()
	}
	if o.Allocator == nil {
		o.Allocator = x_tree.NewBudget(0)
	}
	if o.Logger == nil {
		l := x_log.New("forward")
		o.Logger = &l
	}

	f := &Forward{
		id:      o.ID,
		log:     o.Logger.With().Str("engine", o.ID).Logger(),
		metrics: o.Metrics,
	}

	var err error
	if f.fwd, err = x_tree.New[string](o.Allocator); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if f.rev, err = x_tree.New[set](o.Allocator); err != nil {
		f.fwd.Close()
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	f.observe()
	return f, nil
}

// Delete releases every node of both tries. It is safe on a nil or
// already deleted engine.
func (f *Forward) Delete() {
	if f == nil {
		return
	}
	f.fwd.Close()
	f.rev.Close()
	f.observe()
}

func (f *Forward) ID() string {
	if f == nil {
		return ""
	}
	return f.id
}

// Len returns the number of active forwardings.
func (f *Forward) Len() int {
	if f == nil {
		return 0
	}
	return f.fwd.Len()
}

// Nodes returns the live node count of the forward and the reverse trie.
func (f *Forward) Nodes() (fwd, rev int) {
	if f == nil {
		return 0, 0
	}
	return f.fwd.Size(), f.rev.Size()
}

// Each calls fn for every forwarding in symbol order of num1.
// Returning false stops the iteration.
func (f *Forward) Each(fn func(num1, num2 string) bool) {
	if f == nil {
		return
	}
	f.fwd.Iter(fn)
}

// Dump writes both tries to w.
func (f *Forward) Dump(w io.Writer) {
	fmt.Fprintln(w, "FORWARD")
	if f == nil {
		fmt.Fprintln(w, "EMPTY")
	} else {
		f.fwd.Dump(w)
	}
	fmt.Fprintln(w, "REVERSE")
	if f == nil {
		fmt.Fprintln(w, "EMPTY")
	} else {
		f.rev.Dump(w)
	}
}

//---------------------
// Helpers
//---------------------

func (f *Forward) observe() {
	if f.metrics == nil {
		return
	}
	f.metrics.Nodes(treeForward, f.fwd.Size())
	f.metrics.Nodes(treeReverse, f.rev.Size())
	f.metrics.Forwardings(f.fwd.Len())
}

// unlink drops num1 from the reverse set at target and prunes the
// reverse trie once the set is empty.
func (f *Forward) unlink(target, num1 string) {
	id, ok := f.rev.Find(target)
	if !ok {
		return
	}
	members, ok := f.rev.Payload(id)
	if !ok {
		return
	}
	delete(members, num1)
	if len(members) == 0 {
		f.rev.Clear(id)
		f.rev.Prune(target)
	}
}
