// file: phfwd/forward/add.go
package forward

import (
	"errors"
	"fmt"

	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_num"
	"github.com/rskv-p/phfwd/pkg/x_tree"
)

// Add makes num1 forward to num2, replacing any previous target of num1.
// Either both tries are updated or neither is: every node the call needs
// is allocated before anything becomes visible.
func (f *Forward) Add(num1, num2 string) error {
	if f == nil {
		return x_tree.ErrClosed
	}
	if err := x_num.CheckPairErr(num1, num2); err != nil {
		f.metrics.Op(opAdd, x_metrics.ResultInvalid)
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	fs, err := f.fwd.Stage(num1)
	if err != nil {
		return f.addFailed(num1, num2, err)
	}
	rs, err := f.rev.Stage(num2)
	if err != nil {
		fs.Rollback()
		return f.addFailed(num1, num2, err)
	}

	// nothing below can fail
	fid, _ := fs.Commit()
	old, had := f.fwd.Set(fid, num2)

	// The reverse chain is spliced before the old link is pruned: its
	// attach node may sit on the old target's path.
	rid, _ := rs.Commit()
	members, ok := f.rev.Payload(rid)
	if !ok {
		members = make(set, 1)
		f.rev.Set(rid, members)
	}
	members[num1] = struct{}{}

	if had && old != num2 {
		f.unlink(old, num1)
	}

	f.metrics.Op(opAdd, x_metrics.ResultOK)
	f.observe()
	ev := f.log.Debug().Str("num", num1).Str("target", num2)
	if had {
		ev = ev.Str("replaced", old)
	}
	ev.Int("staged", fs.Created()+rs.Created()).Msg("forwarding added")
	return nil
}

func (f *Forward) addFailed(num1, num2 string, err error) error {
	if !errors.Is(err, x_tree.ErrNoSpace) {
		return fmt.Errorf("add %s: %w", num1, err)
	}
	f.metrics.Op(opAdd, x_metrics.ResultNoSpace)
	f.metrics.Rollback()
	f.log.Warn().Str("num", num1).Str("target", num2).Err(err).Msg("add rolled back")
	return fmt.Errorf("%w: %w", ErrAllocation, err)
}
