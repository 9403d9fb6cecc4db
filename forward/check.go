// file: phfwd/forward/check.go
package forward

import "fmt"

// Check verifies both tries and the link between them: each forwarding
// num1 -> num2 is a member of the reverse set at num2, and each reverse
// member is backed by exactly that forwarding.
func (f *Forward) Check() error {
	if f == nil {
		return nil
	}
	if err := f.fwd.Verify(); err != nil {
		return fmt.Errorf("%s trie: %w", treeForward, err)
	}
	if err := f.rev.Verify(); err != nil {
		return fmt.Errorf("%s trie: %w", treeReverse, err)
	}

	var err error
	f.fwd.Iter(func(num1, num2 string) bool {
		members, ok := f.rev.Get(num2)
		if _, in := members[num1]; !ok || !in {
			err = fmt.Errorf("%w: %s -> %s has no reverse link", ErrInconsistent, num1, num2)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	var links int
	f.rev.Iter(func(num2 string, members set) bool {
		if len(members) == 0 {
			err = fmt.Errorf("%w: empty reverse set at %s", ErrInconsistent, num2)
			return false
		}
		for num1 := range members {
			if target, ok := f.fwd.Get(num1); !ok || target != num2 {
				err = fmt.Errorf("%w: reverse link %s <- %s is stale", ErrInconsistent, num2, num1)
				return false
			}
		}
		links += len(members)
		return true
	})
	if err != nil {
		return err
	}
	if links != f.fwd.Len() {
		return fmt.Errorf("%w: %d forwardings, %d reverse links", ErrInconsistent, f.fwd.Len(), links)
	}
	return nil
}
