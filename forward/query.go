// file: phfwd/forward/query.go
package forward

import (
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_num"
	"github.com/rskv-p/phfwd/pkg/x_seq"
)

// Get applies the longest matching forwarding to num. The result holds
// exactly one number, or none when num is invalid. It is nil only for a
// nil engine.
func (f *Forward) Get(num string) *x_seq.Numbers {
	if f == nil {
		return nil
	}
	res := x_seq.New(1)
	if !x_num.IsNumber(num) {
		f.metrics.Op(opGet, x_metrics.ResultInvalid)
		return res
	}
	res.Add(f.get(num))
	f.metrics.Op(opGet, x_metrics.ResultOK)
	return res
}

func (f *Forward) get(num string) string {
	var (
		target string
		depth  int
	)
	f.fwd.WalkPath(num, func(d int, p string) bool {
		target, depth = p, d
		return true
	})
	if depth == 0 {
		return num
	}
	return target + num[depth:]
}

// Reverse returns every number that some forwarding rewrites into num,
// plus num itself, sorted and without duplicates. Not every candidate
// maps back to num: a longer forwarding may shadow it. See GetReverse.
func (f *Forward) Reverse(num string) *x_seq.Numbers {
	if f == nil {
		return nil
	}
	if !x_num.IsNumber(num) {
		f.metrics.Op(opReverse, x_metrics.ResultInvalid)
		return x_seq.New(0)
	}
	res := f.reverse(num)
	f.metrics.Op(opReverse, x_metrics.ResultOK)
	return res
}

func (f *Forward) reverse(num string) *x_seq.Numbers {
	res := x_seq.New(4)
	f.rev.WalkPath(num, func(d int, members set) bool {
		suffix := num[d:]
		for m := range members {
			res.Add(m + suffix)
		}
		return true
	})
	res.Add(num)
	res.Sort()
	res.Dedup()
	return res
}

// GetReverse returns exactly the numbers x with Get(x) = {num}, sorted.
func (f *Forward) GetReverse(num string) *x_seq.Numbers {
	if f == nil {
		return nil
	}
	if !x_num.IsNumber(num) {
		f.metrics.Op(opReverse, x_metrics.ResultInvalid)
		return x_seq.New(0)
	}
	candidates := f.reverse(num)
	defer candidates.Release()

	res := x_seq.New(candidates.Size())
	for _, x := range candidates.Slice() {
		if f.get(x) == num {
			res.Add(x)
		}
	}
	f.metrics.Op(opReverse, x_metrics.ResultOK)
	return res
}
