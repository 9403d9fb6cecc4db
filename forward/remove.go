// file: phfwd/forward/remove.go
package forward

import (
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_num"
)

// Remove deletes every forwarding whose num1 has num as a prefix, num
// itself included. Invalid or unknown numbers are a no-op.
func (f *Forward) Remove(num string) {
	if f == nil {
		return
	}
	if !x_num.IsNumber(num) {
		f.metrics.Op(opRemove, x_metrics.ResultInvalid)
		return
	}

	var dropped int
	released := f.fwd.Detach(num, func(num1, target string) {
		f.unlink(target, num1)
		dropped++
	})
	if released == 0 {
		f.metrics.Op(opRemove, x_metrics.ResultNoop)
		return
	}

	f.metrics.Op(opRemove, x_metrics.ResultOK)
	f.observe()
	f.log.Debug().Str("num", num).Int("forwardings", dropped).Int("nodes", released).Msg("prefix removed")
}
