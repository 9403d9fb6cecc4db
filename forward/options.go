// file: phfwd/forward/options.go
package forward

import (
	"github.com/rs/zerolog"
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_tree"
)

// ----------------------------------------------------
// Engine options
// ----------------------------------------------------

type Options struct {
	ID        string
	Allocator x_tree.Allocator // shared by both tries; nil = unbounded
	Logger    *zerolog.Logger
	Metrics   *x_metrics.Metrics
}

// Option applies configuration to Options.
type Option func(*Options)

// WithID overrides the generated engine id.
func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

// WithAllocator charges every node of the engine to a.
func WithAllocator(a x_tree.Allocator) Option {
	return func(o *Options) { o.Allocator = a }
}

// WithMaxNodes bounds the live nodes of both tries together.
// 0 means unbounded.
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.Allocator = x_tree.NewBudget(n) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = &l }
}

func WithMetrics(m *x_metrics.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}
