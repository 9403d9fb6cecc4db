// file: phfwd/script/script.go
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
	"github.com/rs/zerolog"
	"github.com/rskv-p/phfwd/forward"
	"github.com/rskv-p/phfwd/pkg/x_log"
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/pkg/x_seq"
	"github.com/rskv-p/phfwd/recover"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownCommand = errors.New("unknown command")
	ErrCommand        = errors.New("command failed")
)

// LineError ties an error to the script line that caused it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// ----------------------------------------------------
// Runner
// ----------------------------------------------------

// Runner executes a line-oriented command script against one engine.
// Lines are split shell-style; # starts a comment, so a number that
// begins with # must be quoted.
type Runner struct {
	fwd         *forward.Forward
	out         io.Writer
	log         zerolog.Logger
	metrics     *x_metrics.Metrics
	stopOnError bool
	styled      bool

	line  int
	fails int
}

type Option func(*Runner)

// WithStopOnError aborts the run at the first failing line.
func WithStopOnError(stop bool) Option {
	return func(r *Runner) { r.stopOnError = stop }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics makes STATS print the engine's series.
func WithMetrics(m *x_metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithStyle renders LIST and CHECK output with terminal colours.
func WithStyle(styled bool) Option {
	return func(r *Runner) { r.styled = styled }
}

func New(f *forward.Forward, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		fwd: f,
		out: out,
		log: x_log.New("script"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Failures returns the number of failed lines so far.
func (r *Runner) Failures() int { return r.fails }

// Run executes every line of in, numbering lines from 1. Failing lines
// are logged and collected; the joined errors are returned once the input
// is exhausted, or the first one right away when stopping on error.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	r.line = 0
	ctx = x_log.WithLogger(ctx, &r.log)
	br := bufio.NewReader(in)
	var errs []error
	for {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		text, rerr := br.ReadString('\n')
		if text != "" {
			if err := r.exec(ctx, text); err != nil {
				if r.stopOnError {
					return err
				}
				errs = append(errs, err)
			}
		}
		if rerr == io.EOF {
			return errors.Join(errs...)
		}
		if rerr != nil {
			return errors.Join(append(errs, fmt.Errorf("read script: %w", rerr))...)
		}
	}
}

// Exec runs a single line as the next line of the current script.
// Blank and comment lines are skipped.
func (r *Runner) Exec(ctx context.Context, text string) error {
	return r.exec(x_log.WithLogger(ctx, &r.log), text)
}

func (r *Runner) exec(ctx context.Context, text string) error {
	r.line++
	args, err := shlex.Split(text)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("%w: %v", ErrSyntax, err))
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToUpper(args[0])
	c, ok := commands[name]
	if !ok {
		return r.fail(ctx, fmt.Errorf("%w: %s", ErrUnknownCommand, args[0]))
	}
	if len(args)-1 != c.arity {
		return r.fail(ctx, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrSyntax, name, c.arity, len(args)-1))
	}

	run := recover.WrapRecover("script", name, func(context.Context) error {
		return c.fn(r, args[1:])
	})
	if err := run(ctx); err != nil {
		return r.fail(ctx, err)
	}
	return nil
}

func (r *Runner) fail(ctx context.Context, err error) error {
	r.fails++
	x_log.From(ctx).Warn().Int("line", r.line).Err(err).Msg("script line failed")
	return &LineError{Line: r.line, Err: err}
}

// ----------------------------------------------------
// Commands
// ----------------------------------------------------

type command struct {
	arity int
	fn    func(r *Runner, args []string) error
}

var commands = map[string]command{
	"ADD":    {2, cmdAdd},
	"DEL":    {1, cmdDel},
	"GET":    {1, func(r *Runner, a []string) error { return r.print(r.fwd.Get(a[0])) }},
	"REV":    {1, func(r *Runner, a []string) error { return r.print(r.fwd.Reverse(a[0])) }},
	"GETREV": {1, func(r *Runner, a []string) error { return r.print(r.fwd.GetReverse(a[0])) }},
	"LIST":   {0, cmdList},
	"DUMP":   {0, func(r *Runner, _ []string) error { r.fwd.Dump(r.out); return nil }},
	"CHECK":  {0, cmdCheck},
	"STATS":  {0, cmdStats},
}

func cmdAdd(r *Runner, a []string) error {
	if err := r.fwd.Add(a[0], a[1]); err != nil {
		return fmt.Errorf("%w: ADD %s %s: %w", ErrCommand, a[0], a[1], err)
	}
	return nil
}

func cmdDel(r *Runner, a []string) error {
	r.fwd.Remove(a[0])
	return nil
}

func cmdList(r *Runner, _ []string) error {
	arrow := " -> "
	if r.styled {
		arrow = arrowStyle.Render(arrow)
	}
	var err error
	r.fwd.Each(func(num1, num2 string) bool {
		_, err = fmt.Fprintf(r.out, "%s%s%s\n", num1, arrow, num2)
		return err == nil
	})
	return err
}

func cmdCheck(r *Runner, _ []string) error {
	if err := r.fwd.Check(); err != nil {
		return fmt.Errorf("%w: CHECK: %w", ErrCommand, err)
	}
	ok := "OK"
	if r.styled {
		ok = okStyle.Render(ok)
	}
	_, err := fmt.Fprintln(r.out, ok)
	return err
}

func cmdStats(r *Runner, _ []string) error {
	fwd, rev := r.fwd.Nodes()
	if _, err := fmt.Fprintf(r.out, "forwardings %d\nnodes %d %d\n", r.fwd.Len(), fwd, rev); err != nil {
		return err
	}
	return r.metrics.Write(r.out)
}

func (r *Runner) print(res *x_seq.Numbers) error {
	defer res.Release()
	for i := 0; i < res.Size(); i++ {
		num, _ := res.Get(i)
		if _, err := fmt.Fprintln(r.out, num); err != nil {
			return err
		}
	}
	return nil
}

var (
	arrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(x_log.ColorGray60))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(x_log.ColorTeal40))
)
