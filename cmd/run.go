// file: phfwd/cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rskv-p/phfwd/forward"
	"github.com/rskv-p/phfwd/pkg/x_log"
	"github.com/rskv-p/phfwd/pkg/x_metrics"
	"github.com/rskv-p/phfwd/recover"
	"github.com/rskv-p/phfwd/script"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [file...]",
		Short: "Execute command scripts against one directory (stdin when no file is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
}

func (a *app) run(ctx context.Context, in io.Reader, out, errOut io.Writer, files []string) error {
	var m *x_metrics.Metrics
	if a.cfg.Metrics {
		m = x_metrics.New(prometheus.Labels{"directory": a.cfg.Name})
	}

	f, err := forward.New(
		forward.WithMaxNodes(a.cfg.MaxNodes),
		forward.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	defer f.Delete()

	log := x_log.New("run")
	log.Debug().Str("engine", f.ID()).Int("max_nodes", a.cfg.MaxNodes).Msg("directory created")

	r := script.New(f, out,
		script.WithStopOnError(a.cfg.StopOnError),
		script.WithMetrics(m),
		script.WithStyle(isTerminal(out)),
	)

	var errs []error
	if len(files) == 0 {
		errs = append(errs, r.Run(ctx, in))
	}
	for _, name := range files {
		err := recover.RecoverFunc(name, func() error {
			return runFile(ctx, r, name)
		})
		errs = append(errs, err)
		if err != nil && a.cfg.StopOnError {
			break
		}
	}

	if m != nil {
		recover.Safe("metrics", func() {
			if err := m.Write(errOut); err != nil {
				errs = append(errs, err)
			}
		})
	}
	if r.Failures() > 0 {
		log.Warn().Int("failures", r.Failures()).Msg("script finished with errors")
	}
	return errors.Join(errs...)
}

func runFile(ctx context.Context, r *script.Runner, name string) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer file.Close()
	if err := r.Run(ctx, file); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
