// file: phfwd/cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/rskv-p/phfwd/config"
	"github.com/rskv-p/phfwd/pkg/x_log"
	"github.com/spf13/cobra"
)

// app carries the settings resolved before any subcommand runs.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "phfwd",
		Short:         "Phone-number forwarding directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a.cfg = cfg
			x_log.InitWithConfig(cfg.LogConfig(), "phfwd")
			x_log.Debug().Str("config", cfg.String()).Msg("config resolved")
			if show, _ := cmd.Flags().GetBool("show-config"); show {
				cfg.Dump(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to a JSON config file (default $"+config.EnvConfigPath+")")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error")
	pf.Int("max-nodes", 0, "bound on live trie nodes, 0 = unbounded")
	pf.Bool("metrics", false, "print engine metrics after the run")
	pf.Bool("stop-on-error", false, "abort a script at the first failing line")
	pf.Bool("show-config", false, "print the resolved config as JSON to stderr")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newLogsCmd(a))
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves file or env settings, then applies explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	var cfg *config.Config
	if path, _ := flags.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.LoadWithFallback()
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("max-nodes") {
		cfg.MaxNodes, _ = flags.GetInt("max-nodes")
	}
	if flags.Changed("metrics") {
		cfg.Metrics, _ = flags.GetBool("metrics")
	}
	if flags.Changed("stop-on-error") {
		cfg.StopOnError, _ = flags.GetBool("stop-on-error")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
