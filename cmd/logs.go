// file: phfwd/cmd/logs.go
package cmd

import (
	"github.com/rskv-p/phfwd/pkg/x_log"
	"github.com/spf13/cobra"
)

func newLogsCmd(a *app) *cobra.Command {
	var lines int
	c := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tail, err := x_log.Tail(a.cfg.Log.LogFile, lines)
			if err != nil {
				return err
			}
			x_log.PrintLines(cmd.OutOrStdout(), tail, "|")
			return nil
		},
	}
	c.Flags().IntVarP(&lines, "lines", "n", 20, "number of lines")
	return c
}
