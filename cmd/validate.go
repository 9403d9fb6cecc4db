// file: phfwd/cmd/validate.go
package cmd

import (
	"fmt"

	"github.com/rskv-p/phfwd/pkg/x_num"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate num...",
		Short: "Check that each argument is a phone number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var bad int
			for _, num := range args {
				status := "ok"
				if !x_num.IsNumber(num) {
					status = "invalid"
					bad++
				}
				fmt.Fprintf(out, "%q %s\n", num, status)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d invalid: %w", bad, len(args), x_num.ErrInvalidNumber)
			}
			return nil
		},
	}
}
