package cli

import (
	"github.com/spf13/cobra"
)

func newDumpCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "write every table's records to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, records, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Dump(cmd.Context(), cmd.OutOrStdout(), records)
		},
	}
}
