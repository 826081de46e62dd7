package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikluft/moveboxtracker/internal/service/batch"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

func newCommitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "commit <batch>",
		Short: "move every box scanned in a batch to the batch destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, records, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			coord := batch.NewCoordinator(store, records, sqlite.NewAuditLog(store), e.log)
			if err := coord.Commit(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "committed batch %d\n", id)
			return nil
		},
	}
}
