package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLabelCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "label <box>...",
		Short: "print label data for one or more boxes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				label, err := store.LabelData(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Box %03d | room %s (%s) | owner %s | if found contact %s\n",
					label.Box, label.Room, label.Color, label.User, label.Found)
			}
			return nil
		},
	}
}
