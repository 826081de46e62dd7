package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

func newInitCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create the database schema and the move project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, records, err := e.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.InitSchema(ctx); err != nil {
				return err
			}

			fields := fieldsFromFlags(cmd, schema.MoveProject)
			if err := promptMissing(cmd, schema.MoveProject, fields); err != nil {
				return err
			}

			// A primary user given by name is seeded as the first uri_user row.
			if _, ok := domain.AsID(fields["primary_user"]); !ok {
				id, err := records.Create(ctx, schema.URIUser, domain.Record{"name": fields["primary_user"]})
				switch {
				case err == nil:
					fields["primary_user"] = id
				case errors.Is(err, domain.ErrDuplicate):
					// existing user, Create resolves the name below
				default:
					return err
				}
			}

			project := sqlite.NewProject(store, sqlite.NewAuditLog(store))
			if err := project.Create(ctx, fields); err != nil {
				return err
			}

			e.log.Info("database initialized", "path", store.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", store.Path())
			return nil
		},
	}
	addFieldFlags(cmd, schema.MoveProject)
	return cmd
}
