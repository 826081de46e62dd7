package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

// cliTables lists the db subcommands in display order.
var cliTables = []string{
	"batch", "box", "image", "item", "location", "project", "room", "scan", "user", "log",
}

func newDBCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "record operations on one table",
	}
	for _, alias := range cliTables {
		t := schema.Aliases[alias]
		cmd.AddCommand(newTableCmd(e, alias, t))
	}
	return cmd
}

func newTableCmd(e *env, alias string, t *schema.Table) *cobra.Command {
	cmd := &cobra.Command{
		Use:   alias,
		Short: fmt.Sprintf("operations on the %s table", t.Name),
	}

	switch {
	case t.Singleton:
		cmd.AddCommand(newProjectCreateCmd(e), newProjectReadCmd(e), newProjectUpdateCmd(e))
	case t.AppendOnly:
		cmd.AddCommand(newReadCmd(e, t), newListCmd(e, t))
	default:
		cmd.AddCommand(
			newCreateCmd(e, t),
			newReadCmd(e, t),
			newUpdateCmd(e, t),
			newDeleteCmd(e, t),
			newListCmd(e, t),
		)
	}
	if t == schema.Image {
		cmd.AddCommand(newImageAddCmd(e))
	}
	return cmd
}

func newCreateCmd(e *env, t *schema.Table) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a record, prompting for missing required fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, records, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fields := fieldsFromFlags(cmd, t)
			if err := promptMissing(cmd, t, fields); err != nil {
				return err
			}
			id, err := records.Create(cmd.Context(), t, fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s id %d\n", t.Name, id)
			return nil
		},
	}
	addFieldFlags(cmd, t)
	return cmd
}

func newReadCmd(e *env, t *schema.Table) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "read one record by id",
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

			rec, err := records.Get(cmd.Context(), t, id)
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
}

func newUpdateCmd(e *env, t *schema.Table) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "update the supplied fields of one record",
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

			rec, err := records.Update(cmd.Context(), t, id, fieldsFromFlags(cmd, t))
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
	addFieldFlags(cmd, t)
	return cmd
}

func newDeleteCmd(e *env, t *schema.Table) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "delete one record by id",
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

			if err := records.Delete(cmd.Context(), t, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s id %d\n", t.Name, id)
			return nil
		},
	}
}

func newListCmd(e *env, t *schema.Table) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list all records in ascending id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, records, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := records.List(cmd.Context(), t)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				printRecord(cmd, rec)
			}
			return nil
		},
	}
}

func newProjectCreateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create the move project (exactly one per database)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fields := fieldsFromFlags(cmd, schema.MoveProject)
			if err := promptMissing(cmd, schema.MoveProject, fields); err != nil {
				return err
			}
			project := sqlite.NewProject(store, sqlite.NewAuditLog(store))
			if err := project.Create(cmd.Context(), fields); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created move project")
			return nil
		},
	}
	addFieldFlags(cmd, schema.MoveProject)
	return cmd
}

func newProjectReadCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "read the move project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			project := sqlite.NewProject(store, sqlite.NewAuditLog(store))
			rec, err := project.Get(cmd.Context())
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
}

func newProjectUpdateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "update the supplied fields of the move project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			project := sqlite.NewProject(store, sqlite.NewAuditLog(store))
			rec, err := project.Set(cmd.Context(), fieldsFromFlags(cmd, schema.MoveProject))
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
	addFieldFlags(cmd, schema.MoveProject)
	return cmd
}

func newImageAddCmd(e *env) *cobra.Command {
	var file, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "register an image file, reusing the record if the content is already stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, records, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			images := sqlite.NewImages(store, records)
			id, err := images.EnsureFromFile(cmd.Context(), file, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "image id %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "image file path")
	cmd.Flags().StringVar(&description, "description", "", "image description")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a record id", domain.ErrValidation, arg)
	}
	return id, nil
}
