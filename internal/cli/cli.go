// Package cli is the command-line surface over the record engine: argument
// parsing, interactive prompting for missing fields, and result formatting.
// Every engine error kind surfaces as a message and a non-zero exit status.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ikluft/moveboxtracker/internal/app"
	"github.com/ikluft/moveboxtracker/internal/config"
	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

// env carries the loaded configuration and logger into every subcommand.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	dbFlag string
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	e := &env{}

	root := &cobra.Command{
		Use:           "moveboxtracker",
		Short:         "track moving boxes, their contents, and batch moves",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = app.NewLogger(cfg.Log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&e.dbFlag, "db", "", "database file (default: MBT_DB_PATH, resolved under the XDG data dir)")

	root.AddCommand(
		newInitCmd(e),
		newDBCmd(e),
		newCommitCmd(e),
		newDumpCmd(e),
		newLabelCmd(e),
	)

	return root.ExecuteContext(ctx)
}

// open opens the configured database and wires the record engine over it.
// The caller closes the store.
func (e *env) open(ctx context.Context) (*sqlite.Store, *sqlite.Records, error) {
	name := e.dbFlag
	if name == "" {
		name = e.cfg.Database.Path
	}
	path, err := config.ResolveDBPath(name)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.Open(ctx, path, e.log)
	if err != nil {
		return nil, nil, err
	}
	records := sqlite.NewRecords(store, sqlite.NewAuditLog(store))
	return store, records, nil
}

// printRecord writes one record as field=value pairs on a single line.
func printRecord(cmd *cobra.Command, rec domain.Record) {
	out := cmd.OutOrStdout()
	for i, name := range rec.Fields() {
		if i > 0 {
			fmt.Fprint(out, " ")
		}
		fmt.Fprintf(out, "%s=%v", name, rec[name])
	}
	fmt.Fprintln(out)
}
