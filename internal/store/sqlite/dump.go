package sqlite

import (
	"context"
	"fmt"
	"io"

	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Dump writes every table's rows to w, one "field=value" line per row, in
// schema creation order. Read-only; meant for inspection and backup review.
func (s *Store) Dump(ctx context.Context, w io.Writer, records *Records) error {
	for _, t := range schema.Tables {
		recs, err := records.List(ctx, t)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "-- %s (%d rows)\n", t.Name, len(recs)); err != nil {
			return err
		}
		for _, rec := range recs {
			for i, name := range rec.Fields() {
				if i > 0 {
					if _, err := io.WriteString(w, " "); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "%s=%v", name, rec[name]); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
