package sqlite

import (
	"context"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// labelQuery joins one box with its room, owner, and the project's
// found-contact info. The label renderer reads this projection and nothing
// else.
const labelQuery = `SELECT box.id AS box, room.name AS room, room.color AS color,
    user.name AS user, project.found_contact AS found
FROM moving_box AS box, room, uri_user AS user, move_project AS project
WHERE box.id = ? AND room.id = box.room AND user.id = box.user AND project.rowid = 1`

// LabelData returns the data needed to render one box label.
func (s *Store) LabelData(ctx context.Context, boxID int64) (*domain.BoxLabel, error) {
	s.log.Debug("executing SQL", "sql", labelQuery, "args", []any{boxID})
	var label domain.BoxLabel
	if err := sqlscan.Get(ctx, s.querier(ctx), &label, labelQuery, boxID); err != nil {
		if sqlscan.NotFound(err) {
			return nil, &domain.NotFoundError{Table: schema.MovingBox.Name, ID: boxID}
		}
		return nil, mapError(err, schema.MovingBox, boxID)
	}
	return &label, nil
}
