package schema

// Pragmas run on every connection before any statement. Foreign-key
// enforcement is off by default in SQLite and the engine relies on it.
var Pragmas = []string{
	"PRAGMA foreign_keys=ON",
}

// ddl holds the idempotent creation statements per table.
var ddl = map[string][]string{
	"location": {
		`CREATE TABLE IF NOT EXISTS location (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS location_id_index ON location(id)`,
	},
	"room": {
		`CREATE TABLE IF NOT EXISTS room (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    color TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS room_id_index ON room(id)`,
	},
	"uri_user": {
		`CREATE TABLE IF NOT EXISTS uri_user (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS uri_user_id_index ON uri_user(id)`,
	},
	"image": {
		`CREATE TABLE IF NOT EXISTS image (
    id INTEGER PRIMARY KEY,
    image_file TEXT UNIQUE NOT NULL,
    hash TEXT UNIQUE NOT NULL,
    mimetype TEXT,
    encoding TEXT,
    description TEXT,
    timestamp DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%SZ', 'now'))
)`,
		`CREATE INDEX IF NOT EXISTS image_id_index ON image(id)`,
	},
	"batch_move": {
		`CREATE TABLE IF NOT EXISTS batch_move (
    id INTEGER PRIMARY KEY,
    timestamp DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%SZ', 'now')),
    location INTEGER NOT NULL REFERENCES location (id)
)`,
		`CREATE INDEX IF NOT EXISTS batch_move_id_index ON batch_move(id)`,
	},
	"moving_box": {
		`CREATE TABLE IF NOT EXISTS moving_box (
    id INTEGER PRIMARY KEY,
    location INTEGER NOT NULL REFERENCES location (id),
    info TEXT NOT NULL,
    room INTEGER NOT NULL REFERENCES room (id),
    user INTEGER NOT NULL REFERENCES uri_user (id),
    image INTEGER REFERENCES image (id)
)`,
		`CREATE INDEX IF NOT EXISTS moving_box_id_index ON moving_box(id)`,
	},
	"box_scan": {
		`CREATE TABLE IF NOT EXISTS box_scan (
    id INTEGER PRIMARY KEY,
    box INTEGER NOT NULL REFERENCES moving_box (id),
    batch INTEGER NOT NULL REFERENCES batch_move (id),
    user INTEGER NOT NULL REFERENCES uri_user (id),
    timestamp DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%SZ', 'now'))
)`,
		`CREATE INDEX IF NOT EXISTS box_scan_id_index ON box_scan(id)`,
	},
	"item": {
		`CREATE TABLE IF NOT EXISTS item (
    id INTEGER PRIMARY KEY,
    box INTEGER NOT NULL REFERENCES moving_box (id),
    description TEXT NOT NULL,
    image INTEGER REFERENCES image (id)
)`,
		`CREATE INDEX IF NOT EXISTS item_id_index ON item(id)`,
	},
	"move_project": {
		`CREATE TABLE IF NOT EXISTS move_project (
    primary_user INTEGER NOT NULL REFERENCES uri_user (id),
    title TEXT NOT NULL,
    found_contact TEXT NOT NULL
)`,
	},
	"log": {
		`CREATE TABLE IF NOT EXISTS log (
    id INTEGER PRIMARY KEY,
    table_name TEXT NOT NULL,
    field_name TEXT NOT NULL,
    old_value TEXT,
    new_value TEXT,
    timestamp DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%SZ', 'now'))
)`,
		`CREATE INDEX IF NOT EXISTS log_table_name_index ON log(table_name)`,
	},
}

// DDL returns the table's idempotent creation statements.
func (t *Table) DDL() []string {
	return ddl[t.Name]
}
