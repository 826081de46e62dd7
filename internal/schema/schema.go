// Package schema is the static description of every tracked table: ordered
// field descriptors, uniqueness, foreign-key targets, and the DDL to create
// them. Pure data; the storage adapter drives all query building from it.
package schema

// Kind is the storage type of a field.
type Kind int

const (
	Text Kind = iota
	Integer
	Timestamp
)

// Normalization applied to a field value before writing.
type Normalize int

const (
	None Normalize = iota
	// Color validates a web color name and lowercases it.
	Color
	// Time converts "now"/RFC 3339 input to the UTC storage format.
	Time
)

// Field describes one column of a table.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Unique   bool
	// References is the target table when this field is a foreign key.
	References *Table
	// Prompt is the interactive prompt text for CLI backfill of this field.
	Prompt string
	// Normalize selects value normalization applied on write.
	Normalize Normalize
	// DefaultPrimaryUser fills the field from the move project's primary
	// user when absent on create.
	DefaultPrimaryUser bool
	// DefaultNow lets the store fill in the creation time when absent.
	DefaultNow bool
}

// Table describes one tracked table. The id primary key is implicit on every
// table except the singleton move_project.
type Table struct {
	Name   string
	Fields []Field
	// Singleton marks the zero-or-one-row move_project table (no id column).
	Singleton bool
	// AppendOnly marks the audit log: generic create/update/delete refused.
	AppendOnly bool
	// NameField is the unique display-name column used for reference
	// resolution ("" when rows can only be referenced by id).
	NameField string
}

// Field returns the descriptor for a named field.
func (t *Table) Field(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// FieldNames returns the table's column names in schema order, with the
// implicit id column first where present.
func (t *Table) FieldNames() []string {
	names := make([]string, 0, len(t.Fields)+1)
	if !t.Singleton {
		names = append(names, "id")
	}
	for i := range t.Fields {
		names = append(names, t.Fields[i].Name)
	}
	return names
}

// UniqueFields returns descriptors of the fields carrying a uniqueness
// constraint.
func (t *Table) UniqueFields() []*Field {
	var out []*Field
	for i := range t.Fields {
		if t.Fields[i].Unique {
			out = append(out, &t.Fields[i])
		}
	}
	return out
}

// RequiredFields returns descriptors of the required fields.
func (t *Table) RequiredFields() []*Field {
	var out []*Field
	for i := range t.Fields {
		if t.Fields[i].Required {
			out = append(out, &t.Fields[i])
		}
	}
	return out
}

// IsReference reports whether the named field is a foreign key, and to where.
func (t *Table) IsReference(name string) (*Table, bool) {
	f, ok := t.Field(name)
	if !ok || f.References == nil {
		return nil, false
	}
	return f.References, true
}

// Leaf tables first: referenced tables must exist before their referrers so
// package initialization and schema creation can walk Tables in order.
var (
	Location = &Table{
		Name:      "location",
		NameField: "name",
		Fields: []Field{
			{Name: "name", Kind: Text, Required: true, Unique: true, Prompt: "location name"},
		},
	}

	Room = &Table{
		Name:      "room",
		NameField: "name",
		Fields: []Field{
			{Name: "name", Kind: Text, Required: true, Unique: true, Prompt: "room name"},
			{Name: "color", Kind: Text, Required: true, Prompt: "room label color", Normalize: Color},
		},
	}

	URIUser = &Table{
		Name:      "uri_user",
		NameField: "name",
		Fields: []Field{
			{Name: "name", Kind: Text, Required: true, Unique: true, Prompt: "user name/address"},
		},
	}

	Image = &Table{
		Name:      "image",
		NameField: "hash",
		Fields: []Field{
			{Name: "image_file", Kind: Text, Required: true, Unique: true, Prompt: "image file path"},
			{Name: "hash", Kind: Text, Required: true, Unique: true},
			{Name: "mimetype", Kind: Text},
			{Name: "encoding", Kind: Text},
			{Name: "description", Kind: Text, Prompt: "image description"},
			{Name: "timestamp", Kind: Timestamp, Normalize: Time, DefaultNow: true},
		},
	}

	BatchMove = &Table{
		Name: "batch_move",
		Fields: []Field{
			{Name: "timestamp", Kind: Timestamp, Normalize: Time, DefaultNow: true},
			{Name: "location", Kind: Integer, Required: true, References: Location, Prompt: "move destination location"},
		},
	}

	MovingBox = &Table{
		Name: "moving_box",
		Fields: []Field{
			{Name: "location", Kind: Integer, Required: true, References: Location, Prompt: "box location"},
			{Name: "info", Kind: Text, Required: true, Prompt: "box description/info"},
			{Name: "room", Kind: Integer, Required: true, References: Room, Prompt: "box origin/destination room"},
			{Name: "user", Kind: Integer, Required: true, References: URIUser, DefaultPrimaryUser: true},
			{Name: "image", Kind: Integer, References: Image},
		},
	}

	BoxScan = &Table{
		Name: "box_scan",
		Fields: []Field{
			{Name: "box", Kind: Integer, Required: true, References: MovingBox},
			{Name: "batch", Kind: Integer, Required: true, References: BatchMove},
			{Name: "user", Kind: Integer, Required: true, References: URIUser, DefaultPrimaryUser: true},
			{Name: "timestamp", Kind: Timestamp, Normalize: Time, DefaultNow: true},
		},
	}

	Item = &Table{
		Name: "item",
		Fields: []Field{
			{Name: "box", Kind: Integer, Required: true, References: MovingBox},
			{Name: "description", Kind: Text, Required: true, Prompt: "item description/info"},
			{Name: "image", Kind: Integer, References: Image},
		},
	}

	MoveProject = &Table{
		Name:      "move_project",
		Singleton: true,
		Fields: []Field{
			{Name: "primary_user", Kind: Integer, Required: true, References: URIUser, Prompt: "primary user name/address"},
			{Name: "title", Kind: Text, Required: true, Prompt: "project title"},
			{Name: "found_contact", Kind: Text, Required: true, Prompt: "label found/contact info"},
		},
	}

	Log = &Table{
		Name:       "log",
		AppendOnly: true,
		Fields: []Field{
			{Name: "table_name", Kind: Text, Required: true},
			{Name: "field_name", Kind: Text, Required: true},
			{Name: "old_value", Kind: Text},
			{Name: "new_value", Kind: Text},
			{Name: "timestamp", Kind: Timestamp, Required: true, DefaultNow: true},
		},
	}
)

// Tables lists every table in creation order (references before referrers).
var Tables = []*Table{
	Location,
	Room,
	URIUser,
	Image,
	BatchMove,
	MovingBox,
	BoxScan,
	Item,
	MoveProject,
	Log,
}

// Aliases maps the CLI's short table names to schema tables. Short names suit
// a command line; descriptive names suit an SQL schema; a few (box, user) are
// also avoided in SQL because of keyword conflicts.
var Aliases = map[string]*Table{
	"batch":    BatchMove,
	"box":      MovingBox,
	"image":    Image,
	"item":     Item,
	"location": Location,
	"project":  MoveProject,
	"room":     Room,
	"scan":     BoxScan,
	"user":     URIUser,
	"log":      Log,
}

// Lookup finds a table by schema name or CLI alias.
func Lookup(name string) (*Table, bool) {
	if t, ok := Aliases[name]; ok {
		return t, true
	}
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
