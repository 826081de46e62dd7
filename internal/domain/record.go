// Package domain holds the entity types, error kinds, and value normalization
// shared by the storage adapter, the batch service, and the CLI.
package domain

import (
	"sort"
	"strconv"
)

// Record is one row of any tracked table, keyed by schema field name.
// Values are whatever the driver returned: int64, string, or nil.
type Record map[string]any

// ID returns the record's surrogate primary key, or 0 if unset.
func (r Record) ID() int64 {
	id, _ := AsID(r["id"])
	return id
}

// Fields returns the record's field names in sorted order, "id" first.
func (r Record) Fields() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		if name != "id" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := r["id"]; ok {
		names = append([]string{"id"}, names...)
	}
	return names
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// AsID interprets a value as a row id: integer types pass through, strings
// must be all digits. The second return is false when the value is not an id.
func AsID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

// BoxLabel is the read-only projection consumed by the label renderer:
// one box joined with its room, owner, and the project's found-contact info.
type BoxLabel struct {
	Box   int64  `db:"box"`
	Room  string `db:"room"`
	Color string `db:"color"`
	User  string `db:"user"`
	Found string `db:"found"`
}
