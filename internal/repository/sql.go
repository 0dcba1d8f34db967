package repository

import (
	"fmt"
	"strings"

	"github.com/orenshv/flightsdb/internal/domain"
)

// insertSQL builds an INSERT for the conformed fields, ordered by the
// descriptor's column order so generated statements are deterministic.
func insertSQL(d domain.Descriptor, fields domain.Record) (string, []any) {
	cols := make([]string, 0, len(fields))
	placeholders := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, c := range d.Columns {
		value, ok := fields[c.Name]
		if !ok {
			continue
		}
		cols = append(cols, c.Name)
		args = append(args, value)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		d.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return sql, args
}

// updateSQL builds a partial UPDATE touching only the supplied columns. The
// updated_at column is always refreshed, so an empty patch is still a valid
// statement.
func updateSQL(d domain.Descriptor, id int64, fields domain.Record) (string, []any) {
	sets := []string{"updated_at = now()"}
	args := make([]any, 0, len(fields)+1)
	for _, c := range d.Columns {
		value, ok := fields[c.Name]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		d.Table, strings.Join(sets, ", "), len(args))
	return sql, args
}

// constraintField maps a violated constraint name back to the offending field.
// Postgres names single-column constraints "<table>_<column>_key" (or "_fkey");
// anything that does not resolve to one column is reported as a non-field error.
func constraintField(d domain.Descriptor, constraint string) string {
	name := strings.TrimPrefix(constraint, d.Table+"_")
	name = strings.TrimSuffix(name, "_fkey")
	name = strings.TrimSuffix(name, "_key")
	if _, ok := d.Field(name); ok {
		return name
	}
	return domain.NonFieldErrors
}
