package domain

import (
	"fmt"
	"time"
)

// Record is the wire representation of one stored row: a mapping from column
// name to value. A non-nil empty Record means "no such row".
type Record map[string]any

// FieldErrors collects per-field validation messages. Errors that belong to no
// single field (composite uniqueness) are keyed under "non_field_errors".
type FieldErrors map[string][]string

const NonFieldErrors = "non_field_errors"

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Public returns a copy of rec with sensitive columns removed.
func (d Descriptor) Public(rec Record) Record {
	out := make(Record, len(rec))
	for name, value := range rec {
		if c, ok := d.Field(name); ok && c.Sensitive {
			continue
		}
		out[name] = value
	}
	return out
}

// ConformNew validates fields for insertion against the descriptor and coerces
// values to their column types. Returns nil FieldErrors on success.
func (d Descriptor) ConformNew(fields Record) (Record, FieldErrors) {
	ferrs := FieldErrors{}
	out := make(Record, len(fields))
	for name, value := range fields {
		c, ok := d.Field(name)
		if !ok {
			ferrs.Add(name, "unknown field")
			continue
		}
		coerced, ok := coerce(c.Type, value)
		if !ok {
			ferrs.Add(name, fmt.Sprintf("expected a %s value", c.Type))
			continue
		}
		out[name] = coerced
	}
	for _, c := range d.Columns {
		if !c.Required {
			continue
		}
		if _, present := out[c.Name]; !present {
			if len(ferrs[c.Name]) == 0 {
				ferrs.Add(c.Name, "this field is required")
			}
		}
	}
	if len(ferrs) > 0 {
		return nil, ferrs
	}
	return out, nil
}

// ConformPatch validates a partial update: only supplied fields are checked,
// required columns may be absent.
func (d Descriptor) ConformPatch(fields Record) (Record, FieldErrors) {
	ferrs := FieldErrors{}
	out := make(Record, len(fields))
	for name, value := range fields {
		c, ok := d.Field(name)
		if !ok {
			ferrs.Add(name, "unknown field")
			continue
		}
		coerced, ok := coerce(c.Type, value)
		if !ok {
			ferrs.Add(name, fmt.Sprintf("expected a %s value", c.Type))
			continue
		}
		out[name] = coerced
	}
	if len(ferrs) > 0 {
		return nil, ferrs
	}
	return out, nil
}

// coerce converts a raw field value to the canonical Go type for a column.
// JSON decoding hands integers over as float64 and timestamps as RFC 3339
// strings, so both forms are accepted.
func coerce(t ColumnType, value any) (any, bool) {
	if value == nil {
		return nil, true
	}
	switch t {
	case ColInt:
		switch v := value.(type) {
		case int:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			if v != float64(int64(v)) {
				return nil, false
			}
			return int64(v), true
		}
	case ColText:
		if v, ok := value.(string); ok {
			return v, true
		}
	case ColBool:
		if v, ok := value.(bool); ok {
			return v, true
		}
	case ColTime:
		switch v := value.(type) {
		case time.Time:
			return v, true
		case string:
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, false
			}
			return parsed, true
		}
	}
	return nil, false
}
