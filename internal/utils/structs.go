package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

type column struct {
	name  string
	index int
}

// columns returns the struct value behind input and its exported fields
// carrying a ColumnTag, in declaration order. Fields tagged "-" are skipped.
func columns(input any) (reflect.Value, []column) {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	t := v.Type()
	out := make([]column, 0, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get(ColumnTag)
		if name == "" || name == "-" {
			continue
		}

		out = append(out, column{name: name, index: i})
	}

	return v, out
}

// StructTagValues lists the column names of a db-tagged struct.
func StructTagValues(input any) []string {
	_, cols := columns(input)

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.name)
	}
	return names
}

// StructToMap maps column names to field values, ready for squirrel SetMap.
func StructToMap(input any) map[string]any {
	v, cols := columns(input)

	row := make(map[string]any, len(cols))
	for _, c := range cols {
		row[c.name] = v.Field(c.index).Interface()
	}
	return row
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil || msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
