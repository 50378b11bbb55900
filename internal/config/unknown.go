package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields returns a warning for every top-level key that no
// section reads. Keys inside known sections are checked by the schema.
func detectUnknownFields(raw map[string]interface{}) []string {
	known := getYAMLFields(reflect.TypeOf(Config{}))

	var keys []string
	for key := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !known[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	warnings := make([]string, 0, len(keys))
	for _, key := range keys {
		warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
	}
	return warnings
}

// getYAMLFields returns a map of known YAML field names for a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
