package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"initial schema", "001_initial_schema.sql", 1},
		{"two-digit version", "012_add_indexes.sql", 12},
		{"no numeric prefix", "schema.sql", 0},
		{"not a sql file", "001_notes.md", 0},
		{"zero version", "000_bad.sql", 0},
		{"negative prefix", "-01_bad.sql", 0},
		{"no underscore", "001.sql", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.filename); got != tc.expected {
				t.Errorf("migrationVersion(%q) = %d, want %d", tc.filename, got, tc.expected)
			}
		})
	}
}
