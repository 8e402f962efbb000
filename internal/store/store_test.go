package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		query string
		ok    bool
	}{
		{"SELECT * FROM characters", true},
		{"  select name from characters", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"DELETE FROM characters", false},
		{"update characters set name = 'x'", false},
		{"", false},
	}
	for _, tt := range tests {
		err := CheckReadOnly(tt.query)
		if tt.ok && err != nil {
			t.Fatalf("expected %q to pass, got %v", tt.query, err)
		}
		if !tt.ok && !errors.Is(err, ErrNotReadOnly) {
			t.Fatalf("expected %q to be rejected, got %v", tt.query, err)
		}
	}
}

func TestPositionalArgs(t *testing.T) {
	got := PositionalArgs(map[string]any{"2": "b", "1": "a", "4": "d"})
	want := []any{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := PositionalArgs(nil); len(got) != 0 {
		t.Fatalf("expected no args, got %v", got)
	}
}
