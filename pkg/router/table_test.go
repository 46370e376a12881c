package router

import (
	"errors"
	"strings"
	"testing"
)

func validEntries() []Entry {
	return []Entry{
		{Pattern: "/", Name: "Home", Target: View("Home")},
		{Pattern: "/settings", Name: "Settings", Target: View("Settings")},
		{Pattern: "/:pathMatch(.*)*", Target: RedirectTo("/")},
	}
}

func TestNewTable(t *testing.T) {
	entries := validEntries()
	table, err := NewTable(entries...)
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	// The table keeps its own copy.
	entries[1].Pattern = "/changed"
	if got := table.Entries()[1].Pattern; got != "/settings" {
		t.Errorf("table entry changed through caller slice: %q", got)
	}

	// Entries returns a copy.
	list := table.Entries()
	list[0].Name = "Other"
	if _, ok := table.Lookup("Home"); !ok {
		t.Error("Lookup(Home) failed after mutating Entries() result")
	}

	e, ok := table.Lookup("Settings")
	if !ok || e.Pattern != "/settings" {
		t.Errorf("Lookup(Settings) = %+v, %v", e, ok)
	}
	if _, ok := table.Lookup(""); ok {
		t.Error("Lookup(\"\") should not find the unnamed catch-all")
	}
	if !table.Entries()[2].IsCatchAll() {
		t.Error("last entry should be a catch-all")
	}
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    ValidationErrorType
	}{
		{
			name: "empty",
			want: ErrorEmptyTable,
		},
		{
			name:    "invalid pattern",
			entries: []Entry{{Pattern: "no-slash", Target: View("X")}},
			want:    ErrorInvalidPattern,
		},
		{
			name:    "missing target",
			entries: []Entry{{Pattern: "/"}},
			want:    ErrorInvalidTarget,
		},
		{
			name:    "relative redirect",
			entries: []Entry{{Pattern: "/", Target: RedirectTo("home")}},
			want:    ErrorInvalidTarget,
		},
		{
			name: "duplicate pattern",
			entries: []Entry{
				{Pattern: "/a", Name: "A", Target: View("A")},
				{Pattern: "/a", Name: "B", Target: View("B")},
			},
			want: ErrorDuplicatePattern,
		},
		{
			name: "duplicate name",
			entries: []Entry{
				{Pattern: "/a", Name: "A", Target: View("A")},
				{Pattern: "/b", Name: "A", Target: View("B")},
			},
			want: ErrorDuplicateName,
		},
		{
			name: "catch-all not last",
			entries: []Entry{
				{Pattern: "/:pathMatch(.*)*", Target: RedirectTo("/")},
				{Pattern: "/", Name: "Home", Target: View("Home")},
			},
			want: ErrorCatchAllNotLast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries...)
			var multi *MultiValidationError
			if !errors.As(err, &multi) {
				t.Fatalf("NewTable() error = %v, want *MultiValidationError", err)
			}
			if !multi.Has(tt.want) {
				t.Errorf("errors %v do not include %s", multi.Errors, tt.want)
			}
		})
	}
}

func TestNewTableCollectsAllErrors(t *testing.T) {
	_, err := NewTable(
		Entry{Pattern: "/a", Name: "A", Target: View("A")},
		Entry{Pattern: "/a", Name: "A", Target: View("A")},
		Entry{Pattern: "bad", Target: View("B")},
	)
	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("expected *MultiValidationError, got %v", err)
	}
	if len(multi.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(multi.Errors), multi.Errors)
	}
	if !strings.Contains(multi.Error(), "3 route validation errors") {
		t.Errorf("Error() = %q", multi.Error())
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustTable should panic on an invalid table")
		}
	}()
	MustTable()
}
