package router

// Table is an ordered, immutable list of route entries. The first entry
// whose pattern matches a path wins.
type Table struct {
	entries []Entry
	byName  map[string]int
}

// NewTable validates and compiles entries into a table. The input slice is
// copied; later changes to it do not affect the table.
func NewTable(entries ...Entry) (*Table, error) {
	v := &validator{entries: append([]Entry(nil), entries...)}
	if err := v.validate(); err != nil {
		return nil, err
	}

	t := &Table{
		entries: v.entries,
		byName:  make(map[string]int, len(v.entries)),
	}
	for i, e := range t.entries {
		if e.Name != "" {
			t.byName[e.Name] = i
		}
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
// Intended for tables declared at package level.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in match order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the entry registered under name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}
