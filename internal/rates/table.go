package rates

// Entry is one tunable pricing parameter keyed by a stable rate code.
type Entry struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
	Value       float64 `json:"value"`
	ValueType   string  `json:"value_type"` // fixed | hourly | percent
	Category    string  `json:"category"`   // base | staff | equipment | surcharge | discount
}

// Table is a read-only snapshot of the active rate configuration taken for a
// single calculation. Lookups of absent codes resolve to zero and are
// recorded so the caller can surface them; the snapshot itself never fails a
// calculation over an incomplete table.
type Table struct {
	entries map[string]Entry
	missing []string
}

// NewTable builds a snapshot from entries keyed by rate code.
func NewTable(entries map[string]Entry) *Table {
	if entries == nil {
		entries = map[string]Entry{}
	}
	return &Table{entries: entries}
}

// Lookup returns the value stored for code, or zero when the code is absent.
// Missed codes are recorded for later inspection via Missing.
func (t *Table) Lookup(code string) float64 {
	entry, ok := t.entries[code]
	if !ok {
		t.missing = append(t.missing, code)
		return 0
	}
	return entry.Value
}

// Entry returns the full entry for code when present.
func (t *Table) Entry(code string) (Entry, bool) {
	entry, ok := t.entries[code]
	return entry, ok
}

// Missing lists the codes that were looked up but absent, in lookup order.
func (t *Table) Missing() []string {
	return t.missing
}

// Len reports the number of entries in the snapshot.
func (t *Table) Len() int {
	return len(t.entries)
}
