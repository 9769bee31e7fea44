// Package table holds the in-memory tabular result shared by the record
// store reader, the cleaning pipeline and the presentation layer.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Table is a set of named columns and ordered rows. A nil cell is an absent
// value.
type Table struct {
	Columns []string
	Rows    [][]any
}

func New(columns []string, rows [][]any) Table {
	return Table{Columns: columns, Rows: rows}
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Index returns the position of the named column, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the named column's cells.
func (t Table) Column(name string) ([]any, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = cell(row, idx)
	}
	return out, true
}

// Value returns the cell at row i of the named column.
func (t Table) Value(i int, name string) (any, bool) {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	return cell(t.Rows[i], idx), true
}

// Clone deep-copies the row slices. Cell values are immutable scalars and
// are shared.
func (t Table) Clone() Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(cols))
		copy(r, row)
		rows[i] = r
	}
	return Table{Columns: cols, Rows: rows}
}

// Drop returns a table without the named columns.
func (t Table) Drop(names ...string) Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []int
	var cols []string
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(keep))
		for j, idx := range keep {
			r[j] = cell(row, idx)
		}
		rows[i] = r
	}
	return Table{Columns: cols, Rows: rows}
}

// Filter returns the rows for which keep reports true, in table order.
func (t Table) Filter(keep func(row []any) bool) Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Head returns at most the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Slice returns rows [offset, offset+limit).
func (t Table) Slice(offset, limit int) Table {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.Rows) {
		offset = len(t.Rows)
	}
	end := offset + limit
	if limit < 0 || end > len(t.Rows) {
		end = len(t.Rows)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[offset:end]}
}

// Records renders every row as a column-keyed map.
func (t Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = cell(row, i)
		}
		out = append(out, rec)
	}
	return out
}

func (t Table) MarshalJSON() ([]byte, error) {
	cols := t.Columns
	if cols == nil {
		cols = []string{}
	}
	return json.Marshal(struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}{cols, t.Records()})
}

// IsAbsent reports whether v is a missing value: nil or a NaN float.
func IsAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

func cell(row []any, idx int) any {
	if idx < len(row) {
		return row[idx]
	}
	return nil
}

// Date is a calendar date without a clock.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// TimeOfDay is a clock reading within a single day.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (c TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Kitchen formats the clock as "03:04 PM".
func (c TimeOfDay) Kitchen() string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, c.Second, 0, time.UTC).Format("03:04 PM")
}

func (c TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
