// Package cleaning normalizes a raw traffic_stops result into the canonical
// table used for display, statistics and prediction.
package cleaning

import (
	"math"
	"sort"

	"securecheck/table"

	"gonum.org/v1/gonum/stat"
)

const Unknown = "Unknown"

// CategoricalColumns are filled with Unknown when absent.
var CategoricalColumns = []string{
	"driver_gender",
	"driver_race",
	"country_name",
	"violation",
	"stop_outcome",
	"search_type",
	"stop_duration",
}

// BooleanColumns are filled with false when absent and coerced to bool.
var BooleanColumns = []string{
	"search_conducted",
	"drugs_related_stop",
	"is_arrested",
}

const (
	AgeColumn  = "driver_age"
	DateColumn = "stop_date"
	TimeColumn = "stop_time"
)

// Clean returns the canonical form of raw. raw is not modified.
//
// Steps run in a fixed order: all-absent columns are dropped, categorical
// and boolean defaults are filled, driver_age is imputed with the median of
// its numeric values and truncated to int, then stop_date and stop_time are
// parsed leniently with failures left absent. A coerced column left with no
// present value is dropped, so Clean(Clean(x)) equals Clean(x).
//
// Consumers must tolerate a missing stop_date or stop_time column: one whose
// values are all present but unparseable does not survive cleaning.
func Clean(raw table.Table) table.Table {
	out := dropAbsentColumns(raw.Clone())

	for _, name := range CategoricalColumns {
		mapColumn(out, name, func(v any) any {
			if table.IsAbsent(v) {
				return Unknown
			}
			return toText(v)
		})
	}

	for _, name := range BooleanColumns {
		mapColumn(out, name, func(v any) any { return toBool(v) })
	}

	cleanAge(out)
	mapColumn(out, DateColumn, toDate)
	mapColumn(out, TimeColumn, toClock)

	return dropAbsentColumns(out)
}

func dropAbsentColumns(t table.Table) table.Table {
	var empty []string
	for i, name := range t.Columns {
		absent := true
		for _, row := range t.Rows {
			if i < len(row) && !table.IsAbsent(row[i]) {
				absent = false
				break
			}
		}
		if absent {
			empty = append(empty, name)
		}
	}
	if len(empty) == 0 {
		return t
	}
	return t.Drop(empty...)
}

func mapColumn(t table.Table, name string, fn func(any) any) {
	idx := t.Index(name)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		row[idx] = fn(row[idx])
	}
}

func cleanAge(t table.Table) {
	idx := t.Index(AgeColumn)
	if idx < 0 {
		return
	}

	ages := make([]*float64, len(t.Rows))
	var present []float64
	for i, row := range t.Rows {
		if f, ok := toAge(row[idx]); ok {
			ages[i] = &f
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		for _, row := range t.Rows {
			row[idx] = nil
		}
		return
	}

	fill := median(present)
	for i, row := range t.Rows {
		v := fill
		if ages[i] != nil {
			v = *ages[i]
		}
		row[idx] = int(math.Trunc(v))
	}
}

// median of vals; the mean of the two middle values for an even count.
func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}
