// Package stats computes the dashboard's headline numbers and chart series
// from the canonical stops table.
package stats

import (
	"sort"

	"securecheck/table"

	"gonum.org/v1/gonum/stat"
)

// DefaultDurations is offered when the table has no stop_duration values.
var DefaultDurations = []string{"0-15 Min", "16-30 Min", "30+ Min"}

type Summary struct {
	TotalStops       int     `json:"total_stops"`
	TotalArrests     int     `json:"total_arrests"`
	TotalWarnings    int     `json:"total_warnings"`
	StopsWithSearch  int     `json:"stops_with_search"`
	DrugRelatedStops int     `json:"drug_related_stops"`
	UniqueViolations int     `json:"unique_violations"`
	AverageDriverAge float64 `json:"average_driver_age"`
}

// Point is one labelled value of a chart series.
type Point struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Series struct {
	Title   string  `json:"title"`
	Points  []Point `json:"points"`
	Warning string  `json:"warning,omitempty"`
}

func Summarize(t table.Table) Summary {
	s := Summary{TotalStops: t.Len()}

	if outcomes, ok := t.Column("stop_outcome"); ok {
		s.TotalArrests = countEqual(outcomes, "Arrest")
		s.TotalWarnings = countEqual(outcomes, "Warning")
	}
	if searched, ok := t.Column("search_conducted"); ok {
		s.StopsWithSearch = countEqual(searched, true)
	}
	if drugs, ok := t.Column("drugs_related_stop"); ok {
		s.DrugRelatedStops = countEqual(drugs, true)
	}
	if violations, ok := t.Column("violation"); ok {
		s.UniqueViolations = len(Unique(violations))
	}
	if ages, ok := t.Column("driver_age"); ok {
		var xs []float64
		for _, v := range ages {
			if a, ok := v.(int); ok {
				xs = append(xs, float64(a))
			}
		}
		if len(xs) > 0 {
			s.AverageDriverAge = stat.Mean(xs, nil)
		}
	}
	return s
}

// MetricsSeries renders the summary as a bar chart series.
func MetricsSeries(s Summary) Series {
	return Series{
		Title: "Traffic Stop Metrics",
		Points: []Point{
			{"Total Stops", s.TotalStops},
			{"Total Arrests", s.TotalArrests},
			{"Total Warnings", s.TotalWarnings},
			{"Stops with Search", s.StopsWithSearch},
			{"Drug-Related Searches", s.DrugRelatedStops},
			{"Unique Violations", s.UniqueViolations},
		},
	}
}

// DrugGenderSeries counts driver_gender among drug-related stops, most
// frequent first.
func DrugGenderSeries(t table.Table) Series {
	series := Series{Title: "Gender Distribution in Drug-Related Stops"}

	gi, di := t.Index("driver_gender"), t.Index("drugs_related_stop")
	if gi < 0 || di < 0 {
		series.Warning = "column driver_gender not found or has only null values"
		return series
	}

	drug := t.Filter(func(row []any) bool { return row[di] == true })
	genders, _ := drug.Column("driver_gender")
	counts := make(map[string]int)
	var order []string
	for _, g := range genders {
		s, ok := g.(string)
		if !ok {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		series.Warning = "column driver_gender not found or has only null values"
		return series
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for _, g := range order {
		series.Points = append(series.Points, Point{Label: g, Value: counts[g]})
	}
	return series
}

// Durations returns the sorted distinct stop_duration values, or
// DefaultDurations when there are none.
func Durations(t table.Table) []string {
	col, ok := t.Column("stop_duration")
	if !ok {
		return append([]string(nil), DefaultDurations...)
	}
	out := Unique(col)
	if len(out) == 0 {
		return append([]string(nil), DefaultDurations...)
	}
	sort.Strings(out)
	return out
}

// Unique returns the distinct present string values in first-seen order.
func Unique(values []any) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		s, ok := v.(string)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func countEqual(values []any, want any) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
