// Package prediction implements the exact-match "most common outcome" rule
// over the canonical stops table.
package prediction

import (
	"securecheck/table"
)

const (
	FallbackOutcome   = "Warning"
	FallbackViolation = "Speeding"
)

// Candidate holds the attributes a new stop is matched on.
type Candidate struct {
	Gender          string `json:"driver_gender"`
	Age             int    `json:"driver_age"`
	SearchConducted bool   `json:"search_conducted"`
	StopDuration    string `json:"stop_duration"`
	DrugsRelated    bool   `json:"drugs_related_stop"`
}

type Result struct {
	Outcome   string `json:"predicted_outcome"`
	Violation string `json:"predicted_violation"`
	Matches   int    `json:"matching_rows"`
	Fallback  bool   `json:"fallback"`
}

// Matches returns the rows of t whose five candidate attributes are all
// equal to c. A missing column matches nothing.
func Matches(t table.Table, c Candidate) table.Table {
	idx := [5]int{
		t.Index("driver_gender"),
		t.Index("driver_age"),
		t.Index("search_conducted"),
		t.Index("stop_duration"),
		t.Index("drugs_related_stop"),
	}
	for _, i := range idx {
		if i < 0 {
			return table.Table{Columns: t.Columns}
		}
	}

	return t.Filter(func(row []any) bool {
		return row[idx[0]] == c.Gender &&
			ageEquals(row[idx[1]], c.Age) &&
			row[idx[2]] == c.SearchConducted &&
			row[idx[3]] == c.StopDuration &&
			row[idx[4]] == c.DrugsRelated
	})
}

// Predict returns the most frequent stop_outcome and violation among the
// rows matching c, each chosen independently. Without matches it returns
// the fixed Warning/Speeding pair.
func Predict(t table.Table, c Candidate) Result {
	matched := Matches(t, c)
	if matched.Empty() {
		return Result{Outcome: FallbackOutcome, Violation: FallbackViolation, Fallback: true}
	}

	res := Result{Outcome: FallbackOutcome, Violation: FallbackViolation, Matches: matched.Len()}
	if col, ok := matched.Column("stop_outcome"); ok {
		if m, ok := Mode(col); ok {
			res.Outcome = m
		}
	}
	if col, ok := matched.Column("violation"); ok {
		if m, ok := Mode(col); ok {
			res.Violation = m
		}
	}
	return res
}

// Mode returns the most frequent string value, ties going to the value seen
// first. Non-string and absent values are skipped.
func Mode(values []any) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best, true
}

func ageEquals(v any, age int) bool {
	switch x := v.(type) {
	case int:
		return x == age
	case int64:
		return x == int64(age)
	case int32:
		return int(x) == age
	case float64:
		return x == float64(age)
	}
	return false
}
