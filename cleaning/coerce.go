package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"securecheck/table"
)

var (
	trueWords  = map[string]bool{"1": true, "true": true, "t": true, "yes": true, "y": true, "on": true}
	falseWords = map[string]bool{"": true, "0": true, "false": true, "f": true, "no": true, "n": true, "off": true}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"20060102",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"15:04:05.999999999",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
}

// toText renders a present categorical value as a string.
func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// toBool applies truthy/falsy coercion. Absent values are false.
func toBool(v any) bool {
	if table.IsAbsent(v) {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if trueWords[s] {
			return true
		}
		if falseWords[s] {
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return true
	case []byte:
		return toBool(string(x))
	}
	if f, ok := toNumber(v); ok {
		return f != 0
	}
	return true
}

// toNumber coerces v to a float. Strings are parsed; NaN fails.
func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case bool:
		if x {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case []byte:
		return toNumber(string(x))
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toAge coerces v to a non-negative age.
func toAge(v any) (float64, bool) {
	f, ok := toNumber(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// toDate returns a calendar date or nil.
func toDate(v any) any {
	switch x := v.(type) {
	case table.Date:
		return x
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return table.DateOf(x)
	case string:
		if t, ok := parseAny(strings.TrimSpace(x), dateLayouts); ok {
			return table.DateOf(t)
		}
	case []byte:
		return toDate(string(x))
	}
	return nil
}

// toClock returns the time-of-day component or nil.
func toClock(v any) any {
	switch x := v.(type) {
	case table.TimeOfDay:
		return x
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return table.TimeOfDayOf(x)
	case time.Duration:
		if x < 0 || x >= 24*time.Hour {
			return nil
		}
		return table.TimeOfDayOf(time.Time{}.Add(x))
	case string:
		s := strings.TrimSpace(x)
		if t, ok := parseAny(s, clockLayouts); ok {
			return table.TimeOfDayOf(t)
		}
		if t, ok := parseAny(s, dateLayouts); ok {
			return table.TimeOfDayOf(t)
		}
	case []byte:
		return toClock(string(x))
	}
	return nil
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseClock applies the stop_time coercion to free-text input.
func ParseClock(s string) (table.TimeOfDay, bool) {
	c, ok := toClock(s).(table.TimeOfDay)
	return c, ok
}

// ParseDate applies the stop_date coercion to free-text input.
func ParseDate(s string) (table.Date, bool) {
	d, ok := toDate(s).(table.Date)
	return d, ok
}
