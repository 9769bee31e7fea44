package services

import (
	"context"
	"testing"
	"time"

	"securecheck/catalog"
	"securecheck/prediction"
	"securecheck/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testCatalog = `
sections:
  - {id: medium, title: Medium Insights}
queries:
  - id: stops-by-country
    section: medium
    label: Stops per country
    sql: select country_name, count(*) as total from traffic_stops group by country_name order by total desc
  - id: nothing
    section: medium
    label: No rows
    sql: select * from traffic_stops where 1 = 0
`

// failingStore simulates an unreachable record store.
type failingStore struct{ calls int }

func (f *failingStore) Fetch(context.Context, string) table.Table {
	f.calls++
	return table.Table{}
}

func newTestDashboard(t *testing.T, store Fetcher) *Dashboard {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	return NewDashboard(store, cat, nil, 30*time.Second, zaptest.NewLogger(t))
}

func TestDashboardStopsAreCleaned(t *testing.T) {
	db := newTestDB(t)
	seedStops(t, db)
	d := newTestDashboard(t, NewRecordStore(db, zaptest.NewLogger(t)))

	stops := d.Stops(context.Background())

	require.Equal(t, 4, stops.Len())
	assert.False(t, stops.Has("driver_race"), "all-null column should be dropped")
	assert.False(t, stops.Has("search_type"), "all-null column should be dropped")

	ages, _ := stops.Column("driver_age")
	assert.Equal(t, []any{30, 30, 30, 30}, ages)

	arrested, _ := stops.Column("is_arrested")
	assert.Equal(t, []any{false, false, true, false}, arrested)

	times, _ := stops.Column("stop_time")
	assert.Equal(t, []any{table.TimeOfDay{Hour: 14, Minute: 30}, nil, nil, nil}, times)

	violations, _ := stops.Column("violation")
	assert.Equal(t, []any{"Speeding", "DUI", "DUI", "Unknown"}, violations)
}

func TestDashboardStopsWithUnreachableStore(t *testing.T) {
	d := newTestDashboard(t, &failingStore{})

	assert.True(t, d.Stops(context.Background()).Empty())
}

func TestDashboardRunQuery(t *testing.T) {
	db := newTestDB(t)
	seedStops(t, db)
	d := newTestDashboard(t, NewRecordStore(db, zaptest.NewLogger(t)))

	res, err := d.RunQuery(context.Background(), "stops-by-country", false)
	require.NoError(t, err)

	assert.Equal(t, "Stops per country", res.Query.Label)
	assert.False(t, res.Cached)
	assert.Equal(t, []string{"country_name", "total"}, res.Table.Columns)
	assert.Equal(t, 2, res.Table.Len())
}

func TestDashboardRunQueryEmptyResult(t *testing.T) {
	db := newTestDB(t)
	seedStops(t, db)
	d := newTestDashboard(t, NewRecordStore(db, zaptest.NewLogger(t)))

	res, err := d.RunQuery(context.Background(), "nothing", true)
	require.NoError(t, err)
	assert.True(t, res.Table.Empty())
}

func TestDashboardRunQueryUnknownID(t *testing.T) {
	store := &failingStore{}
	d := newTestDashboard(t, store)

	_, err := d.RunQuery(context.Background(), "missing", false)

	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Zero(t, store.calls)
}

func TestDashboardPredict(t *testing.T) {
	db := newTestDB(t)
	seedStops(t, db)
	d := newTestDashboard(t, NewRecordStore(db, zaptest.NewLogger(t)))

	res := d.Predict(context.Background(), prediction.Candidate{
		Gender: "M", Age: 30, SearchConducted: true, StopDuration: "0-15 Min",
	})

	assert.Equal(t, "Warning", res.Outcome)
	assert.Equal(t, "DUI", res.Violation)
	assert.Equal(t, 3, res.Matches)
	assert.False(t, res.Fallback)
	assert.Equal(t, 3, res.Preview.Len())
}

func TestDashboardPredictWithUnreachableStore(t *testing.T) {
	d := newTestDashboard(t, &failingStore{})

	res := d.Predict(context.Background(), prediction.Candidate{Gender: "F", Age: 44})

	assert.True(t, res.Fallback)
	assert.Equal(t, "Warning", res.Outcome)
	assert.Equal(t, "Speeding", res.Violation)
	assert.True(t, res.Preview.Empty())
}
