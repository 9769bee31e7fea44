package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type predictBody struct {
	ID        string    `json:"prediction_id"`
	Outcome   string    `json:"predicted_outcome"`
	Violation string    `json:"predicted_violation"`
	Matches   int       `json:"matching_rows"`
	Fallback  bool      `json:"fallback"`
	Preview   tableJSON `json:"preview"`
	Summary   string    `json:"summary"`
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(t, http.MethodPost, "/api/predict", PredictRequest{
		DriverGender:    "M",
		DriverAge:       30,
		SearchConducted: true,
		StopDuration:    "0-15 Min",
		StopDate:        "2024-02-01",
		StopTime:        "21:05",
		CountryName:     "Canada",
		VehicleNumber:   "KA01",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body predictBody
	decode(t, w, &body)
	_, err := uuid.Parse(body.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Warning", body.Outcome)
	assert.Equal(t, "DUI", body.Violation)
	assert.Equal(t, 3, body.Matches)
	assert.False(t, body.Fallback)
	assert.Len(t, body.Preview.Rows, 3)
	assert.Equal(t,
		"A 30-year old Male driver in Canada was stopped at 09:05 PM on 2024-02-01. A search was conducted, and it was not drugs related. Stop duration: 0-15 Min. Vehicle Number: KA01.",
		body.Summary)
}

func TestPredictFallback(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(t, http.MethodPost, "/api/predict", PredictRequest{
		DriverGender: "F", DriverAge: 77, StopDuration: "16-30 Min", DrugsRelatedStop: true,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body predictBody
	decode(t, w, &body)
	assert.True(t, body.Fallback)
	assert.Equal(t, "Warning", body.Outcome)
	assert.Equal(t, "Speeding", body.Violation)
	assert.Zero(t, body.Matches)
	assert.Empty(t, body.Preview.Rows)
}

func TestPredictValidation(t *testing.T) {
	s := newTestServer(t, false)
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing fields", map[string]interface{}{}},
		{"bad gender", PredictRequest{DriverGender: "X", DriverAge: 30, StopDuration: "0-15 Min"}},
		{"too young", PredictRequest{DriverGender: "M", DriverAge: 12, StopDuration: "0-15 Min"}},
		{"wrong type", map[string]interface{}{"driver_gender": "M", "driver_age": "thirty", "stop_duration": "0-15 Min"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/predict", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSummaryText(t *testing.T) {
	got := SummaryText(PredictRequest{
		DriverGender:     "F",
		DriverAge:        41,
		DrugsRelatedStop: true,
		StopDuration:     "30+ Min",
		StopDate:         "2024-03-09",
		StopTime:         "not a time",
		CountryName:      " India ",
		VehicleNumber:    "TN22",
	})
	assert.Equal(t,
		"A 41-year old Female driver in India was stopped at not a time on 2024-03-09. No search was conducted, and it was drugs related. Stop duration: 30+ Min. Vehicle Number: TN22.",
		got)
}
