package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"securecheck/cleaning"
	"securecheck/prediction"
	"securecheck/services"
	"securecheck/table"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PredictionHandler struct {
	dash *services.Dashboard
}

func NewPredictionHandler(dash *services.Dashboard) *PredictionHandler {
	return &PredictionHandler{dash: dash}
}

// PredictRequest is the stop entry form. Only the first five fields feed
// the rule; the rest appear in the summary.
type PredictRequest struct {
	DriverGender     string `json:"driver_gender" binding:"required,oneof=M F"`
	DriverAge        int    `json:"driver_age" binding:"required,min=16,max=100"`
	SearchConducted  bool   `json:"search_conducted"`
	StopDuration     string `json:"stop_duration" binding:"required"`
	DrugsRelatedStop bool   `json:"drugs_related_stop"`

	StopDate      string `json:"stop_date"`
	StopTime      string `json:"stop_time"`
	CountryName   string `json:"country_name"`
	DriverRace    string `json:"driver_race"`
	SearchType    string `json:"search_type"`
	VehicleNumber string `json:"vehicle_number"`
}

func (r PredictRequest) Candidate() prediction.Candidate {
	return prediction.Candidate{
		Gender:          r.DriverGender,
		Age:             r.DriverAge,
		SearchConducted: r.SearchConducted,
		StopDuration:    r.StopDuration,
		DrugsRelated:    r.DrugsRelatedStop,
	}
}

type PredictResponse struct {
	ID string `json:"prediction_id"`
	prediction.Result
	Preview table.Table `json:"preview"`
	Summary string      `json:"summary"`
	Warning string      `json:"warning,omitempty"`
}

const fallbackWarning = "No matching stops found, showing the default prediction."

func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.dash.Predict(c.Request.Context(), req.Candidate())
	resp := PredictResponse{
		ID:      uuid.NewString(),
		Result:  res.Result,
		Preview: res.Preview,
		Summary: SummaryText(req),
	}
	if res.Fallback {
		resp.Warning = fallbackWarning
	}
	c.JSON(http.StatusOK, resp)
}

// SummaryText renders the form entry as a sentence for the officer.
func SummaryText(r PredictRequest) string {
	gender := "Female"
	if r.DriverGender == "M" {
		gender = "Male"
	}

	at := r.StopTime
	if clock, ok := cleaning.ParseClock(r.StopTime); ok {
		at = clock.Kitchen()
	}
	on := r.StopDate
	if d, ok := cleaning.ParseDate(r.StopDate); ok {
		on = d.String()
	}

	search := "No search was conducted"
	if r.SearchConducted {
		search = "A search was conducted"
	}
	drugs := "it was not drugs related"
	if r.DrugsRelatedStop {
		drugs = "it was drugs related"
	}

	return fmt.Sprintf("A %d-year old %s driver in %s was stopped at %s on %s. %s, and %s. Stop duration: %s. Vehicle Number: %s.",
		r.DriverAge, gender, strings.TrimSpace(r.CountryName), at, on, search, drugs, r.StopDuration, strings.TrimSpace(r.VehicleNumber))
}
