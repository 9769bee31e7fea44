package handlers

import (
	"net/http"

	"securecheck/services"
	"securecheck/stats"

	"github.com/gin-gonic/gin"
)

const noDataWarning = "No data available."

// StopsHandler serves the overview, statistics and chart endpoints. Every
// call re-reads the record store.
type StopsHandler struct {
	dash *services.Dashboard
}

func NewStopsHandler(dash *services.Dashboard) *StopsHandler {
	return &StopsHandler{dash: dash}
}

func (h *StopsHandler) List(c *gin.Context) {
	p, err := ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stops := h.dash.Stops(c.Request.Context())
	resp := newPage(stops.Slice(p.Offset, p.Limit), stops.Len(), p)
	if stops.Empty() {
		resp.Warning = noDataWarning
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StopsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Summarize(h.dash.Stops(c.Request.Context())))
}

func (h *StopsHandler) MetricsChart(c *gin.Context) {
	summary := stats.Summarize(h.dash.Stops(c.Request.Context()))
	c.JSON(http.StatusOK, stats.MetricsSeries(summary))
}

func (h *StopsHandler) DrugGenderChart(c *gin.Context) {
	c.JSON(http.StatusOK, stats.DrugGenderSeries(h.dash.Stops(c.Request.Context())))
}

func (h *StopsHandler) Durations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"durations": stats.Durations(h.dash.Stops(c.Request.Context()))})
}
