package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"securecheck/catalog"
	"securecheck/services"
	"securecheck/table"

	"github.com/gin-gonic/gin"
)

const emptyQueryWarning = "No data available for this query."

type QueryHandler struct {
	dash *services.Dashboard
}

func NewQueryHandler(dash *services.Dashboard) *QueryHandler {
	return &QueryHandler{dash: dash}
}

type queryListing struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type sectionListing struct {
	catalog.Section
	Queries []queryListing `json:"queries"`
}

type QueryRunResponse struct {
	Query   catalog.Query `json:"query"`
	Data    table.Table   `json:"data"`
	Cached  bool          `json:"cached"`
	Warning string        `json:"warning,omitempty"`
}

// List returns the catalog grouped by section, in catalog order.
func (h *QueryHandler) List(c *gin.Context) {
	cat := h.dash.Catalog()
	out := make([]sectionListing, 0, len(cat.Sections()))
	for _, s := range cat.Sections() {
		entry := sectionListing{Section: s, Queries: []queryListing{}}
		for _, q := range cat.InSection(s.ID) {
			entry.Queries = append(entry.Queries, queryListing{ID: q.ID, Label: q.Label})
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"sections": out})
}

func (h *QueryHandler) Get(c *gin.Context) {
	q, err := h.dash.Catalog().Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QueryHandler) Run(c *gin.Context) {
	refresh := false
	if s := c.Query("refresh"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refresh parameter, must be a boolean"})
			return
		}
		refresh = b
	}

	res, err := h.dash.RunQuery(c.Request.Context(), c.Param("id"), refresh)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	resp := QueryRunResponse{Query: res.Query, Data: res.Table, Cached: res.Cached}
	if res.Table.Empty() {
		resp.Warning = emptyQueryWarning
	}
	c.JSON(http.StatusOK, resp)
}
