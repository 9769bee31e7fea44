package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var errBadPagination = errors.New("limit and offset must be non-negative integers")

type PaginationParams struct {
	Limit  int
	Offset int
}

type PageResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	NextOffset *int        `json:"next_offset,omitempty"`
	HasMore    bool        `json:"has_more"`
	Warning    string      `json:"warning,omitempty"`
}

// ParsePagination reads ?limit= and ?offset=. Limits above MaxLimit are
// clamped; malformed values are an error.
func ParsePagination(c *gin.Context) (PaginationParams, error) {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			return p, errBadPagination
		}
		p.Limit = l
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		o, err := strconv.Atoi(offsetStr)
		if err != nil || o < 0 {
			return p, errBadPagination
		}
		p.Offset = o
	}

	return p, nil
}

func newPage(data interface{}, total int, p PaginationParams) PageResponse {
	resp := PageResponse{Data: data, Total: total}
	if next := p.Offset + p.Limit; next < total {
		resp.HasMore = true
		resp.NextOffset = &next
	}
	return resp
}
