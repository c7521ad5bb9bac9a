// Package handler exposes the wait-time dataset over HTTP.
package handler

import (
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roledad/visa-wait-time/internal/waittimes/service"
	"github.com/roledad/visa-wait-time/internal/waittimes/transport"
	"github.com/roledad/visa-wait-time/platform/httpkit"
	"github.com/roledad/visa-wait-time/platform/validator"
)

// Handler serves the visa wait-time endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new wait-time handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// HandleCategories returns the selectable visa categories in display order.
func (h *Handler) HandleCategories(c *gin.Context) {
	httpkit.OK(c, gin.H{"categories": h.svc.Categories()})
}

// HandleSummary returns the metric-card values plus the posts the join
// could not place, so the dashboard can surface the gap.
func (h *Handler) HandleSummary(c *gin.Context) {
	httpkit.OK(c, gin.H{
		"summary":              h.svc.Summary(),
		"unmatched_post_names": h.svc.UnmatchedPosts(),
	})
}

// HandleMap returns the GeoJSON FeatureCollection for the selected
// category. An empty selection is an empty collection, not an error.
func (h *Handler) HandleMap(c *gin.Context) {
	var query transport.MapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	records, err := h.svc.Records(query.Category, "")
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.Map(records))
}

// HandleRecords returns the data-grid rows for the selected category and
// optional country.
func (h *Handler) HandleRecords(c *gin.Context) {
	var query transport.RecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	records, err := h.svc.Records(query.Category, query.Country)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.Grid(records, h.svc.Countries()))
}

// HandleExport streams the current selection as a CSV attachment.
func (h *Handler) HandleExport(c *gin.Context) {
	var query transport.RecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	records, err := h.svc.Records(query.Category, query.Country)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename=visa-wait-times.csv`)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(transport.CSVHeader()); err != nil {
		return
	}
	for _, record := range records {
		if err := writer.Write(transport.CSVRow(record)); err != nil {
			return
		}
	}
	writer.Flush()
}
