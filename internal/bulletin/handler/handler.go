// Package handler exposes the bulletin endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roledad/visa-wait-time/internal/bulletin/service"
	"github.com/roledad/visa-wait-time/platform/httpkit"
	"github.com/roledad/visa-wait-time/platform/validator"
)

// Handler handles bulletin HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a bulletin handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// priorityDatesQuery carries the filters for the priority-dates view.
type priorityDatesQuery struct {
	Area  string `form:"area" validate:"omitempty,oneof=all china india mexico philippines"`
	Table string `form:"table" validate:"omitempty,oneof=final-action dates-for-filing"`
}

// HandleSnapshot returns the full bulletin snapshot.
// GET /api/v1/bulletin
func (h *Handler) HandleSnapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snap)
}

// HandlePriorityDates returns a chart view, optionally filtered to one
// chargeability area.
// GET /api/v1/bulletin/priority-dates?area=&table=
func (h *Handler) HandlePriorityDates(c *gin.Context) {
	var query priorityDatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	view, err := h.svc.PriorityDatesFor(query.Area, query.Table)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

// HandleProcessing returns the DOL prevailing-wage queue and PERM figures.
// GET /api/v1/bulletin/processing
func (h *Handler) HandleProcessing(c *gin.Context) {
	proc, err := h.svc.ProcessingTimes()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, proc)
}
