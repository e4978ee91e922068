package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/service"
	"github.com/noah-isme/army-personnel-api/pkg/response"
)

type pointEntryService interface {
	Submit(ctx context.Context, req models.CreatePointEntryRequest, actor models.Actor) (*models.PointEntryResult, error)
	List(ctx context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error)
}

type ledgerExporter interface {
	Ledger(ctx context.Context, filter models.PointEntryFilter, format string) (*service.ExportFile, error)
}

// PointEntryHandler exposes the weekly points ledger.
type PointEntryHandler struct {
	entries pointEntryService
	exports ledgerExporter
}

// NewPointEntryHandler constructs PointEntryHandler.
func NewPointEntryHandler(entries pointEntryService, exports ledgerExporter) *PointEntryHandler {
	return &PointEntryHandler{entries: entries, exports: exports}
}

func ledgerFilter(c *gin.Context) (models.PointEntryFilter, error) {
	var filter models.PointEntryFilter
	personnelID, err := queryID(c, "personnelId")
	if err != nil {
		return filter, err
	}
	week, err := queryDate(c, "weekStart")
	if err != nil {
		return filter, err
	}
	filter.PersonnelID = personnelID
	filter.WeekStart = week
	return filter, nil
}

// List godoc
// @Summary List point entries
// @Description Newest week first. A weekStart on any day selects the week containing it.
// @Tags Points
// @Produce json
// @Param personnelId query int false "Personnel ID"
// @Param weekStart query string false "Week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /point-entries [get]
func (h *PointEntryHandler) List(c *gin.Context) {
	filter, err := ledgerFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Record weekly points
// @Description Adds the member's special position bonus and updates their total. One entry per member per week.
// @Tags Points
// @Accept json
// @Produce json
// @Param payload body models.CreatePointEntryRequest true "Point entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /point-entries [post]
func (h *PointEntryHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreatePointEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err, "invalid point entry payload"))
		return
	}
	result, err := h.entries.Submit(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Export godoc
// @Summary Export the points ledger
// @Tags Points
// @Produce octet-stream
// @Param personnelId query int false "Personnel ID"
// @Param weekStart query string false "Week (YYYY-MM-DD)"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /point-entries/export [get]
func (h *PointEntryHandler) Export(c *gin.Context) {
	filter, err := ledgerFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Ledger(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
