package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/service"
	"github.com/noah-isme/army-personnel-api/pkg/response"
)

type personnelService interface {
	List(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.PersonnelDetail, error)
	GetByArmyID(ctx context.Context, armyID string) (*models.PersonnelDetail, error)
	Create(ctx context.Context, req models.CreatePersonnelRequest) (*models.PersonnelDetail, error)
	Update(ctx context.Context, id int64, req models.UpdatePersonnelRequest) (*models.PersonnelDetail, error)
	Deactivate(ctx context.Context, id int64) error
}

type eligibilityService interface {
	ListEligible(ctx context.Context) ([]models.PersonnelDetail, error)
}

type rosterExporter interface {
	Roster(ctx context.Context, filter models.PersonnelFilter, format string) (*service.ExportFile, error)
}

// PersonnelHandler exposes member registry endpoints.
type PersonnelHandler struct {
	personnel personnelService
	promotion eligibilityService
	exports   rosterExporter
}

// NewPersonnelHandler constructs PersonnelHandler.
func NewPersonnelHandler(personnel personnelService, promotion eligibilityService, exports rosterExporter) *PersonnelHandler {
	return &PersonnelHandler{personnel: personnel, promotion: promotion, exports: exports}
}

func personnelFilter(c *gin.Context) (models.PersonnelFilter, error) {
	filter := models.PersonnelFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 50),
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return filter, err
	}
	filter.Active = active
	rankID, err := queryID(c, "rankId")
	if err != nil {
		return filter, err
	}
	filter.RankID = rankID
	return filter, nil
}

// List godoc
// @Summary List personnel
// @Tags Personnel
// @Produce json
// @Param search query string false "Search army id or name"
// @Param active query bool false "Filter by active state"
// @Param rankId query int false "Filter by rank"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /personnel [get]
func (h *PersonnelHandler) List(c *gin.Context) {
	filter, err := personnelFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.personnel.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Eligible godoc
// @Summary Personnel ready for promotion
// @Tags Personnel
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /personnel/eligible [get]
func (h *PersonnelHandler) Eligible(c *gin.Context) {
	items, err := h.promotion.ListEligible(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Export the roster
// @Tags Personnel
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /personnel/export [get]
func (h *PersonnelHandler) Export(c *gin.Context) {
	filter, err := personnelFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Roster(c.Request.Context(), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// Get godoc
// @Summary Get personnel detail
// @Tags Personnel
// @Produce json
// @Param id path int true "Personnel ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /personnel/{id} [get]
func (h *PersonnelHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.personnel.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// GetByArmyID godoc
// @Summary Get personnel by army id
// @Tags Personnel
// @Produce json
// @Param armyId path string true "Army ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /personnel/army/{armyId} [get]
func (h *PersonnelHandler) GetByArmyID(c *gin.Context) {
	detail, err := h.personnel.GetByArmyID(c.Request.Context(), c.Param("armyId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Add personnel
// @Tags Personnel
// @Accept json
// @Produce json
// @Param payload body models.CreatePersonnelRequest true "Personnel payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /personnel [post]
func (h *PersonnelHandler) Create(c *gin.Context) {
	var req models.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err, "invalid personnel payload"))
		return
	}
	detail, err := h.personnel.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Update godoc
// @Summary Update personnel
// @Description Patch names, special position (null clears it) or active state.
// @Tags Personnel
// @Accept json
// @Produce json
// @Param id path int true "Personnel ID"
// @Param payload body models.UpdatePersonnelRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /personnel/{id} [patch]
func (h *PersonnelHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err, "invalid personnel payload"))
		return
	}
	detail, err := h.personnel.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Deactivate godoc
// @Summary Deactivate personnel
// @Tags Personnel
// @Param id path int true "Personnel ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /personnel/{id} [delete]
func (h *PersonnelHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.personnel.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
