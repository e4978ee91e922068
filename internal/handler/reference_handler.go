package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/pkg/response"
)

type referenceService interface {
	ListRanks(ctx context.Context) ([]models.Rank, error)
	GetRank(ctx context.Context, id int64) (*models.Rank, error)
	ListSpecialPositions(ctx context.Context) ([]models.SpecialPosition, error)
}

// ReferenceHandler serves the rank ladder and special positions.
type ReferenceHandler struct {
	reference referenceService
}

// NewReferenceHandler constructs ReferenceHandler.
func NewReferenceHandler(reference referenceService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

// Ranks godoc
// @Summary List ranks
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ranks [get]
func (h *ReferenceHandler) Ranks(c *gin.Context) {
	ranks, err := h.reference.ListRanks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranks, nil)
}

// Rank godoc
// @Summary Get rank
// @Tags Reference
// @Produce json
// @Param id path int true "Rank ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ranks/{id} [get]
func (h *ReferenceHandler) Rank(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	rank, err := h.reference.GetRank(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rank, nil)
}

// SpecialPositions godoc
// @Summary List special positions
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /special-positions [get]
func (h *ReferenceHandler) SpecialPositions(c *gin.Context) {
	positions, err := h.reference.ListSpecialPositions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, positions, nil)
}
