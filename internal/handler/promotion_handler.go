package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/pkg/response"
)

type promotionService interface {
	Promote(ctx context.Context, req models.CreatePromotionRequest, actor models.Actor) (*models.Promotion, error)
	List(ctx context.Context, filter models.PromotionFilter) ([]models.Promotion, error)
}

// PromotionHandler exposes rank change endpoints.
type PromotionHandler struct {
	promotions promotionService
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(promotions promotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

// List godoc
// @Summary List promotions
// @Tags Promotions
// @Produce json
// @Param personnelId query int false "Personnel ID"
// @Success 200 {object} response.Envelope
// @Router /promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	personnelID, err := queryID(c, "personnelId")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.promotions.List(c.Request.Context(), models.PromotionFilter{PersonnelID: personnelID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Promote a member
// @Description Moves the member to the target rank. Points are kept.
// @Tags Promotions
// @Accept json
// @Produce json
// @Param payload body models.CreatePromotionRequest true "Promotion"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err, "invalid promotion payload"))
		return
	}
	promotion, err := h.promotions.Promote(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, promotion)
}
