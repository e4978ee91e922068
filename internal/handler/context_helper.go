package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/middleware"
	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

func actorFromContext(c *gin.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return *actor, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam(name, "must be a positive integer")
	}
	return id, nil
}

func queryID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, invalidParam(name, "must be a positive integer")
	}
	return &id, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidParam(name, "must be true or false")
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, invalidParam(name, "must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return fallback
}

func invalidParam(field, message string) *appErrors.Error {
	appErr := appErrors.Clone(appErrors.ErrValidation, "invalid "+field)
	appErr.Details = []appErrors.FieldError{{Field: field, Rule: "format", Message: message}}
	return appErr
}

func invalidBody(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
