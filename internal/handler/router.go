package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Personnel  *PersonnelHandler
	Points     *PointEntryHandler
	Promotions *PromotionHandler
	Reference  *ReferenceHandler
	Dashboard  *DashboardHandler
}

// RegisterRoutes mounts the API. session guards everything except setup and login.
func RegisterRoutes(router gin.IRouter, prefix string, h Handlers, session gin.HandlerFunc) {
	api := router.Group(prefix)
	api.POST("/setup", h.Auth.Setup)
	api.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(session)
	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/user", h.Auth.Me)

	personnel := secured.Group("/personnel")
	personnel.GET("", h.Personnel.List)
	personnel.POST("", h.Personnel.Create)
	personnel.GET("/eligible", h.Personnel.Eligible)
	personnel.GET("/export", h.Personnel.Export)
	personnel.GET("/army/:armyId", h.Personnel.GetByArmyID)
	personnel.GET("/:id", h.Personnel.Get)
	personnel.PATCH("/:id", h.Personnel.Update)
	personnel.DELETE("/:id", h.Personnel.Deactivate)

	points := secured.Group("/point-entries")
	points.GET("", h.Points.List)
	points.POST("", h.Points.Create)
	points.GET("/export", h.Points.Export)

	promotions := secured.Group("/promotions")
	promotions.GET("", h.Promotions.List)
	promotions.POST("", h.Promotions.Create)

	secured.GET("/ranks", h.Reference.Ranks)
	secured.GET("/ranks/:id", h.Reference.Rank)
	secured.GET("/special-positions", h.Reference.SpecialPositions)

	dashboard := secured.Group("/dashboard")
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/rank-distribution", h.Dashboard.RankDistribution)
}
