package routes

import (
	"catalog-admin/controllers"
	"catalog-admin/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, ctrl *controllers.ScreenController) {
	r.GET("/health", ctrl.Health)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/routes", ctrl.Routes)

		// Screens, addressed by page id
		admin.GET("/screens/:page", ctrl.Activate)
		admin.POST("/screens/:page/fetch", ctrl.Fetch)
		admin.POST("/screens/:page/edit", ctrl.Edit)
		admin.POST("/screens/:page/save", ctrl.Save)
		admin.POST("/screens/:page/delete", ctrl.Delete)
		admin.POST("/screens/:page/export", ctrl.Export)
		admin.POST("/screens/:page/import", ctrl.Import)

		admin.GET("/import-jobs/:id", ctrl.ImportJobStatus)
	}
}
