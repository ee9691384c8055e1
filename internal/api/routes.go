package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)

		api.POST("/upload", handler.UploadFile)
		api.GET("/uploads", handler.ListUploads)
		api.GET("/upload/:id", handler.GetUpload)
		api.DELETE("/upload/:id", handler.DeleteUpload)
		api.POST("/uploads/bulk-delete", handler.BulkDeleteUploads)

		api.POST("/approve-upload", handler.ReviewUpload)
		api.POST("/complete-upload", handler.CompleteUpload)

		api.GET("/report-data/:id", handler.ReportData)
		api.GET("/report/:id", handler.GetReport)

		api.GET("/schools", handler.ListSchools)
		api.POST("/schools", handler.CreateSchool)
	}
}
