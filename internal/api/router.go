package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"go-sf-exporter/internal/api/handler"
	"go-sf-exporter/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/exports", handler.CreateExport)
	r.GET("/api/v1/exports", handler.ListExports)
	// More specific routes first
	r.GET("/api/v1/exports/*/objects", handler.GetExportObjects)
	r.GET("/api/v1/exports/*/uploads", handler.GetExportUploads)
	// Generic run route last
	r.GET("/api/v1/exports/*", handler.GetExport)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
