package api

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "space-mission-pipeline/docs"
	"space-mission-pipeline/internal/api/handler"
	"space-mission-pipeline/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/api/v1/missions", h.ListMissions)
	r.GET("/api/v1/missions/export", h.ExportMissions)
	r.GET("/api/v1/aggregates", h.Aggregates)
	r.GET("/api/v1/filters", h.Filters)
	r.POST("/api/v1/exports", h.CreateExport)
	r.GET("/api/v1/exports/*/*", h.DownloadExport)

	r.POST("/api/v1/loads", h.CreateLoad)
	r.GET("/api/v1/loads", h.ListLoads)
	r.GET("/api/v1/loads/*", h.GetLoad)

	r.GET("/api/v1/feeds/apod", h.DailyImage)
	r.GET("/api/v1/feeds/neo", h.NearEarthObjects)
	r.GET("/api/v1/feeds/neo/hazardous", h.HazardousAsteroids)
	r.GET("/api/v1/feeds/exoplanets", h.Exoplanets)
	r.GET("/api/v1/feeds/earth", h.EarthImagery)
	r.POST("/api/v1/feeds/refresh", h.RefreshFeeds)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
