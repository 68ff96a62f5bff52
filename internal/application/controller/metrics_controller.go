package controller

import (
	"github.com/labstack/echo/v4"

	"github.com/renatoramossilva/weather-service/internal/observability"
)

type MetricsController struct {
	api     *echo.Group
	metrics *observability.Metrics
}

func NewMetricsController(api *echo.Group, metrics *observability.Metrics) *MetricsController {
	return &MetricsController{api: api, metrics: metrics}
}

// InitMetricsRoutes initializes the prometheus scrape route
func (controller *MetricsController) InitMetricsRoutes() {
	controller.api.GET("/metrics", echo.WrapHandler(controller.metrics.Handler()))
}
