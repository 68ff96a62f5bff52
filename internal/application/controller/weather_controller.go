package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/internal/domain/usecase/weather"
)

type WeatherController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes() {
	controller.api.GET("/weather/:city", controller.GetWeatherByCity)
}

// GetWeatherByCity godoc
// @Summary Get current weather for a city
// @Description Returns the current weather, served from cache when available
// @Tags weather
// @Accept json
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} model.WeatherRecord "Current weather"
// @Failure 400 {object} map[string]string "Missing city"
// @Failure 404 {object} map[string]string "City not found"
// @Failure 502 {object} map[string]string "Weather provider unavailable"
// @Router /weather/{city} [get]
func (controller *WeatherController) GetWeatherByCity(c echo.Context) error {
	city := c.Param("city")
	if city == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "city is required"})
	}

	record, err := controller.useCase.Lookup(c.Request().Context(), city)
	if err != nil {
		var notFound *model.NotFoundError
		if errors.As(err, &notFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": notFound.Error()})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "weather provider unavailable"})
	}

	return c.JSON(http.StatusOK, record)
}
