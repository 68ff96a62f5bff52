package api

import (
	"context"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
)

// WeatherGateway defines the interface for the external weather provider
type WeatherGateway interface {
	// CurrentWeather fetches the current weather for a city query and
	// normalizes it into a complete WeatherRecord. Unknown cities fail
	// with *model.NotFoundError, provider or network failures with
	// *model.UpstreamError.
	CurrentWeather(ctx context.Context, cityQuery string) (*model.WeatherRecord, error)
}
