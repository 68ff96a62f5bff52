package api

import (
	"context"
	"fmt"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/internal/domain/model/external"
	"github.com/renatoramossilva/weather-service/pkg/http"
)

// weatherGatewayImpl implements the WeatherGateway interface against
// weatherapi.com
type weatherGatewayImpl struct {
	httpClient *http.Client
	apiKey     string
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewWeatherGateway(baseURL string, apiKey string, clientOptions http.ClientOptions) WeatherGateway {
	return &weatherGatewayImpl{
		httpClient: http.NewHttpClient(baseURL, clientOptions),
		apiKey:     apiKey,
	}
}

// CurrentWeather fetches and normalizes the current weather for a city
func (w *weatherGatewayImpl) CurrentWeather(ctx context.Context, cityQuery string) (*model.WeatherRecord, error) {
	successResp, errResp, status, err := w.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/current.json").
		WithQueryParams(map[string]string{
			"key": w.apiKey,
			"q":   cityQuery,
			"aqi": "no",
		}).
		WithSuccessResp(&external.CurrentWeatherResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err != nil {
		return nil, mapProviderError(cityQuery, status, errResp, err)
	}

	response := successResp.(*external.CurrentWeatherResponse)

	record := &model.WeatherRecord{
		City:               response.Location.Name,
		Country:            response.Location.Country,
		TemperatureCelsius: response.Current.TempC,
		Condition:          response.Current.Condition.Text,
		LocalTime:          model.NormalizeLocalTime(response.Location.Localtime),
	}

	// An incomplete provider response must never reach the caller or
	// the cache.
	if validateErr := record.Validate(); validateErr != nil {
		return nil, &model.UpstreamError{Status: status, Err: validateErr}
	}

	return record, nil
}

// mapProviderError folds provider failures into the two caller-visible
// categories: 4xx means the city is unknown (weatherapi reports that as
// 400 code 1006), everything else is an upstream failure.
func mapProviderError(cityQuery string, status int, errResp any, err error) error {
	if status >= 400 && status < 500 {
		return &model.NotFoundError{City: cityQuery}
	}

	if apiError, ok := errResp.(*external.APIErrorResponse); ok && apiError != nil && apiError.Error.Message != "" {
		err = fmt.Errorf("%s: %w", apiError.Error.Message, err)
	}

	return &model.UpstreamError{Status: status, Err: err}
}
