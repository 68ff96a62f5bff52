package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
)

type stubWeatherUseCase struct {
	record *model.WeatherRecord
	err    error
	city   string
}

func (s *stubWeatherUseCase) Lookup(ctx context.Context, cityQuery string) (*model.WeatherRecord, error) {
	s.city = cityQuery
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubWeatherUseCase) Refresh(ctx context.Context, cityQuery string) error {
	return s.err
}

func performLookup(useCase *stubWeatherUseCase, city string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/weather/:city")
	c.SetParamNames("city")
	c.SetParamValues(city)

	controller := NewWeatherController(e.Group(""), useCase)
	_ = controller.GetWeatherByCity(c)
	return rec
}

func TestGetWeatherByCityOK(t *testing.T) {
	useCase := &stubWeatherUseCase{record: &model.WeatherRecord{
		City:               "London",
		Country:            "United Kingdom",
		TemperatureCelsius: 15.0,
		Condition:          "Partly cloudy",
		LocalTime:          "2025-07-06T13:28",
	}}

	rec := performLookup(useCase, "London")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if useCase.city != "London" {
		t.Errorf("use case received city %q", useCase.city)
	}

	var body model.WeatherRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body != *useCase.record {
		t.Errorf("body = %+v, want %+v", body, *useCase.record)
	}
}

func TestGetWeatherByCityNotFound(t *testing.T) {
	useCase := &stubWeatherUseCase{err: &model.NotFoundError{City: "Atlantis"}}

	rec := performLookup(useCase, "Atlantis")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetWeatherByCityUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"upstream error", &model.UpstreamError{Status: 503, Err: errors.New("unavailable")}},
		{"unexpected error", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performLookup(&stubWeatherUseCase{err: tt.err}, "London")

			if rec.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body["error"] != "weather provider unavailable" {
				t.Errorf("error message = %q", body["error"])
			}
		})
	}
}
