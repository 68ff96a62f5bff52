package api

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/pkg/http"
)

const londonBody = `{
	"location": {
		"name": "London",
		"country": "United Kingdom",
		"localtime": "2025-07-06 13:28"
	},
	"current": {
		"temp_c": 15.0,
		"condition": {"text": "Partly cloudy"}
	}
}`

const unknownCityBody = `{"error": {"code": 1006, "message": "No matching location found."}}`

func newTestGateway(server *httptest.Server) WeatherGateway {
	return NewWeatherGateway(server.URL, "test-key", http.ClientOptions{})
}

func TestCurrentWeatherNormalizesResponse(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("path = %q, want /current.json", r.URL.Path)
		}
		gotQuery = map[string]string{
			"key": r.URL.Query().Get("key"),
			"q":   r.URL.Query().Get("q"),
			"aqi": r.URL.Query().Get("aqi"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(londonBody))
	}))
	defer server.Close()

	record, err := newTestGateway(server).CurrentWeather(context.Background(), "London")
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}

	want := model.WeatherRecord{
		City:               "London",
		Country:            "United Kingdom",
		TemperatureCelsius: 15.0,
		Condition:          "Partly cloudy",
		LocalTime:          "2025-07-06T13:28",
	}
	if *record != want {
		t.Errorf("record = %+v, want %+v", *record, want)
	}

	if gotQuery["key"] != "test-key" || gotQuery["q"] != "London" || gotQuery["aqi"] != "no" {
		t.Errorf("query params = %v", gotQuery)
	}
}

func TestCurrentWeatherUnknownCity(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusBadRequest)
		_, _ = w.Write([]byte(unknownCityBody))
	}))
	defer server.Close()

	_, err := newTestGateway(server).CurrentWeather(context.Background(), "Atlantis")

	var notFound *model.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.City != "Atlantis" {
		t.Errorf("City = %q, want Atlantis", notFound.City)
	}
}

func TestCurrentWeatherServerError(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"code": 9999, "message": "Internal application error."}}`))
	}))
	defer server.Close()

	_, err := newTestGateway(server).CurrentWeather(context.Background(), "London")

	var upstream *model.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != nethttp.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", upstream.Status)
	}
}

func TestCurrentWeatherIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"location": {"name": "London"}, "current": {}}`))
	}))
	defer server.Close()

	_, err := newTestGateway(server).CurrentWeather(context.Background(), "London")

	var upstream *model.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for an incomplete response, got %v", err)
	}
}

func TestCurrentWeatherProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	server.Close()

	_, err := newTestGateway(server).CurrentWeather(context.Background(), "London")

	var upstream *model.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError when the provider is unreachable, got %v", err)
	}
}
