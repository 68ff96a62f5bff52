package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func validRecord() WeatherRecord {
	return WeatherRecord{
		City:               "London",
		Country:            "United Kingdom",
		TemperatureCelsius: 15.0,
		Condition:          "Partly cloudy",
		LocalTime:          "2025-07-06T13:28",
	}
}

func TestCacheKeyFor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple city",
			in:   "London",
			want: "weather_info:v1:london",
		},
		{
			name: "trims whitespace",
			in:   "  London  ",
			want: "weather_info:v1:london",
		},
		{
			name: "collapses interior whitespace",
			in:   "New   York",
			want: "weather_info:v1:new york",
		},
		{
			name: "already normalized",
			in:   "london",
			want: "weather_info:v1:london",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CacheKeyFor(tc.in)
			if got != tc.want {
				t.Errorf("CacheKeyFor(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCacheKeyForIsDeterministic(t *testing.T) {
	first := CacheKeyFor("Buenos Aires")
	for i := 0; i < 100; i++ {
		if got := CacheKeyFor("Buenos Aires"); got != first {
			t.Fatalf("key changed between calls: %q vs %q", got, first)
		}
	}
}

func TestNormalizeLocalTime(t *testing.T) {
	got := NormalizeLocalTime("2025-07-06 13:28")
	if got != "2025-07-06T13:28" {
		t.Errorf("NormalizeLocalTime = %q, want %q", got, "2025-07-06T13:28")
	}

	// Already normalized input stays untouched.
	if got := NormalizeLocalTime("2025-07-06T13:28"); got != "2025-07-06T13:28" {
		t.Errorf("NormalizeLocalTime on normalized input = %q", got)
	}
}

func TestWeatherRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WeatherRecord)
		wantErr bool
	}{
		{
			name:   "complete record",
			mutate: func(r *WeatherRecord) {},
		},
		{
			name:    "missing city",
			mutate:  func(r *WeatherRecord) { r.City = "" },
			wantErr: true,
		},
		{
			name:    "missing country",
			mutate:  func(r *WeatherRecord) { r.Country = "" },
			wantErr: true,
		},
		{
			name:    "missing condition",
			mutate:  func(r *WeatherRecord) { r.Condition = "" },
			wantErr: true,
		},
		{
			name:    "missing local time",
			mutate:  func(r *WeatherRecord) { r.LocalTime = "" },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := validRecord()
			tc.mutate(&record)
			err := record.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestWeatherRecordRoundTrip(t *testing.T) {
	original := validRecord()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded WeatherRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestWeatherRecordJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(validRecord())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, want := range []string{"city", "country", "temperature_celsius", "condition", "local_time"} {
		if _, ok := fields[want]; !ok {
			t.Errorf("serialized record is missing field %q (got %v)", want, fields)
		}
	}
}

func TestDecodeCachePopulationMessage(t *testing.T) {
	valid := CachePopulationMessage{
		CacheKey: "weather_info:v1:london",
		Payload:  validRecord(),
		Expire:   1800,
	}
	validBody, err := json.Marshal(valid)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded, err := DecodeCachePopulationMessage(validBody)
	if err != nil {
		t.Fatalf("decode of valid message failed: %v", err)
	}
	if *decoded != valid {
		t.Errorf("decoded message mismatch: got %+v, want %+v", decoded, valid)
	}
}

func TestDecodeCachePopulationMessageMalformed(t *testing.T) {
	record := validRecord()

	tests := []struct {
		name string
		body []byte
	}{
		{
			name: "not json",
			body: []byte("not json at all"),
		},
		{
			name: "missing cache key",
			body: mustMarshal(t, CachePopulationMessage{Payload: record, Expire: 1800}),
		},
		{
			name: "zero expire",
			body: mustMarshal(t, CachePopulationMessage{CacheKey: "k", Payload: record}),
		},
		{
			name: "negative expire",
			body: mustMarshal(t, CachePopulationMessage{CacheKey: "k", Payload: record, Expire: -1}),
		},
		{
			name: "incomplete payload",
			body: mustMarshal(t, CachePopulationMessage{CacheKey: "k", Payload: WeatherRecord{City: "London"}, Expire: 1800}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCachePopulationMessage(tc.body)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformed *MalformedMessageError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedMessageError, got %T: %v", err, err)
			}
		})
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return data
}
