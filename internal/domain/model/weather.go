package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cacheKeyPrefix carries a schema version segment so a change to the
// WeatherRecord shape can bump the version instead of colliding with
// stale entries of the prior shape.
const cacheKeyPrefix = "weather_info:v1:"

// WeatherRecord is the current weather for a city as served to callers
// and stored in the cache. All fields are present whenever a record
// passes Validate; a partially populated record is never returned or
// cached.
type WeatherRecord struct {
	City               string  `json:"city"`
	Country            string  `json:"country"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
	Condition          string  `json:"condition"`
	// LocalTime is ISO-8601 "YYYY-MM-DDTHH:MM". The upstream provider
	// delivers a space separator; NormalizeLocalTime fixes that up.
	LocalTime string `json:"local_time"`
}

// Validate reports whether every field of the record is populated.
func (r *WeatherRecord) Validate() error {
	if r.City == "" {
		return fmt.Errorf("weather record: city is empty")
	}
	if r.Country == "" {
		return fmt.Errorf("weather record: country is empty")
	}
	if r.Condition == "" {
		return fmt.Errorf("weather record: condition is empty")
	}
	if r.LocalTime == "" {
		return fmt.Errorf("weather record: local time is empty")
	}
	return nil
}

// NormalizeLocalTime converts the provider's "YYYY-MM-DD HH:MM" into the
// ISO-8601 "YYYY-MM-DDTHH:MM" form the record contract requires.
func NormalizeLocalTime(localTime string) string {
	return strings.Replace(localTime, " ", "T", 1)
}

// CacheKeyFor derives the cache key for a city query. The query is
// trimmed, lowercased and interior whitespace is collapsed, so the same
// city always yields the same key within one schema version.
func CacheKeyFor(cityQuery string) string {
	return cacheKeyPrefix + NormalizeCityQuery(cityQuery)
}

// NormalizeCityQuery applies the key normalization policy to a raw query.
func NormalizeCityQuery(cityQuery string) string {
	return strings.ToLower(strings.Join(strings.Fields(cityQuery), " "))
}

// CachePopulationMessage carries one pending cache write from the lookup
// path to the cache-population worker. It exists only on the message
// channel; the worker converts it into a cache write and discards it.
type CachePopulationMessage struct {
	CacheKey string        `json:"cache_key"`
	Payload  WeatherRecord `json:"payload"`
	// Expire is the TTL in seconds to apply at write time
	Expire int `json:"expire"`
}

// DecodeCachePopulationMessage parses and validates a message body. A
// body that does not decode into a complete message fails with a
// MalformedMessageError so the consumer can tell a poison message from a
// transient write failure.
func DecodeCachePopulationMessage(body []byte) (*CachePopulationMessage, error) {
	var message CachePopulationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, &MalformedMessageError{Reason: err.Error()}
	}
	if message.CacheKey == "" {
		return nil, &MalformedMessageError{Reason: "cache_key is empty"}
	}
	if message.Expire <= 0 {
		return nil, &MalformedMessageError{Reason: fmt.Sprintf("expire must be positive, got %d", message.Expire)}
	}
	if err := message.Payload.Validate(); err != nil {
		return nil, &MalformedMessageError{Reason: err.Error()}
	}
	return &message, nil
}
