package redis

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	config := NewConfig()

	if config.Host != "localhost" || config.Port != 6379 {
		t.Errorf("address = %s:%d, want localhost:6379", config.Host, config.Port)
	}
	if config.Database != 0 {
		t.Errorf("Database = %d, want 0", config.Database)
	}
	if config.MaxRetries != 3 || config.PoolSize != 10 {
		t.Errorf("MaxRetries = %d, PoolSize = %d", config.MaxRetries, config.PoolSize)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfigBuilders(t *testing.T) {
	config := NewConfig().
		WithHost("redis.internal").
		WithPort(6380).
		WithPassword("secret").
		WithDatabase(2).
		WithMaxRetries(5).
		WithPoolSize(20).
		WithDialTimeout(time.Second).
		WithReadTimeout(2 * time.Second).
		WithWriteTimeout(2 * time.Second)

	if config.Host != "redis.internal" || config.Port != 6380 {
		t.Errorf("address = %s:%d", config.Host, config.Port)
	}
	if config.Password != "secret" || config.Database != 2 {
		t.Errorf("Password = %q, Database = %d", config.Password, config.Database)
	}
	if config.MaxRetries != 5 || config.PoolSize != 20 {
		t.Errorf("MaxRetries = %d, PoolSize = %d", config.MaxRetries, config.PoolSize)
	}
	if config.DialTimeout != time.Second || config.ReadTimeout != 2*time.Second || config.WriteTimeout != 2*time.Second {
		t.Errorf("timeouts = %v/%v/%v", config.DialTimeout, config.ReadTimeout, config.WriteTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty host", func(c *Config) { c.Host = "" }, true},
		{"port too low", func(c *Config) { c.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Port = 70000 }, true},
		{"negative database", func(c *Config) { c.Database = -1 }, true},
		{"database too high", func(c *Config) { c.Database = 16 }, true},
		{"negative max retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"zero pool size", func(c *Config) { c.PoolSize = 0 }, true},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewConfig()
			tt.mutate(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
