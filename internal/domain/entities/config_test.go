package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{"valid", ServerConfig{Host: "127.0.0.1", Port: 5000}, false},
		{"zero port allowed", ServerConfig{Port: 0}, false},
		{"negative port", ServerConfig{Port: -1}, true},
		{"port too large", ServerConfig{Port: 70000}, true},
		{"negative read timeout", ServerConfig{Port: 5000, ReadTimeout: -1}, true},
		{"negative write timeout", ServerConfig{Port: 5000, WriteTimeout: -1}, true},
		{"wildcard cors origin", ServerConfig{Port: 5000, CORSOrigins: []string{"*"}}, false},
		{"valid cors origin", ServerConfig{Port: 5000, CORSOrigins: []string{"http://localhost:3000"}}, false},
		{"empty cors origin", ServerConfig{Port: 5000, CORSOrigins: []string{""}}, true},
		{"bad cors origin", ServerConfig{Port: 5000, CORSOrigins: []string{"localhost"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := ServerConfig{}

	assert.Equal(t, 15*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 15*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())
	assert.NotEmpty(t, cfg.GetCORSOrigins())

	cfg = ServerConfig{ReadTimeout: 60, WriteTimeout: 45, ShutdownTimeout: 10}
	assert.Equal(t, 60*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, 45*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
}

func TestWatcherConfigValidate(t *testing.T) {
	assert.NoError(t, WatcherConfig{}.Validate())
	assert.NoError(t, WatcherConfig{IntervalMs: 200, DebounceMs: 500}.Validate())
	assert.Error(t, WatcherConfig{IntervalMs: 10}.Validate())
	assert.Error(t, WatcherConfig{DebounceMs: -1}.Validate())

	assert.Equal(t, 200*time.Millisecond, WatcherConfig{}.GetInterval())
	assert.Equal(t, 500*time.Millisecond, WatcherConfig{}.GetDebounce())
	assert.Equal(t, time.Second, WatcherConfig{IntervalMs: 1000}.GetInterval())
}

func TestLoggingConfigValidate(t *testing.T) {
	assert.NoError(t, LoggingConfig{}.Validate())
	assert.NoError(t, LoggingConfig{Level: "debug"}.Validate())
	assert.Error(t, LoggingConfig{Level: "loud"}.Validate())

	assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
	assert.Equal(t, LogLevelWarn, LoggingConfig{Level: "warn"}.GetLevel())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 5000},
		Watcher: WatcherConfig{IntervalMs: 200},
		Logging: LoggingConfig{Level: "info"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = -1
	assert.ErrorContains(t, cfg.Validate(), "server config")
}
