package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func write(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `{
		"sources": [
			{"name": "rates", "interval": 60000, "handlers": ["log", {"name": "echo", "options": {"data": "1"}}]}
		],
		"blockchain": {"provider": "http://localhost:8545", "depositary": "0xdep", "sender": "0xkey"},
		"portfolio": {"type": "WiseWolves", "options": {
			"url": "https://api.example.com", "login": "l", "password": "p", "code": "c", "client": "id", "deny": []
		}},
		"metricsPort": 9102
	}`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, cfg.Sources, 1)
	assert.Equal(t, "rates", cfg.Sources[0].Name)
	assert.Equal(t, time.Minute, cfg.Sources[0].Duration())
	assert.Len(t, cfg.Sources[0].Handlers, 2)
	assert.Equal(t, "log", cfg.Sources[0].Handlers[0].Name)
	assert.Equal(t, "echo", cfg.Sources[0].Handlers[1].Name)
	assert.Equal(t, 9102, cfg.MetricsPort)
	assert.NoError(t, cfg.ForReconciliation())
}

func TestLoadBareSourceList(t *testing.T) {
	path := write(t, `[{"name": "rates", "interval": 5000, "handlers": ["log"]}]`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, cfg.Sources, 1)
	assert.Equal(t, 5*time.Second, cfg.Sources[0].Duration())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(write(t, `{not-json`))
	assert.Error(t, err)
}

func TestLoadShortInterval(t *testing.T) {
	_, err := Load(write(t, `[{"name": "rates", "interval": 500, "handlers": ["log"]}]`))
	assert.Error(t, err)
}

func TestLoadSourceWithoutHandlers(t *testing.T) {
	_, err := Load(write(t, `[{"name": "rates", "interval": 5000, "handlers": []}]`))
	assert.Error(t, err)
}

func TestForReconciliation(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.ForReconciliation())

	cfg.Blockchain = &Blockchain{Provider: "http://localhost:8545", Sender: "0xkey"}
	assert.Error(t, cfg.ForReconciliation())

	cfg.Portfolio = &Portfolio{Type: "Other"}
	assert.Error(t, cfg.ForReconciliation())

	cfg.Portfolio.Type = "WiseWolves"
	assert.NoError(t, cfg.ForReconciliation())
}

func TestSettleDelay(t *testing.T) {
	assert.Equal(t, 5*time.Second, Blockchain{}.SettleDelay())
	assert.Equal(t, 100*time.Millisecond, Blockchain{Delay: 100}.SettleDelay())
}
