package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "command", cfg.Mode)
	assert.Equal(t, "elasticsearch", cfg.Component)
	assert.Equal(t, "articles", cfg.Collection)
	assert.Empty(t, cfg.Index)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Mode: "model"}
	cfg.ApplyDefaults()

	assert.Equal(t, "model", cfg.Mode)
	assert.Equal(t, "elasticsearch", cfg.Component)
	assert.Equal(t, "_doc", cfg.Type)
}

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	t.Setenv("DOCSYNC_SYNC_MODE", "model")
	t.Setenv("DOCSYNC_SYNC_INDEX", "blog")
	t.Setenv("DOCSYNC_SYNC_TYPE", "post")
	t.Setenv("DOCSYNC_SYNC_FIELD_MAP", "/etc/docsync/map.yml")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "model", cfg.Mode)
	assert.Equal(t, "blog", cfg.Index)
	assert.Equal(t, "post", cfg.Type)
	assert.Equal(t, "/etc/docsync/map.yml", cfg.FieldMapPath)
}

func TestConfig_ResolvePaths(t *testing.T) {
	cfg := Config{FieldMapPath: "fieldmap.yml"}
	cfg.ResolvePaths("config")
	assert.Equal(t, filepath.Join("config", "fieldmap.yml"), cfg.FieldMapPath)

	abs := Config{FieldMapPath: "/srv/fieldmap.yml"}
	abs.ResolvePaths("config")
	assert.Equal(t, "/srv/fieldmap.yml", abs.FieldMapPath)

	empty := Config{}
	empty.ResolvePaths("config")
	assert.Empty(t, empty.FieldMapPath)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{"command ok", Config{Mode: "command", Component: "elasticsearch", Index: "blog", Collection: "articles"}, ""},
		{"model ok", Config{Mode: "model", Collection: "articles"}, ""},
		{"command without index", Config{Mode: "command", Component: "elasticsearch", Collection: "articles"}, "sync.index is required"},
		{"command without component", Config{Mode: "command", Index: "blog", Collection: "articles"}, "sync.component is required"},
		{"unknown mode", Config{Mode: "bulk", Collection: "articles"}, "invalid sync mode"},
		{"no collection", Config{Mode: "model"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
