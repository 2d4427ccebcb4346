package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "app.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Second, cfg.Runner.Tick)
	assert.Equal(t, 4, cfg.Runner.Batch)
	require.NotNil(t, cfg.Analysis.TSuMin)
	assert.InDelta(t, 16, *cfg.Analysis.TSuMin, 1e-9)
	require.NotNil(t, cfg.Analysis.TSuMax)
	assert.InDelta(t, 20, *cfg.Analysis.TSuMax, 1e-9)
	require.NotNil(t, cfg.Analysis.TReg)
	assert.InDelta(t, 60, *cfg.Analysis.TReg, 1e-9)
	require.NotNil(t, cfg.Analysis.RHIn)
	assert.InDelta(t, 0.5, *cfg.Analysis.RHIn, 1e-9)
	assert.True(t, cfg.Analysis.Humidification)
	assert.InDelta(t, 0.98, cfg.Analysis.ComfortThreshold, 1e-9)
	assert.Equal(t, "Meteo", cfg.Climate.Dir)

	require.Len(t, cfg.Analysis.Components, 4)
	assert.Equal(t, ComponentConfig{Type: "IEC", Efficiency: 0.75}, cfg.Analysis.Components[1])
}

func TestLoadFromConfigsDir(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	yaml := `
server:
  port: "9090"
log:
  level: debug
runner:
  tick: 250ms
analysis:
  t_su_min: 0
  t_su_max: 21
  humidification: false
  components:
    - type: DEC
      efficiency: 0.9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Runner.Tick)
	require.NotNil(t, cfg.Analysis.TSuMax)
	assert.InDelta(t, 21, *cfg.Analysis.TSuMax, 1e-9)
	assert.False(t, cfg.Analysis.Humidification)
	assert.Equal(t, []ComponentConfig{{Type: "DEC", Efficiency: 0.9}}, cfg.Analysis.Components)
	// an explicit zero is kept, unset values take defaults
	require.NotNil(t, cfg.Analysis.TSuMin)
	assert.Zero(t, *cfg.Analysis.TSuMin)
	require.NotNil(t, cfg.Analysis.TReg)
	assert.InDelta(t, 60, *cfg.Analysis.TReg, 1e-9)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: /tmp/runs.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.db", cfg.DB.Path)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := chdirTemp(t)
	_, err := Load(filepath.Join(dir, "nope.yml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FEASIBILITY_SERVER_PORT", "3000")
	t.Setenv("FEASIBILITY_CLIMATE_DIR", "/data/tmy")
	t.Setenv("FEASIBILITY_AUTH_TOKEN_TTL", "15m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "/data/tmy", cfg.Climate.Dir)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
}

func TestValidate(t *testing.T) {
	chdirTemp(t)
	base, err := Load("")
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"empty signing key":  func(c *Config) { c.Auth.SigningKey = " " },
		"zero ttl":           func(c *Config) { c.Auth.TokenTTL = 0 },
		"zero tick":          func(c *Config) { c.Runner.Tick = 0 },
		"zero batch":         func(c *Config) { c.Runner.Batch = 0 },
		"inverted supply":    func(c *Config) { v := 25.0; c.Analysis.TSuMin = &v },
		"threshold too high": func(c *Config) { c.Analysis.ComfortThreshold = 1.2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}
