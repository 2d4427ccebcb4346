package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	DB       DBConfig       `yaml:"db" mapstructure:"db"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Auth     AuthConfig     `yaml:"auth" mapstructure:"auth"`
	Runner   RunnerConfig   `yaml:"runner" mapstructure:"runner"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Climate  ClimateConfig  `yaml:"climate" mapstructure:"climate"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port         string        `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// DBConfig configures the SQLite store.
type DBConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AuthConfig configures JWT issuing.
type AuthConfig struct {
	SigningKey string        `yaml:"signing_key" mapstructure:"signing_key"`
	TokenTTL   time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// RunnerConfig configures the background loop executing queued runs.
type RunnerConfig struct {
	Tick  time.Duration `yaml:"tick" mapstructure:"tick"`
	Batch int           `yaml:"batch" mapstructure:"batch"`
}

// AnalysisConfig holds the defaults applied to requests that leave a value out.
// Nil parameters keep the built-in value.
type AnalysisConfig struct {
	TSuMin           *float64          `yaml:"t_su_min" mapstructure:"t_su_min"`
	TSuMax           *float64          `yaml:"t_su_max" mapstructure:"t_su_max"`
	TReg             *float64          `yaml:"t_reg" mapstructure:"t_reg"`
	TIn              *float64          `yaml:"t_in" mapstructure:"t_in"`
	RHIn             *float64          `yaml:"rh_in" mapstructure:"rh_in"`
	Humidification   bool              `yaml:"humidification" mapstructure:"humidification"`
	ComfortThreshold float64           `yaml:"comfort_threshold" mapstructure:"comfort_threshold"`
	Components       []ComponentConfig `yaml:"components" mapstructure:"components"`
}

// ComponentConfig is one installed component.
type ComponentConfig struct {
	Type       string  `yaml:"type" mapstructure:"type"`
	Efficiency float64 `yaml:"efficiency" mapstructure:"efficiency"`
}

// ClimateConfig locates the TMY catalogue files.
type ClimateConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Load reads configuration from file and environment. An empty path searches
// ./configs and the working directory for config.yml.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("FEASIBILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("runner.tick", time.Second)
	v.SetDefault("runner.batch", 4)
	v.SetDefault("analysis.t_su_min", 16.0)
	v.SetDefault("analysis.t_su_max", 20.0)
	v.SetDefault("analysis.t_reg", 60.0)
	v.SetDefault("analysis.t_in", 24.0)
	v.SetDefault("analysis.rh_in", 0.5)
	v.SetDefault("analysis.humidification", true)
	v.SetDefault("analysis.comfort_threshold", 0.98)
	v.SetDefault("analysis.components", []map[string]any{
		{"type": "DEC", "efficiency": 0.85},
		{"type": "IEC", "efficiency": 0.75},
		{"type": "D-IEC", "efficiency": 0.85},
		{"type": "DW", "efficiency": 0.85},
	})
	v.SetDefault("climate.dir", "Meteo")
}

// Validate checks the values no default can repair.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return eris.New("config: auth.signing_key is empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return eris.Errorf("config: auth.token_ttl %s must be positive", c.Auth.TokenTTL)
	}
	if c.Runner.Tick <= 0 {
		return eris.Errorf("config: runner.tick %s must be positive", c.Runner.Tick)
	}
	if c.Runner.Batch < 1 {
		return eris.Errorf("config: runner.batch %d must be at least 1", c.Runner.Batch)
	}
	if lo, hi := c.Analysis.TSuMin, c.Analysis.TSuMax; lo != nil && hi != nil && *lo > *hi {
		return eris.Errorf("config: analysis.t_su_min %g above analysis.t_su_max %g", *lo, *hi)
	}
	if t := c.Analysis.ComfortThreshold; !(t > 0 && t <= 1) {
		return eris.Errorf("config: analysis.comfort_threshold %g outside (0, 1]", t)
	}
	return nil
}
