package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"ibnu-portfolio/pkg/services"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double underscore,
// e.g. PORTFOLIO_MODEL__ARTIFACT_PATH.
const EnvPrefix = "PORTFOLIO_"

// DefaultPath is the optional YAML file layered over the defaults.
const DefaultPath = "configs/config.yaml"

// Config holds the application configuration
type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`
	Timezone    string `koanf:"timezone"`

	Server   ServerConfig   `koanf:"server"`
	Model    ModelConfig    `koanf:"model"`
	Fallback FallbackConfig `koanf:"fallback"`
	Content  ContentConfig  `koanf:"content"`
	Admin    AdminConfig    `koanf:"admin"`
}

type ServerConfig struct {
	Port            string          `koanf:"port"`
	APIKey          string          `koanf:"api_key"`
	CORSOrigins     []string        `koanf:"cors_origins"`
	ReadTimeout     time.Duration   `koanf:"read_timeout"`
	WriteTimeout    time.Duration   `koanf:"write_timeout"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

type ModelConfig struct {
	ArtifactPath    string   `koanf:"artifact_path"`
	RuntimeVersion  string   `koanf:"runtime_version"`
	EagerLoad       bool     `koanf:"eager_load"`
	CollectedFields []string `koanf:"collected_fields"` // optional form fields rendered by this revision
	TierPolicy      string   `koanf:"tier_policy"`
}

// FallbackConfig mirrors services.FallbackPolicy.
type FallbackConfig struct {
	Base                float64 `koanf:"base"`
	Cap                 float64 `koanf:"cap"`
	LowTransCountBelow  int     `koanf:"low_trans_count_below"`
	LowTransCountWeight float64 `koanf:"low_trans_count_weight"`
	InactiveAbove       int     `koanf:"inactive_above"`
	InactiveWeight      float64 `koanf:"inactive_weight"`
	LowRevolvingBelow   float64 `koanf:"low_revolving_below"`
	LowRevolvingWeight  float64 `koanf:"low_revolving_weight"`
	ContactsAbove       int     `koanf:"contacts_above"`
	ContactsWeight      float64 `koanf:"contacts_weight"`
}

type ContentConfig struct {
	Path      string `koanf:"path"` // empty uses the embedded portfolio
	AssetsDir string `koanf:"assets_dir"`
}

type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

func defaults() *Config {
	fb := services.DefaultFallbackPolicy()
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Timezone:    "Asia/Jakarta",
		Server: ServerConfig{
			Port:            "8080",
			APIKey:          "default_secret_key",
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				BurstSize:         20,
			},
		},
		Model: ModelConfig{
			ArtifactPath:   "models/churn_pipeline.json",
			RuntimeVersion: "1.3",
			TierPolicy:     services.TierPolicyThreeTier,
		},
		Fallback: FallbackConfig{
			Base:                fb.Base,
			Cap:                 fb.Cap,
			LowTransCountBelow:  fb.LowTransCountBelow,
			LowTransCountWeight: fb.LowTransCountWeight,
			InactiveAbove:       fb.InactiveAbove,
			InactiveWeight:      fb.InactiveWeight,
			LowRevolvingBelow:   fb.LowRevolvingBelow,
			LowRevolvingWeight:  fb.LowRevolvingWeight,
			ContactsAbove:       fb.ContactsAbove,
			ContactsWeight:      fb.ContactsWeight,
		},
		Content: ContentConfig{
			AssetsDir: "static",
		},
		Admin: AdminConfig{
			Username: "admin",
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when missing), PORT and PORTFOLIO_* variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = DefaultPath
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	// hosting platforms inject a bare PORT
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Set("server.port", port); err != nil {
			return nil, fmt.Errorf("applying PORT: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are the list settings; their env values are comma-separated.
var listKeys = map[string]bool{
	"server.cors_origins":    true,
	"model.collected_fields": true,
}

// envValue maps PORTFOLIO_MODEL__COLLECTED_FIELDS=age,dependents onto
// model.collected_fields = [age dependents].
func envValue(name, value string) (string, interface{}) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
	if !listKeys[key] {
		return key, value
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Validate rejects settings the services would refuse at startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if c.Server.RateLimit.RequestsPerSecond <= 0 || c.Server.RateLimit.BurstSize <= 0 {
		return errors.New("server.rate_limit values must be positive")
	}
	if c.Model.RuntimeVersion == "" {
		return errors.New("model.runtime_version must be set")
	}
	if err := c.FallbackPolicy().Validate(); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	tiers, err := services.TierPolicyByName(c.Model.TierPolicy)
	if err != nil {
		return fmt.Errorf("model.tier_policy: %w", err)
	}
	if err := tiers.Validate(); err != nil {
		return fmt.Errorf("model.tier_policy: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// FallbackPolicy converts the fallback section.
func (c *Config) FallbackPolicy() services.FallbackPolicy {
	f := c.Fallback
	return services.FallbackPolicy{
		Base:                f.Base,
		Cap:                 f.Cap,
		LowTransCountBelow:  f.LowTransCountBelow,
		LowTransCountWeight: f.LowTransCountWeight,
		InactiveAbove:       f.InactiveAbove,
		InactiveWeight:      f.InactiveWeight,
		LowRevolvingBelow:   f.LowRevolvingBelow,
		LowRevolvingWeight:  f.LowRevolvingWeight,
		ContactsAbove:       f.ContactsAbove,
		ContactsWeight:      f.ContactsWeight,
	}
}

// Location is the time zone of the monitoring dashboard.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
