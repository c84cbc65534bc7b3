// Package config loads bridge configuration.
// Configuration sources (in priority order): env vars > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/logging"
)

// EnvPrefix marks environment overrides. A single underscore separates
// nesting levels and a double underscore is a literal underscore, so
// A1BRIDGE_HTTP_TLS__SKIP__VERIFY sets http.tls_skip_verify.
const EnvPrefix = "A1BRIDGE_"

// Config holds all bridge configuration.
type Config struct {
	Log         logging.Config    `koanf:"log"`
	HTTP        HTTPConfig        `koanf:"http"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Tracing     TracingConfig     `koanf:"tracing"`
	Supervision SupervisionConfig `koanf:"supervision"`
	Rics        []RicConfig       `koanf:"rics"`
}

// HTTPConfig configures the shared southbound HTTP client.
type HTTPConfig struct {
	Timeout       time.Duration `koanf:"timeout"`
	TLSSkipVerify bool          `koanf:"tls_skip_verify"`
}

// MetricsConfig configures the daemon's HTTP listener.
type MetricsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	ListenAddr string `koanf:"listen_addr"`
}

// TracingConfig configures OTLP export. An empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint       string `koanf:"endpoint"`
	Insecure       bool   `koanf:"insecure"`
	ServiceVersion string `koanf:"service_version"`
}

// SupervisionConfig configures the periodic RIC check.
type SupervisionConfig struct {
	Enabled bool `koanf:"enabled"`
	// Schedule is a standard cron expression or descriptor such as "@every 1m".
	Schedule string        `koanf:"schedule"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ControllerConfig is the SDNC controller a proxied RIC is reached through.
type ControllerConfig struct {
	Name     string `koanf:"name"`
	BaseURL  string `koanf:"base_url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// RicConfig describes one Near-RT RIC.
type RicConfig struct {
	ID                string            `koanf:"id"`
	BaseURL           string            `koanf:"base_url"`
	Adapter           string            `koanf:"adapter"`
	Protocol          string            `koanf:"protocol"`
	Concurrency       int               `koanf:"concurrency"`
	ManagedElementIDs []string          `koanf:"managed_element_ids"`
	Controller        *ControllerConfig `koanf:"controller"`
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9464",
		},
		Tracing: TracingConfig{
			Insecure: true,
		},
		Supervision: SupervisionConfig{
			Enabled:  true,
			Schedule: "@every 1m",
			Timeout:  30 * time.Second,
		},
	}
}

// Load reads a TOML file (when path is set), overlays environment variables
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)

	s = strings.ReplaceAll(s, "__", "%UNDERSCORE%")
	s = strings.ReplaceAll(s, "_", ".")
	return strings.ReplaceAll(s, "%UNDERSCORE%", "_")
}

// Validate checks the configuration for values the bridge cannot run with.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return errors.New("metrics.listen_addr is required when metrics are enabled")
	}
	if c.Supervision.Enabled {
		if _, err := cron.ParseStandard(c.Supervision.Schedule); err != nil {
			return fmt.Errorf("supervision.schedule %q: %w", c.Supervision.Schedule, err)
		}
		if c.Supervision.Timeout < 0 {
			return errors.New("supervision.timeout must not be negative")
		}
	}

	adapters := a1.NewRegistry().Names()
	seen := make(map[string]bool, len(c.Rics))
	for i, ric := range c.Rics {
		if ric.ID == "" {
			return fmt.Errorf("rics[%d]: id is required", i)
		}
		if seen[ric.ID] {
			return fmt.Errorf("rics[%d]: duplicate id %q", i, ric.ID)
		}
		seen[ric.ID] = true

		if err := ric.validate(adapters); err != nil {
			return fmt.Errorf("ric %s: %w", ric.ID, err)
		}
	}
	return nil
}

func (r RicConfig) validate(adapters []string) error {
	if r.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if r.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if _, err := a1.ParseProtocolType(r.Protocol); err != nil {
		return err
	}

	adapter := strings.ToLower(r.Adapter)
	if adapter != "" && !slices.Contains(adapters, adapter) {
		return fmt.Errorf("%w: %q", a1.ErrUnknownAdapter, r.Adapter)
	}
	if adapter == a1.AdapterMediatorCCSDK && (r.Controller == nil || r.Controller.BaseURL == "") {
		return fmt.Errorf("%w: controller.base_url is required for %s", a1.ErrMissingController, a1.AdapterMediatorCCSDK)
	}
	return nil
}

// Ric returns the RIC with the given id.
func (c *Config) Ric(id string) (RicConfig, bool) {
	for _, ric := range c.Rics {
		if ric.ID == id {
			return ric, true
		}
	}
	return RicConfig{}, false
}

// A1 converts the file representation to the adapter configuration.
func (r RicConfig) A1() (a1.RicConfig, error) {
	protocol, err := a1.ParseProtocolType(r.Protocol)
	if err != nil {
		return a1.RicConfig{}, err
	}

	out := a1.RicConfig{
		ID:                r.ID,
		BaseURL:           r.BaseURL,
		Adapter:           r.Adapter,
		Protocol:          protocol,
		Concurrency:       r.Concurrency,
		ManagedElementIDs: r.ManagedElementIDs,
	}
	if r.Controller != nil {
		out.Controller = &a1.ControllerConfig{
			Name:     r.Controller.Name,
			BaseURL:  r.Controller.BaseURL,
			Username: r.Controller.Username,
			Password: r.Controller.Password,
		}
	}
	return out, nil
}
