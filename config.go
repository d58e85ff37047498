package dialect

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30m" as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("dialect: parse duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("dialect: parse duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// TLSConfig holds the transport security options passed to the native
// driver. How the options are rendered into the connect string is up to
// each dialect.
type TLSConfig struct {
	// Enabled requests an encrypted session.
	Enabled bool `yaml:"enabled"`
	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify"`
}

// Config holds the connection parameters shared by all dialects.
// The Options map is merged verbatim into the native connect call;
// keys the native driver does not understand are its problem to report.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	TLS *TLSConfig `yaml:"tls,omitempty"`

	// Options holds free-form dialect options, e.g. charset or lock
	// timeouts, passed through to the native driver untouched.
	Options map[string]string `yaml:"options,omitempty"`

	// Pool limits applied to the native connection pool. Zero values
	// keep the native defaults.
	MaxOpenConns    int           `yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime,omitempty"`
}

// Validate reports configuration errors that no dialect could recover from.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("dialect: nil config")
	}
	if c.Database == "" {
		return fmt.Errorf("dialect: config: database name is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("dialect: config: invalid port %d", c.Port)
	}
	return nil
}

// Addr returns the host:port pair, applying the given default port when
// the configuration leaves it unset.
func (c *Config) Addr(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Option returns the named free-form option and whether it was set.
func (c *Config) Option(name string) (string, bool) {
	v, ok := c.Options[name]
	return v, ok
}

// ConfigFromYAML parses a configuration from YAML bytes.
func ConfigFromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("dialect: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromFile reads and parses a YAML configuration file.
func ConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: read config: %w", err)
	}
	return ConfigFromYAML(data)
}
