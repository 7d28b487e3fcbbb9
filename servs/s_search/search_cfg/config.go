package search_cfg

import (
	"errors"
	"time"

	"github.com/rskv-p/searchlab/pkg/x_db"
	"github.com/rskv-p/searchlab/pkg/x_log"
)

// Config is the search service configuration.
type Config struct {
	HTTPAddress string       `mapstructure:"http_address"`
	CORSOrigins []string     `mapstructure:"cors_origins"`
	Log         x_log.Config `mapstructure:"log"`
	DB          x_db.Config  `mapstructure:"db"`
	Auth        AuthConfig   `mapstructure:"auth"`
	NATS        NATSConfig   `mapstructure:"nats"`
	RateLimit   RateConfig   `mapstructure:"rate_limit"`
	Tree        TreeConfig   `mapstructure:"tree"`
}

// AuthConfig guards mutating routes with a bearer token.
type AuthConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Secret   string        `mapstructure:"secret"`
	Admin    string        `mapstructure:"admin"`
	Password string        `mapstructure:"password"` // seeded as a bcrypt hash
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// DefaultSecret is the placeholder signing key shipped in Default.
const DefaultSecret = "change-me"

// Validate refuses an enabled auth block that still carries placeholder credentials.
func (a AuthConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.Secret == "" || a.Secret == DefaultSecret {
		return errors.New("auth enabled but the signing secret is empty or the default")
	}
	if a.Password == "" {
		return errors.New("auth enabled but no admin password configured")
	}
	return nil
}

// NATSConfig publishes operation events. An empty URL without Embedded disables it.
type NATSConfig struct {
	URL      string `mapstructure:"url"`
	Subject  string `mapstructure:"subject"`
	Embedded bool   `mapstructure:"embedded"`
	Port     int    `mapstructure:"port"`
}

// RateConfig limits API requests per second. RPS 0 disables limiting.
type RateConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// TreeConfig holds defaults applied when a tree create omits them.
type TreeConfig struct {
	Size     int    `mapstructure:"size"`
	Encoding string `mapstructure:"encoding"`
	Alphabet string `mapstructure:"alphabet"`
	M        int    `mapstructure:"m"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		HTTPAddress: ":8000",
		CORSOrigins: []string{"http://localhost:8000", "http://127.0.0.1:8000"},
		Log:         x_log.DefaultConfig(),
		DB:          x_db.DefaultConfig(),
		Auth: AuthConfig{
			Secret:   DefaultSecret,
			Admin:    "admin",
			TokenTTL: 12 * time.Hour,
		},
		NATS: NATSConfig{
			Subject: "searchlab.events",
			Port:    -1,
		},
		RateLimit: RateConfig{RPS: 0, Burst: 20},
		Tree: TreeConfig{
			Size:     1000,
			Encoding: "ABC",
			Alphabet: "en",
			M:        2,
		},
	}
}
