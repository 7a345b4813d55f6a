package duende

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/duende/pkg/logger"
)

// Config holds the settings NewApp builds an application from.
// Fields are read from DUENDE_* environment variables by LoadConfig.
type Config struct {
	Log logger.Config

	// Path of the url mapping file (.ini or .yaml).
	URLFile   string `env:"DUENDE_URL_FILE" envDefault:"urls.ini"`
	URLPrefix string `env:"DUENDE_URL_PREFIX"`

	// Directory holding one resources directory per app.
	ResourcesDir string `env:"DUENDE_RESOURCES_DIR" envDefault:"resources"`

	DefaultLocale string `env:"DUENDE_DEFAULT_LOCALE" envDefault:"en_US"`

	AuthLoginURL  string `env:"DUENDE_AUTH_LOGIN_URL"`
	CookieSecret  string `env:"DUENDE_COOKIE_SECRET"`
	Address       string `env:"DUENDE_ADDRESS" envDefault:":8080"`
	UploadMaxSize int64  `env:"DUENDE_UPLOAD_MAX_SIZE" envDefault:"10485760"`
	SessionMaxAge int    `env:"DUENDE_SESSION_MAX_AGE" envDefault:"2592000"`

	RequestTimeout  time.Duration `env:"DUENDE_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"DUENDE_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Debug             bool `env:"DUENDE_DEBUG"`
	DebugRequests     bool `env:"DUENDE_DEBUG_REQUESTS"`
	AuthDefaultPublic bool `env:"DUENDE_AUTH_DEFAULT_PUBLIC" envDefault:"true"`
	CookieSecure      bool `env:"DUENDE_COOKIE_SECURE"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("duende: parse env: %w", err)
	}
	return cfg, nil
}
