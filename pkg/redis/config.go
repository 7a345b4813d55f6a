package redis

import "time"

// Config holds Redis connection parameters read from the environment.
type Config struct {
	// redis:// or rediss:// URL
	URL string `env:"DUENDE_REDIS_URL,required"`

	PoolSize      int           `env:"DUENDE_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"DUENDE_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleTime   time.Duration `env:"DUENDE_REDIS_MAX_IDLE_TIME" envDefault:"10m"`
	MaxLifetime   time.Duration `env:"DUENDE_REDIS_MAX_LIFETIME" envDefault:"30m"`
	DialTimeout   time.Duration `env:"DUENDE_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout   time.Duration `env:"DUENDE_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout  time.Duration `env:"DUENDE_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	RetryAttempts int           `env:"DUENDE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DUENDE_REDIS_RETRY_INTERVAL" envDefault:"5s"`
}

// DefaultConfig returns the defaults used when the environment is not parsed.
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		PoolSize:      10,
		MinIdleConns:  2,
		MaxIdleTime:   10 * time.Minute,
		MaxLifetime:   30 * time.Minute,
		DialTimeout:   5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		RetryAttempts: 3,
		RetryInterval: 5 * time.Second,
	}
}
