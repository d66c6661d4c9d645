package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taskfolio/taskfolio/authsvc"
)

// Config is the process configuration, loaded from the environment.
// Individual values can still be overridden by flags in main.
type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8000"`
	DatabaseURL string        `env:"DATABASE_URL"`
	FilesDir    string        `env:"FILES_DIR" envDefault:"files"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"jwt-secret"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"1h"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"taskfolio"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"taskfolio"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"0"`
}

func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

func (c Config) Tokens() authsvc.TokenConfig {
	return authsvc.TokenConfig{
		Secret:   c.JWTSecret,
		TTL:      c.JWTTTL,
		Audience: c.JWTAudience,
		Issuer:   c.JWTIssuer,
	}
}
