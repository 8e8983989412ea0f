// Package config reads the server and CLI settings from DYNAMICFORM_*
// environment variables.
package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const Prefix = "DYNAMICFORM_"

type Config struct {
	Logger  Logger  `envPrefix:"LOGGER_"`
	HTTP    HTTP    `envPrefix:"HTTP_"`
	Form    Form    `envPrefix:"FORM_"`
	Metrics Metrics `envPrefix:"METRICS_"`
}

type Logger struct {
	Level  slog.Level `env:"LEVEL,expand" envDefault:"info"`
	Format string     `env:"FORMAT" envDefault:"text"`
}

type HTTP struct {
	Address         string        `env:"ADDRESS,expand" envDefault:":3000"`
	BasePath        string        `env:"BASE_PATH" envDefault:"/"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" envSeparator:","`
	CSRFKey         string        `env:"CSRF_KEY"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SuccessRedirect string        `env:"SUCCESS_REDIRECT"`
}

type Form struct {
	// Descriptor is a JSON/YAML descriptor file, or an OpenAPI document when
	// Operation is set.
	Descriptor   string `env:"DESCRIPTOR,expand"`
	Operation    string `env:"OPERATION"`
	Renderer     string `env:"RENDERER" envDefault:"vanilla"`
	CSSFramework string `env:"CSS_FRAMEWORK"`
	Theme        string `env:"THEME"`
	Variant      string `env:"VARIANT"`
	Mode         string `env:"MODE" envDefault:"all"`
	UnknownTypes string `env:"UNKNOWN_TYPES" envDefault:"skip"`
	// EchoPasswords keeps typed passwords in re-rendered forms so the reveal
	// toggle works without JavaScript.
	EchoPasswords bool `env:"ECHO_PASSWORDS" envDefault:"true"`
}

type Metrics struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

// Parse reads the process environment.
func Parse() (*Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// ParseEnvironment reads vars instead of the process environment.
func ParseEnvironment(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &conf, nil
}
