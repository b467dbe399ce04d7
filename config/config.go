// Package config loads the bot configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AKUMABOT_"

// Config is the bot configuration.
type Config struct {
	SlackToken string `env:"SLACK_TOKEN"`
	Nickname   string `env:"NICKNAME,required"`
	// Trigger is the command prefix, <nick> means the bot's nickname.
	Trigger string `env:"TRIGGER" envDefault:"<nick>"`
	// AdminList holds space separated admin nicknames.
	AdminList     string `env:"ADMINS"`
	Debug         bool   `env:"DEBUG"`
	DevMode       bool   `env:"DEV_MODE"`
	GCPProject    string `env:"GCP_PROJECT"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	RatePerMinute int    `env:"RATE_PER_MINUTE"`
	// StatsToken guards the /stats endpoint, which is off when it is empty.
	StatsToken string `env:"STATS_TOKEN"`
	// Version overrides the version the binary was built with.
	Version string `env:"VERSION"`
}

// Admins returns the nicknames allowed to run admin only commands.
func (c *Config) Admins() []string {
	return strings.Fields(c.AdminList)
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", dotenv)
	}
	return Parse(environ())
}

// Parse builds a Config from environment variables given as a map.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{
		Prefix:      Prefix,
		Environment: environment,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parsing configuration")
	}

	cfg.Nickname = strings.TrimPrefix(cfg.Nickname, "@")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.SlackToken == "" && !c.DevMode:
		return errors.New("slack token must be set in " + Prefix + "SLACK_TOKEN")
	case c.Nickname == "":
		return errors.New("bot nickname must be set in " + Prefix + "NICKNAME")
	case c.Trigger == "":
		return errors.New(Prefix + "TRIGGER must not be empty")
	case c.RatePerMinute < 0:
		return errors.New(Prefix + "RATE_PER_MINUTE must not be negative")
	}
	return nil
}

func environ() map[string]string {
	m := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	return m
}
