// Package config loads the settings of a CasJobs client. The environment
// is only read by LoadConfig; everything downstream takes a *Config.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "casjobs"

// Request modes understood by the transport.
const (
	ModeGET  = "GET"
	ModePOST = "POST"
)

// InvalidConfigError is returned when the client cannot be configured.
type InvalidConfigError string

func (err InvalidConfigError) Error() string {
	return string(err)
}

// Config holds everything a client needs. Credentials are the WSID and
// password from the CasJobs profile page.
type Config struct {
	WSID     int64  `envconfig:"WSID"`
	Password string `envconfig:"PW"`

	BaseURL      string        `envconfig:"BASE_URL" default:"http://casjobs.sdss.org/CasJobs/services/jobs.asmx"`
	RequestMode  string        `envconfig:"REQUEST_MODE" default:"GET"`
	Context      string        `envconfig:"CONTEXT" default:"DR7"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`

	// Timeout bounds the wait for the response headers of each request.
	// Reading the body is never cut short. Zero means no limit.
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
	Env       string `envconfig:"ENV" default:"dev"`

	Log Log
}

// LoadConfig reads the configuration from CASJOBS_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "loading config from environment")
	}
	return &cfg, nil
}

// Validate reports the first problem that would keep a client from
// talking to the service.
func (c *Config) Validate() error {
	if c.WSID == 0 {
		return InvalidConfigError("missing CasJobs WSID")
	}
	if c.Password == "" {
		return InvalidConfigError("missing CasJobs password")
	}
	if c.BaseURL == "" {
		return InvalidConfigError("missing CasJobs base URL")
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	return nil
}

// Mode returns the normalized request mode.
func (c *Config) Mode() (string, error) {
	switch m := strings.ToUpper(c.RequestMode); m {
	case "":
		return ModeGET, nil
	case ModeGET, ModePOST:
		return m, nil
	}
	return "", InvalidConfigError("invalid request mode " + c.RequestMode + ": must be GET or POST")
}
