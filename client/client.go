// Package client talks to the CasJobs job service: it runs quick
// queries, submits and monitors batch jobs, and downloads extracted
// MyDB tables.
package client

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/cbsinteractive/casjobs/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultContext      = "DR7"
)

// Client is a CasJobs client bound to one set of credentials. It holds
// no state besides its configuration and may be reused for sequential
// calls.
type Client struct {
	cfg    config.Config
	mode   string
	base   *url.URL
	client *http.Client
	logger logrus.FieldLogger

	sleep func(context.Context, time.Duration) error
}

// New validates cfg and returns a client. A nil logger discards output.
func New(cfg *config.Config, logger logrus.FieldLogger) (*Client, error) {
	if cfg == nil {
		return nil, config.InvalidConfigError("missing configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, config.InvalidConfigError(fmt.Sprintf("invalid base URL %q: %v", cfg.BaseURL, err))
	}

	if logger == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		logger = l
	}

	return &Client{
		cfg:    *cfg,
		mode:   mode,
		base:   base,
		client: newHTTPClient(cfg.Timeout),
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

// newHTTPClient limits only the wait for response headers, so output
// downloads and long quick jobs are not cut off mid-body. A timeout <= 0
// disables the limit.
func newHTTPClient(timeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		t.ResponseHeaderTimeout = timeout
	}
	return &http.Client{Transport: t}
}

// WSID returns the identity the client authenticates as.
func (c *Client) WSID() int64 {
	return c.cfg.WSID
}

func (c *Client) queryContext(name string) string {
	if name != "" {
		return name
	}
	if c.cfg.Context != "" {
		return c.cfg.Context
	}
	return defaultContext
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
