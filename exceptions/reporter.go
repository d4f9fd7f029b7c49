// Package exceptions forwards failures of the command line tool to an
// external error tracker.
package exceptions

import (
	"strconv"
	"time"

	"github.com/cbsinteractive/casjobs/client"
	"github.com/cbsinteractive/casjobs/config"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

const defaultFlushTimeout = time.Second * 5

// Reporter sends exceptions to an external source
type Reporter interface {
	ReportException(err error)
}

// NoopReporter is a no-op exception reporter
type NoopReporter struct{}

// ReportException does nothing
func (r *NoopReporter) ReportException(_ error) {}

// SentryReporter is a Reporter that sends error information to Sentry.
// CasJobs errors are tagged with the remote operation, status code and
// job so they can be grouped without re-querying the service.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewReporter returns a SentryReporter when cfg has a DSN and a
// NoopReporter otherwise.
func NewReporter(cfg *config.Config) (Reporter, error) {
	if cfg.SentryDSN == "" {
		return &NoopReporter{}, nil
	}
	return NewSentryReporter(cfg.SentryDSN, cfg.Env)
}

// NewSentryReporter creates and returns an instance of SentryReporter
func NewSentryReporter(dsn, env string) (*SentryReporter, error) {
	c, err := sentry.NewClient(sentry.ClientOptions{Dsn: dsn, Environment: env})
	if err != nil {
		return nil, errors.Wrap(err, "creating sentry client")
	}
	return &SentryReporter{hub: sentry.NewHub(c, sentry.NewScope())}, nil
}

// ReportException will send errors to Sentry
func (r *SentryReporter) ReportException(err error) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(Tags(err))
		r.hub.CaptureException(err)
	})
	r.hub.Flush(defaultFlushTimeout)
}

// Tags describes a CasJobs error as key/value pairs.
func Tags(err error) map[string]string {
	tags := map[string]string{}

	var serr *client.ServiceError
	if errors.As(err, &serr) {
		tags["casjobs.op"] = serr.Op
		tags["casjobs.status_code"] = strconv.Itoa(serr.Code)
	}

	var jerr *client.JobError
	if errors.As(err, &jerr) {
		tags["casjobs.job_id"] = strconv.FormatInt(jerr.ID, 10)
		tags["casjobs.job_status"] = jerr.Status.String()
	}
	return tags
}
