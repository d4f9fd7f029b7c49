package client

import (
	"context"
	"time"

	"github.com/cbsinteractive/casjobs/job"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Monitor polls a job at the configured interval until it reaches a
// terminal status (cancelled, failed or finished) and returns that status.
// There is no timeout: cancel ctx to stop early.
func (c *Client) Monitor(ctx context.Context, id int64) (job.Status, error) {
	return c.MonitorEvery(ctx, id, c.cfg.PollInterval)
}

// MonitorEvery is Monitor with an explicit poll interval.
func (c *Client) MonitorEvery(ctx context.Context, id int64, interval time.Duration) (job.Status, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log := c.logger.WithField("job_id", id)
	for {
		s, err := c.Status(ctx, id)
		if err != nil {
			return 0, err
		}
		log.WithFields(logrus.Fields{"code": s.Code(), "status": s.String()}).Info("monitoring job")
		if s.Terminal() {
			return s, nil
		}
		if err := c.sleep(ctx, interval); err != nil {
			return s, errors.Wrapf(err, "monitoring job %d", id)
		}
	}
}

// await monitors a job and fails unless it finished.
func (c *Client) await(ctx context.Context, id int64, msg string) error {
	s, err := c.Monitor(ctx, id)
	if err != nil {
		return err
	}
	if s != job.StatusFinished {
		return &JobError{ID: id, Status: s, Msg: msg}
	}
	return nil
}
