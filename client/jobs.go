package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cbsinteractive/casjobs/job"
	"github.com/cbsinteractive/casjobs/response"
	"github.com/pkg/errors"
)

const (
	defaultQuickTask  = "quickie"
	defaultSubmitTask = "casjobs"
	defaultEstimate   = 30
)

// QuickJob is a query executed synchronously by the service.
type QuickJob struct {
	Query    string
	Context  string // defaults to the configured context
	TaskName string // defaults to "quickie"
	System   bool   // run as a system job, hidden from the job history
}

// SubmitJob is a query queued for asynchronous execution.
type SubmitJob struct {
	Query    string
	Context  string // defaults to the configured context
	TaskName string // defaults to "casjobs"
	Estimate int    // minutes, defaults to 30
}

// Quick runs a quick job and returns the result as the raw CSV-like
// text the service produced, header line included.
func (c *Client) Quick(ctx context.Context, q QuickJob) (string, error) {
	task := q.TaskName
	if task == "" {
		task = defaultQuickTask
	}
	body, err := c.send(ctx, opQuick, url.Values{
		"qry":      {q.Query},
		"context":  {c.queryContext(q.Context)},
		"taskname": {task},
		"isSystem": {strconv.FormatBool(q.System)},
	})
	if err != nil {
		return "", err
	}
	return response.Scalar(body, "string")
}

// Submit queues a job and returns its id.
func (c *Client) Submit(ctx context.Context, s SubmitJob) (int64, error) {
	task := s.TaskName
	if task == "" {
		task = defaultSubmitTask
	}
	estimate := s.Estimate
	if estimate <= 0 {
		estimate = defaultEstimate
	}
	body, err := c.send(ctx, opSubmit, url.Values{
		"qry":      {s.Query},
		"context":  {c.queryContext(s.Context)},
		"taskname": {task},
		"estimate": {strconv.Itoa(estimate)},
	})
	if err != nil {
		return 0, err
	}
	return scalarInt(body, "long")
}

// Status probes the current status of a job once.
func (c *Client) Status(ctx context.Context, id int64) (job.Status, error) {
	body, err := c.send(ctx, opStatus, url.Values{"jobid": {strconv.FormatInt(id, 10)}})
	if err != nil {
		return 0, err
	}
	code, err := scalarInt(body, "int")
	if err != nil {
		return 0, errors.Wrapf(err, "status of job %d", id)
	}
	s, err := job.ParseStatus(int(code))
	if err != nil {
		return 0, errors.Wrapf(err, "status of job %d", id)
	}
	return s, nil
}

// Cancel asks the service to cancel a job. The service does not confirm
// the cancellation; use Status or Monitor to observe it.
func (c *Client) Cancel(ctx context.Context, id int64) error {
	_, err := c.send(ctx, opCancel, url.Values{"jobid": {strconv.FormatInt(id, 10)}})
	return err
}

// JobInfo searches the jobs owned by the client identity.
func (c *Client) JobInfo(ctx context.Context, where job.Conditions) ([]job.Record, error) {
	body, err := c.send(ctx, opJobs, url.Values{
		"owner_wsid":    {strconv.FormatInt(c.cfg.WSID, 10)},
		"owner_pw":      {c.cfg.Password},
		"conditions":    {where.String()},
		"includeSystem": {"false"},
	})
	if err != nil {
		return nil, err
	}

	recs, err := response.Records(body, "CJJob")
	if err != nil {
		return nil, err
	}
	jobs := make([]job.Record, 0, len(recs))
	for _, r := range recs {
		jobs = append(jobs, job.Record(r))
	}
	return jobs, nil
}
