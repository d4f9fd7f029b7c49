package client

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/cbsinteractive/casjobs/job"
	"github.com/cbsinteractive/casjobs/response"
	"github.com/pkg/errors"
)

// RequestOutput submits an extract job turning a MyDB table into a file
// of the given format and returns the id of that output job. The format
// is checked before anything is sent.
func (c *Client) RequestOutput(ctx context.Context, table string, format job.Format) (int64, error) {
	f, err := job.ParseFormat(string(format))
	if err != nil {
		return 0, err
	}
	body, err := c.send(ctx, opExtract, url.Values{
		"tableName": {table},
		"type":      {string(f)},
	})
	if err != nil {
		return 0, err
	}
	return scalarInt(body, "long")
}

// GetOutput writes the file produced by a finished output job to w.
func (c *Client) GetOutput(ctx context.Context, id int64, w io.Writer) error {
	body, err := c.output(ctx, id)
	if err != nil {
		return err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return errors.Wrapf(err, "copying output of job %d", id)
	}
	return nil
}

// GetOutputFile is GetOutput into a local file. The file is only created
// once the download has started, and is removed again if the download
// breaks off.
func (c *Client) GetOutputFile(ctx context.Context, id int64, path string) error {
	body, err := c.output(ctx, id)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "writing output of job %d to %s", id, path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrap(err, "closing output file")
	}
	return nil
}

// RequestAndGetOutput requests an extract of table, waits for it to finish
// and writes the file to w.
func (c *Client) RequestAndGetOutput(ctx context.Context, table string, format job.Format, w io.Writer) error {
	id, err := c.requestOutputAndWait(ctx, table, format)
	if err != nil {
		return err
	}
	return c.GetOutput(ctx, id, w)
}

// RequestAndGetOutputFile is RequestAndGetOutput into a local file.
func (c *Client) RequestAndGetOutputFile(ctx context.Context, table string, format job.Format, path string) error {
	id, err := c.requestOutputAndWait(ctx, table, format)
	if err != nil {
		return err
	}
	return c.GetOutputFile(ctx, id, path)
}

func (c *Client) requestOutputAndWait(ctx context.Context, table string, format job.Format) (int64, error) {
	id, err := c.RequestOutput(ctx, table, format)
	if err != nil {
		return 0, err
	}
	if err := c.await(ctx, id, "output request failed"); err != nil {
		return 0, err
	}
	return id, nil
}

// output checks that the output job finished and opens its file.
func (c *Client) output(ctx context.Context, id int64) (io.ReadCloser, error) {
	recs, err := c.JobInfo(ctx, job.Where("jobid", id))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, JobNotFoundError{ID: id}
	}
	rec := recs[0]

	s, err := rec.Status()
	if err != nil {
		return nil, &response.MalformedResponseError{Tag: job.FieldStatus, Msg: "bad job status", Err: err}
	}
	if s != job.StatusFinished {
		return nil, &JobError{ID: id, Status: s, Msg: "output job is not finished"}
	}

	loc := rec.OutputLoc()
	if loc == "" {
		return nil, &response.MalformedResponseError{Tag: job.FieldOutputLoc, Msg: "element has no text"}
	}
	return c.fetch(ctx, loc)
}
