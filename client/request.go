package client

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cbsinteractive/casjobs/config"
	"github.com/cbsinteractive/casjobs/response"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Remote operations of the jobs.asmx service.
const (
	opQuick   = "ExecuteQuickJob"
	opSubmit  = "SubmitJob"
	opStatus  = "GetJobStatus"
	opCancel  = "CancelJob"
	opJobs    = "GetJobs"
	opExtract = "SubmitExtractJob"
	opOutput  = "GetOutput"
)

// send calls op with params, adding the client credentials unless the
// caller already provided wsid or pw, and returns the response body.
func (c *Client) send(ctx context.Context, op string, params url.Values) (string, error) {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("wsid") == "" {
		params.Set("wsid", strconv.FormatInt(c.cfg.WSID, 10))
	}
	if params.Get("pw") == "" {
		params.Set("pw", c.cfg.Password)
	}

	req, err := c.newRequest(ctx, op, params)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s request", op)
	}
	c.logger.WithFields(logrus.Fields{"op": op, "method": req.Method}).Debug("sending request")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "sending %s request", op)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s response", op)
	}

	if resp.StatusCode != http.StatusOK {
		msg := noDetails
		if len(body) > 0 {
			msg = response.ErrorMessage(string(body))
		}
		return "", &ServiceError{Op: op, Code: resp.StatusCode, Message: msg}
	}
	return string(body), nil
}

func (c *Client) newRequest(ctx context.Context, op string, params url.Values) (*http.Request, error) {
	endpoint := joinBaseAndParts(c.cfg.BaseURL, op)
	if c.mode == config.ModePOST {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
}

// fetch downloads a file the service published. The caller closes the
// returned body.
func (c *Client) fetch(ctx context.Context, loc string) (io.ReadCloser, error) {
	u, err := c.base.Parse(loc)
	if err != nil {
		return nil, &response.MalformedResponseError{Tag: "OutputLoc", Msg: "bad output location " + loc, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request for %s", u)
	}
	c.logger.WithField("url", u.String()).Debug("downloading output")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "getting file %s", u)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &ServiceError{Op: opOutput, Code: resp.StatusCode, Message: "getting file " + u.String()}
	}
	return resp.Body, nil
}

// scalarInt extracts an integer wrapped in tag.
func scalarInt(body, tag string) (int64, error) {
	v, err := response.Scalar(body, tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, &response.MalformedResponseError{Tag: tag, Msg: "not an integer", Err: err}
	}
	return n, nil
}

func joinBaseAndParts(base string, elem ...string) string {
	parts := []string{strings.TrimRight(base, "/")}
	parts = append(parts, elem...)
	return strings.Join(parts, "/")
}
