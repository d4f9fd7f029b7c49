package client

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/cbsinteractive/casjobs/config"
	"github.com/cbsinteractive/casjobs/test"
	"github.com/google/go-cmp/cmp"
)

func TestSend(t *testing.T) {
	for _, mode := range []string{config.ModeGET, config.ModePOST} {
		t.Run(mode, func(t *testing.T) {
			svc := test.NewService(t)
			svc.On(opStatus, test.Int(1))
			c, _ := newTestClient(t, svc, mode)

			if _, err := c.Status(context.Background(), 77); err != nil {
				t.Fatal(err)
			}

			calls := svc.Calls(opStatus)
			if len(calls) != 1 {
				t.Fatalf("want 1 call, got %d", len(calls))
			}
			if calls[0].Method != mode {
				t.Errorf("method = %s, want %s", calls[0].Method, mode)
			}
			want := url.Values{"jobid": {"77"}, "wsid": {"42"}, "pw": {"secret"}}
			if diff := cmp.Diff(want, calls[0].Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSendKeepsCallerCredentials(t *testing.T) {
	svc := test.NewService(t)
	svc.On("Anything", test.OK("ok"))
	c, _ := newTestClient(t, svc, config.ModeGET)

	body, err := c.send(context.Background(), "Anything", url.Values{"wsid": {"7"}, "pw": {"other"}})
	if err != nil {
		t.Fatal(err)
	}
	if body != "ok" {
		t.Errorf("body = %q", body)
	}
	p := svc.Calls("Anything")[0].Params
	if p.Get("wsid") != "7" || p.Get("pw") != "other" {
		t.Errorf("caller credentials were overwritten: %v", p)
	}
}

func TestSendErrors(t *testing.T) {
	tests := []struct {
		name         string
		response     http.Response
		returnsErr   error
		reqAssertion func(*testing.T, *http.Request)
		expectErr    string
		wantCode     int
	}{
		{
			name: "the operation name is appended to the base url",
			response: http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(strings.NewReader(`<int>0</int>`)),
			},
			reqAssertion: func(t *testing.T, r *http.Request) {
				if g, e := r.URL.Path, "/CasJobs/services/jobs.asmx/GetJobStatus"; g != e {
					t.Errorf("wrong path requested, got %q, expected %q", g, e)
				}
			},
		},
		{
			name: "a sql error is pulled out of the exception trace",
			response: http.Response{
				StatusCode: 500,
				Body: ioutil.NopCloser(strings.NewReader(
					"System.Exception: Syntax error near 'SELECT' --->\n   at Cas.Jobs.Status()")),
			},
			expectErr: "GetJobStatus failed with status 500: Syntax error near 'SELECT'",
			wantCode:  500,
		},
		{
			name:      "an empty error body gets a generic message",
			response:  http.Response{StatusCode: 503},
			expectErr: "GetJobStatus failed with status 503: no error details returned by the service",
			wantCode:  503,
		},
		{
			name:       "transport errors are wrapped with the operation",
			returnsErr: errors.New("connection refused"),
			expectErr:  `sending GetJobStatus request: Get "http://casjobs.example/CasJobs/services/jobs.asmx/GetJobStatus?jobid=1&pw=secret&wsid=42": connection refused`,
		},
		{
			name: "a failed body read is reported",
			response: http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(errReader{}),
			},
			expectErr: "reading GetJobStatus response: error forced by mock reader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTransport := &mockRoundTripper{returnsResp: tt.response, returnsErr: tt.returnsErr}
			c, err := New(&config.Config{
				WSID:     testWSID,
				Password: testPassword,
				BaseURL:  "http://casjobs.example/CasJobs/services/jobs.asmx",
			}, nil)
			if err != nil {
				t.Fatal(err)
			}
			c.client = &http.Client{Transport: mockTransport}

			_, err = c.Status(context.Background(), 1)
			if err != nil {
				if g, e := err.Error(), tt.expectErr; g != e {
					t.Errorf("Status() wrong error returned, got: %v, want: %v", g, e)
				}
			} else if tt.expectErr != "" {
				t.Error("Status() expected an error, got nil")
			}

			if tt.wantCode != 0 {
				var serr *ServiceError
				if !errors.As(err, &serr) {
					t.Fatalf("want *ServiceError, got %T", err)
				}
				if serr.Code != tt.wantCode || serr.Op != opStatus {
					t.Errorf("ServiceError = %+v", serr)
				}
			}

			if tt.reqAssertion != nil {
				tt.reqAssertion(t, mockTransport.calledWithReq)
			}
		})
	}
}

type mockRoundTripper struct {
	calledWithReq *http.Request
	returnsResp   http.Response
	returnsErr    error
}

func (rt *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.calledWithReq = req
	if rt.returnsErr != nil {
		return nil, rt.returnsErr
	}

	if rt.returnsResp.Body == nil {
		rt.returnsResp.Body = ioutil.NopCloser(strings.NewReader(""))
	}

	return &rt.returnsResp, nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("error forced by mock reader")
}
