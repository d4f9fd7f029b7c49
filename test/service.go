// Package test holds helpers shared by the package tests, most notably
// a scripted stand-in for the CasJobs web service.
package test

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
	"testing"
)

const serviceNS = "http://Services.Cas.jhu.edu"

// Reply is one scripted answer of the fake service.
type Reply struct {
	Code int
	Body string
}

// Call records a request received by the fake service.
type Call struct {
	Method string
	Params url.Values
}

// Service is an httptest server answering CasJobs operations from a
// script. Operations are matched on the last path element, so output
// files are scripted by their file name.
type Service struct {
	*httptest.Server

	t       *testing.T
	mu      sync.Mutex
	replies map[string][]Reply
	calls   map[string][]Call
}

// NewService starts a fake service that is closed with the test.
func NewService(t *testing.T) *Service {
	t.Helper()
	s := &Service{
		t:       t,
		replies: map[string][]Reply{},
		calls:   map[string][]Call{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// On queues replies for op. They are served in order; the last one is
// repeated once the queue is drained.
func (s *Service) On(op string, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[op] = append(s.replies[op], replies...)
}

// Calls returns the requests received for op.
func (s *Service) Calls(op string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls[op]...)
}

// Total returns the number of requests received for all operations.
func (s *Service) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += len(c)
	}
	return n
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.t.Errorf("fake service: parsing form: %v", err)
	}
	op := path.Base(r.URL.Path)

	s.mu.Lock()
	s.calls[op] = append(s.calls[op], Call{Method: r.Method, Params: r.Form})
	queue := s.replies[op]
	var reply Reply
	switch len(queue) {
	case 0:
		s.mu.Unlock()
		s.t.Errorf("fake service: unexpected call to %s", op)
		http.NotFound(w, r)
		return
	case 1:
		reply = queue[0]
	default:
		reply, s.replies[op] = queue[0], queue[1:]
	}
	s.mu.Unlock()

	w.WriteHeader(reply.Code)
	fmt.Fprint(w, reply.Body)
}

// OK is a 200 reply with a raw body.
func OK(body string) Reply {
	return Reply{Code: http.StatusOK, Body: body}
}

// Fail is an error reply.
func Fail(code int, body string) Reply {
	return Reply{Code: code, Body: body}
}

// Scalar is a 200 reply wrapping v in a single tag, the way the service
// returns strings, longs and ints.
func Scalar(tag string, v interface{}) Reply {
	return OK(fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>`+"\n"+`<%s xmlns="%s">%s</%s>`,
		tag, serviceNS, escape(fmt.Sprint(v)), tag))
}

// String is a quick job result.
func String(v string) Reply { return Scalar("string", v) }

// Long is a job id.
func Long(v int64) Reply { return Scalar("long", v) }

// Int is a job status code.
func Int(v int) Reply { return Scalar("int", v) }

// Jobs is a GetJobs result holding one CJJob per record.
func Jobs(records ...map[string]string) Reply {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(&b, `<ArrayOfCJJob xmlns="%s">`, serviceNS)
	for _, rec := range records {
		b.WriteString("<CJJob>")
		for k, v := range rec {
			fmt.Fprintf(&b, "<%s>%s</%s>", k, escape(v), k)
		}
		b.WriteString("</CJJob>")
	}
	b.WriteString("</ArrayOfCJJob>")
	return OK(b.String())
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
