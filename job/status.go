package job

import "fmt"

// Status is the state of a CasJobs job as reported by GetJobStatus.
type Status int

const (
	StatusReady Status = iota
	StatusStarted
	StatusCanceling
	StatusCancelled
	StatusFailed
	StatusFinished
)

var statusNames = map[Status]string{
	StatusReady:     "ready",
	StatusStarted:   "started",
	StatusCanceling: "canceling",
	StatusCancelled: "cancelled",
	StatusFailed:    "failed",
	StatusFinished:  "finished",
}

// UnknownStatusError is returned when the service reports a status code
// outside the known range.
type UnknownStatusError struct {
	Code int
}

func (err UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown job status code: %d", err.Code)
}

// ParseStatus maps a numeric status code to a Status.
func ParseStatus(code int) (Status, error) {
	s := Status(code)
	if _, ok := statusNames[s]; !ok {
		return 0, UnknownStatusError{Code: code}
	}
	return s, nil
}

// Code returns the numeric code used on the wire.
func (s Status) Code() int { return int(s) }

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether the job can no longer change state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusFailed, StatusFinished:
		return true
	}
	return false
}
