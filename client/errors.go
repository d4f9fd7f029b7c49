package client

import (
	"fmt"

	"github.com/cbsinteractive/casjobs/job"
)

const noDetails = "no error details returned by the service"

// ServiceError is returned when the service answers with anything but 200.
type ServiceError struct {
	Op      string
	Code    int
	Message string
}

func (err *ServiceError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", err.Op, err.Code, err.Message)
}

// NotFound reports whether the service answered 404.
func (err *ServiceError) NotFound() bool {
	return err.Code == 404
}

// JobError is returned when a job ended in a state the operation
// could not accept.
type JobError struct {
	ID     int64
	Status job.Status
	Msg    string
}

func (err *JobError) Error() string {
	return fmt.Sprintf("%s: job %d status is %d (%s)", err.Msg, err.ID, err.Status.Code(), err.Status)
}

// JobNotFoundError is returned if a job search came back empty.
type JobNotFoundError struct {
	ID int64
}

func (err JobNotFoundError) Error() string {
	return fmt.Sprintf("could not find job with id: %d", err.ID)
}
