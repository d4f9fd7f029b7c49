// Package job holds the CasJobs job model: status codes, search records
// returned by GetJobs and the output formats an extract job can produce.
package job

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Contexts with special meaning to the service.
const (
	ContextMyDB = "MYDB"
)

// Record is a single CJJob entry returned by a job search. Keys are the
// element names the service sent (JobID, Status, OutputLoc, ...).
type Record map[string]string

// Field names of a CJJob element.
const (
	FieldJobID     = "JobID"
	FieldStatus    = "Status"
	FieldOutputLoc = "OutputLoc"
	FieldTaskName  = "TaskName"
)

// ID returns the job id of the record.
func (r Record) ID() (int64, error) {
	v, ok := r[FieldJobID]
	if !ok {
		return 0, errors.Errorf("record has no %s", FieldJobID)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s %q", FieldJobID, v)
	}
	return id, nil
}

// Status returns the parsed status of the record.
func (r Record) Status() (Status, error) {
	v, ok := r[FieldStatus]
	if !ok {
		return 0, errors.Errorf("record has no %s", FieldStatus)
	}
	code, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s %q", FieldStatus, v)
	}
	return ParseStatus(code)
}

// OutputLoc is where the service published the file of a finished output job.
func (r Record) OutputLoc() string {
	return strings.TrimSpace(r[FieldOutputLoc])
}

// TaskName is the task name the job was submitted under.
func (r Record) TaskName() string {
	return r[FieldTaskName]
}

// Condition is one "key : value" term of a job search.
type Condition struct {
	Key, Value string
}

// Conditions is an ordered list of search terms.
type Conditions []Condition

// Where starts a condition list.
func Where(key string, value interface{}) Conditions {
	return Conditions{}.And(key, value)
}

// And appends a term.
func (c Conditions) And(key string, value interface{}) Conditions {
	return append(c, Condition{Key: key, Value: fmt.Sprint(value)})
}

// String renders the conditions the way GetJobs expects them.
func (c Conditions) String() string {
	terms := make([]string, 0, len(c))
	for _, cond := range c {
		terms = append(terms, cond.Key+" : "+cond.Value)
	}
	return strings.Join(terms, ";")
}
