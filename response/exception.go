package response

import (
	"html"
	"regexp"
	"strings"
)

var exceptionMessage = regexp.MustCompile(`(?s)System\.Exception: (.*?) --->`)

// ErrorMessage pulls a readable message out of the body of a failed
// request. The service wraps SQL errors in a .NET exception trace; when
// no such trace is present the first two lines of the body are used.
func ErrorMessage(body string) string {
	if m := exceptionMessage.FindStringSubmatch(body); m != nil {
		return html.UnescapeString(m[1])
	}

	lines := strings.SplitN(body, "\n", 3)
	if len(lines) > 2 {
		lines = lines[:2]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return html.UnescapeString(strings.TrimSpace(strings.Join(lines, " ")))
}
