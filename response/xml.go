// Package response extracts values from the XML bodies returned by the
// CasJobs web service.
//
// Extraction is deliberately loose: the first element with a matching
// local name wins and nothing is validated against a schema.
package response

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// MalformedResponseError is returned when a 200 response lacks the
// element the caller asked for.
type MalformedResponseError struct {
	Tag string
	Msg string
	Err error
}

func (err *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response: %s", err.Msg)
	if err.Tag != "" {
		msg = fmt.Sprintf("malformed response: <%s>: %s", err.Tag, err.Msg)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *MalformedResponseError) Unwrap() error { return err.Err }

// Malformed builds a MalformedResponseError that is not tied to a tag.
func Malformed(format string, args ...interface{}) error {
	return &MalformedResponseError{Msg: fmt.Sprintf(format, args...)}
}

type text struct {
	Data string `xml:",chardata"`
}

// Scalar returns the text of the first element named tag.
func Scalar(body, tag string) (string, error) {
	d := xml.NewDecoder(strings.NewReader(body))
	start, err := next(d, tag)
	if err == io.EOF {
		return "", &MalformedResponseError{Tag: tag, Msg: "element not found"}
	}
	if err != nil {
		return "", &MalformedResponseError{Tag: tag, Msg: "decoding xml", Err: err}
	}

	var t text
	if err := d.DecodeElement(&t, &start); err != nil {
		return "", &MalformedResponseError{Tag: tag, Msg: "decoding element", Err: err}
	}
	if t.Data == "" {
		return "", &MalformedResponseError{Tag: tag, Msg: "element has no text"}
	}
	return t.Data, nil
}

// Records returns one map per element named tag, keyed by the local name
// of each child element.
func Records(body, tag string) ([]map[string]string, error) {
	d := xml.NewDecoder(strings.NewReader(body))
	var records []map[string]string
	for {
		_, err := next(d, tag)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, &MalformedResponseError{Tag: tag, Msg: "decoding xml", Err: err}
		}

		rec, err := children(d)
		if err != nil {
			return nil, &MalformedResponseError{Tag: tag, Msg: "decoding record", Err: err}
		}
		records = append(records, rec)
	}
}

// next advances d past the start of the next element named tag.
func next(d *xml.Decoder, tag string) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == tag {
			return se, nil
		}
	}
}

// children reads the child elements of the element d is positioned in,
// up to and including its end tag.
func children(d *xml.Decoder) (map[string]string, error) {
	rec := map[string]string{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading children")
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			var t text
			if err := d.DecodeElement(&t, &tok); err != nil {
				return nil, errors.Wrapf(err, "decoding <%s>", tok.Name.Local)
			}
			rec[tok.Name.Local] = t.Data
		case xml.EndElement:
			return rec, nil
		}
	}
}
