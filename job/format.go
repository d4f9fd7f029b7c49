package job

import "fmt"

// Format is the file type an output job materializes a MyDB table into.
type Format string

const (
	FormatCSV     = Format("CSV")
	FormatDataSet = Format("DataSet")
	FormatFITS    = Format("FITS")
	FormatVOTable = Format("VOTable")
)

// Formats lists every format SubmitExtractJob accepts.
var Formats = []Format{FormatCSV, FormatDataSet, FormatFITS, FormatVOTable}

// InvalidFormatError is returned for an output type the service does not offer.
type InvalidFormatError string

func (err InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q: must be one of %v", string(err), Formats)
}

// ParseFormat validates an output type name. Matching is exact, the
// service is case sensitive here.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", InvalidFormatError(name)
}
