package samples

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// InputLayout is the layout of startDate and endDate in the source document.
	InputLayout = "2006-01-02T15:04:05Z"

	// OutputLayout is the layout startDate and endDate are rendered with.
	OutputLayout = "2006-01-02 15:04:05"

	// CutoffLayout is the layout of the configured cutoff.
	CutoffLayout = OutputLayout
)

// time.Parse accepts fractional seconds and single digit hours which the layouts don't allow.
var (
	inputPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	cutoffPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

// ParseTimestamp parses s, which must follow InputLayout exactly.
// The result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return parseStrict(s, InputLayout, inputPattern)
}

// RenderTimestamp formats t with OutputLayout. The time zone of t is not converted.
func RenderTimestamp(t time.Time) string {
	return t.Format(OutputLayout)
}

// ParseCutoff parses s, which must follow CutoffLayout exactly.
//
// The cutoff carries no time zone. It is read as a UTC wall clock so that it compares with
// end dates by value, without any conversion.
func ParseCutoff(s string) (time.Time, error) {
	return parseStrict(s, CutoffLayout, cutoffPattern)
}

func parseStrict(s, layout string, pattern *regexp.Regexp) (time.Time, error) {
	if !pattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q does not match layout %q", ErrFormat, s, layout)
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return t, nil
}
