// Package samples filters and reshapes heart-rate sample exports.
//
// A run keeps the records which ended at or before a cutoff, drops their identifier and renders
// their start and end dates with OutputLayout. Any failure aborts the whole run.
package samples

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ubuntu/decorate"
)

const (
	// FieldID is the identifier field, removed from the output.
	FieldID = "id"
	// FieldStartDate is the start of the sample.
	FieldStartDate = "startDate"
	// FieldEndDate is the end of the sample, compared to the cutoff.
	FieldEndDate = "endDate"
)

// Predicate reports whether the end date of r is before or equal to cutoff.
func Predicate(r Record, cutoff time.Time) (bool, error) {
	end, err := timestampField(r, FieldEndDate)
	if err != nil {
		return false, err
	}
	return !end.After(cutoff), nil
}

// Transform returns a copy of r without its identifier, and with its start and end dates
// rendered with OutputLayout. Dates absent from r stay absent. Other fields are copied as is.
func Transform(r Record) (Record, error) {
	out := r.clone()
	out.Delete(FieldID)

	for _, key := range []string{FieldStartDate, FieldEndDate} {
		if _, ok := r.Get(key); !ok {
			continue
		}

		t, err := timestampField(r, key)
		if err != nil {
			return Record{}, err
		}
		v, err := marshalString(RenderTimestamp(t))
		if err != nil {
			return Record{}, err
		}
		out.Set(key, v)
	}

	return out, nil
}

type options struct {
	logger *slog.Logger
}

// Option represents an optional function to override Run default values.
type Option func(*options)

// WithLogger sets the logger used to report the dropped records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run returns the transformed records which pass the predicate, in their original order.
// It stops at the first record which can't be filtered or transformed.
func Run(records []Record, cutoff time.Time, args ...Option) (kept []Record, err error) {
	defer decorate.OnError(&err, "filtering failed")

	opts := options{logger: slog.Default()}
	for _, opt := range args {
		opt(&opts)
	}

	kept = make([]Record, 0, len(records))
	for i, r := range records {
		ok, err := Predicate(r, cutoff)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if !ok {
			opts.logger.Debug("Dropping record ending after cutoff", "record", i)
			continue
		}

		t, err := Transform(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		kept = append(kept, t)
	}

	return kept, nil
}

// timestampField parses the timestamp stored in key.
func timestampField(r Record, key string) (time.Time, error) {
	raw, ok := r.Get(key)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMissingField, key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a string: %s", ErrFormat, key, raw)
	}

	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", key, err)
	}
	return t, nil
}
