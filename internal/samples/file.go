package samples

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/snoozewise/hrfilter/internal/fileutils"
	"github.com/ubuntu/decorate"
)

// Decode reads a JSON array of records from r.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := fileutils.ParseJSON(r, &records); err != nil {
		if errors.Is(err, fileutils.ErrInvalidJSON) {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	// A null document decodes without error into a nil slice.
	if records == nil {
		return nil, fmt.Errorf("%w: document is not a JSON array", ErrFormat)
	}
	return records, nil
}

// Load reads all the records of the JSON document at path.
func Load(path string) (records []Record, err error) {
	defer decorate.OnError(&err, "could not load samples from %q", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}

// Marshal encodes records as a JSON array.
// The array is compact, unless indent is not empty. HTML characters are not escaped.
func Marshal(records []Record, indent string) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Save atomically writes records as a JSON array to path, replacing any existing file.
// See Marshal for indent.
func Save(path string, records []Record, indent string) (err error) {
	defer decorate.OnError(&err, "could not save samples to %q", path)

	data, err := Marshal(records, indent)
	if err != nil {
		return err
	}

	if err := fileutils.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
