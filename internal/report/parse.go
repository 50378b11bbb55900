package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gmhelper/gmhelper/internal/schema"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// ParseLine decodes a protocol line. ok is false when the line does not carry
// the prefix; err is set when it does but the record is malformed.
func ParseLine(line string) (res sprite.ExportResult, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	payload, found := strings.CutPrefix(line, Prefix)
	if !found {
		return sprite.ExportResult{}, false, nil
	}

	if err := schema.ValidateExportRecord([]byte(payload)); err != nil {
		return sprite.ExportResult{}, true, fmt.Errorf("invalid export record %q: %w", payload, err)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&res); err != nil {
		return sprite.ExportResult{}, true, fmt.Errorf("invalid export record %q: %w", payload, err)
	}
	return res, true, nil
}

// Scan reads r line by line, collecting results in stream order. Lines
// without the prefix that are not blank go to passthrough, which may be nil.
// Malformed records are returned as errors and do not stop the scan.
func Scan(r io.Reader, passthrough func(line string)) ([]sprite.ExportResult, []error) {
	var results []sprite.ExportResult
	var errs []error

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		res, ok, err := ParseLine(line)
		switch {
		case err != nil:
			errs = append(errs, err)
		case ok:
			results = append(results, res)
		case strings.TrimSpace(line) != "" && passthrough != nil:
			passthrough(line)
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading export output: %w", err))
	}
	return results, errs
}
