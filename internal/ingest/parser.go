package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TXT fallback field names for lines without a tab-separated pair.
const (
	FieldQuestion = "question"
	FieldAnswer   = "answer"
	FieldLine     = "line"
	FieldIndex    = "index"
)

// Parse turns raw file text of the declared format into rows.
//
// It returns ErrParseFailure (wrapped with detail) for malformed content and
// ErrNoDataParsed when the content yields zero rows.
func Parse(raw string, format Format) ([]Row, error) {
	var (
		rows []Row
		err  error
	)

	switch format {
	case FormatCSV:
		rows = parseCSV(raw)
	case FormatJSON:
		rows, err = parseJSON(raw)
	case FormatTXT:
		rows = parseTXT(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNoDataParsed
	}
	return rows, nil
}

// parseCSV reads a header line followed by data lines. Each non-blank line
// is one record, so a stray quote can never join lines. Headers and values
// are trimmed, short rows are padded with "" and extra values are dropped.
func parseCSV(raw string) []Row {
	var (
		headers []string
		rows    []Row
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record := splitCSVLine(line)
		if headers == nil {
			headers = make([]string, len(record))
			for i, h := range record {
				headers[i] = strings.TrimSpace(h)
			}
			continue
		}

		row := Row{values: make(map[string]string, len(headers))}
		for i, h := range headers {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row.Set(h, value)
		}
		rows = append(rows, row)
	}

	return rows
}

// splitCSVLine splits one line on commas, honoring RFC 4180 quoting. A line
// whose quotes are malformed is split on every comma instead.
func splitCSVLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return record
}

// parseJSON decodes a single JSON value. A lone object is treated as a
// one-element array. Object key order is preserved, which encoding/json
// maps would lose, so objects are walked token by token.
func parseJSON(raw string) ([]Row, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
	}

	var rows []Row
	switch tok {
	case json.Delim('['):
		for dec.More() {
			row, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
		}
	case json.Delim('{'):
		row, err := decodeObjectBody(dec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	default:
		return nil, fmt.Errorf("%w: json: top-level value must be an object or an array of objects", ErrParseFailure)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: json: unexpected data after top-level value", ErrParseFailure)
	}

	return rows, nil
}

func decodeObject(dec *json.Decoder) (Row, error) {
	tok, err := dec.Token()
	if err != nil {
		return Row{}, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
	}
	if tok != json.Delim('{') {
		return Row{}, fmt.Errorf("%w: json: array elements must be objects", ErrParseFailure)
	}
	return decodeObjectBody(dec)
}

// decodeObjectBody reads fields up to and including the closing brace.
func decodeObjectBody(dec *json.Decoder) (Row, error) {
	row := Row{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Row{}, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
		}
		key, ok := tok.(string)
		if !ok {
			return Row{}, fmt.Errorf("%w: json: object key is not a string", ErrParseFailure)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Row{}, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
		}
		text, err := jsonValueText(value)
		if err != nil {
			return Row{}, err
		}
		row.Set(key, text)
	}

	if _, err := dec.Token(); err != nil {
		return Row{}, fmt.Errorf("%w: json: %v", ErrParseFailure, err)
	}
	return row, nil
}

// jsonValueText renders a field value as text: strings trimmed, null as "",
// nested values as compact JSON and other scalars as their literal.
func jsonValueText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: json: %v", ErrParseFailure, err)
		}
		return strings.TrimSpace(s), nil
	case 'n':
		return "", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", fmt.Errorf("%w: json: %v", ErrParseFailure, err)
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}

// parseTXT reads one record per non-blank line. A line with at least two
// tab-separated parts becomes a question/answer row directly; any other
// line is kept as a line/index record. Parts are not trimmed.
func parseTXT(raw string) []Row {
	var rows []Row
	index := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if parts := strings.Split(line, "\t"); len(parts) >= 2 {
			rows = append(rows, NewRow(FieldQuestion, parts[0], FieldAnswer, parts[1]))
		} else {
			rows = append(rows, NewRow(FieldLine, line, FieldIndex, strconv.Itoa(index)))
		}
		index++
	}
	return rows
}
