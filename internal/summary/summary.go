// Package summary turns raw CSV bytes of equipment telemetry into a fixed
// summary record: row count, column means, a category distribution, and a
// short raw-data sample. Processing is a pure function of the input bytes.
package summary

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrEmptyInput reports a file that is empty after trimming surrounding
// whitespace. It is the only validation-class failure; callers surface its
// message to the uploader.
var ErrEmptyInput = errors.New("the uploaded CSV file is empty")

// DecodeError reports input that is not valid UTF-8 text.
type DecodeError struct{}

func (*DecodeError) Error() string { return "input is not valid UTF-8 text" }

// ProcessingError wraps any non-validation failure during parsing so that
// callers see a single failure class carrying the original message.
type ProcessingError struct {
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("CSV processing error: %v", e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// Column names recognized for the fixed averages and the category tally.
const (
	colFlowrate    = "Flowrate"
	colPressure    = "Pressure"
	colTemperature = "Temperature"
	colCategory    = "Type"
)

// rawSampleSize bounds how many verbatim rows a summary retains.
const rawSampleSize = 10

// Averages holds the fixed-key column means, each rounded to two decimal
// places. A missing column yields 0, indistinguishable from a genuine zero
// mean; that ambiguity is part of the contract.
type Averages struct {
	Flowrate    float64 `json:"avg_flowrate"`
	Pressure    float64 `json:"avg_pressure"`
	Temperature float64 `json:"avg_temp"`
}

// Summary is the derived statistics for one uploaded table.
type Summary struct {
	TotalCount   int                 `json:"total_count"`
	Averages     Averages            `json:"averages"`
	Distribution Distribution        `json:"distribution"`
	RawData      []map[string]string `json:"raw_data"`
}

// Process parses CSV bytes and computes their Summary.
//
// Rows with a field count different from the header are skipped. Header
// names are trimmed after splitting. Missing averaged columns yield 0; a
// missing Type column falls back to the second column for the category
// tally. Failures other than empty input come back as *DecodeError or
// *ProcessingError.
func Process(data []byte) (*Summary, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{}
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, ErrEmptyInput
	}

	headers, rows, err := parseTable(content)
	if err != nil {
		return nil, &ProcessingError{Cause: err}
	}

	avgs := Averages{}
	for _, col := range []struct {
		name string
		dst  *float64
	}{
		{colFlowrate, &avgs.Flowrate},
		{colPressure, &avgs.Pressure},
		{colTemperature, &avgs.Temperature},
	} {
		mean, err := columnMean(headers, rows, col.name)
		if err != nil {
			return nil, &ProcessingError{Cause: err}
		}
		*col.dst = mean
	}

	dist, err := categoryDistribution(headers, rows)
	if err != nil {
		return nil, &ProcessingError{Cause: err}
	}

	return &Summary{
		TotalCount:   len(rows),
		Averages:     avgs,
		Distribution: dist,
		RawData:      rawSample(headers, rows),
	}, nil
}

// Encode serializes a summary the same way it travels on the wire, so the
// stored blob and the upload response are byte-compatible.
func (s *Summary) Encode() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode summary failed: %w", err)
	}
	return raw, nil
}

func parseTable(content string) (headers []string, rows [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv failed: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("no header row")
	}

	headers = make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	for _, record := range records[1:] {
		// Malformed rows are dropped, not fatal.
		if len(record) != len(headers) {
			continue
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}

func findColumn(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// columnMean averages the named column over all rows that carry a value in
// it, rounded to two decimals. Absent column or no parsable values mean 0.
func columnMean(headers []string, rows [][]string, name string) (float64, error) {
	idx := findColumn(headers, name)
	if idx < 0 {
		return 0, nil
	}

	var sum float64
	var count int
	for _, row := range rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q in column %s", cell, name)
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return round2(sum / float64(count)), nil
}

func categoryDistribution(headers []string, rows [][]string) (Distribution, error) {
	idx := findColumn(headers, colCategory)
	if idx < 0 {
		if len(headers) < 2 {
			return nil, errors.New("no Type column and fewer than two columns")
		}
		idx = 1
	}

	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		value := row[idx]
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	dist := make(Distribution, 0, len(order))
	for _, value := range order {
		dist = append(dist, ValueCount{Value: value, Count: counts[value]})
	}
	// Descending frequency, first-seen order between ties.
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist, nil
}

func rawSample(headers []string, rows [][]string) []map[string]string {
	n := len(rows)
	if n > rawSampleSize {
		n = rawSampleSize
	}
	sample := make([]map[string]string, 0, n)
	for _, row := range rows[:n] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			m[h] = row[i]
		}
		sample = append(sample, m)
	}
	return sample
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
