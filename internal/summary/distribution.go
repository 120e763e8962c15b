package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueCount is one distinct category value and its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// Distribution is the category breakdown ordered by descending frequency.
// It marshals to a JSON object whose keys keep that order, and unmarshals
// back preserving the key order of the document, so ordering survives both
// the HTTP response and the stored blob.
type Distribution []ValueCount

func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, vc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(vc.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", vc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("distribution: expected JSON object, got %v", tok)
	}

	out := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("distribution: non-string key %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("distribution: count for %q: %w", key, err)
		}
		out = append(out, ValueCount{Value: key, Count: count})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// Total is the sum of all counts.
func (d Distribution) Total() int {
	var total int
	for _, vc := range d {
		total += vc.Count
	}
	return total
}
