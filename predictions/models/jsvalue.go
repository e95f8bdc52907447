package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotObject is returned when a record is not a JSON object.
var ErrNotObject = errors.New("expected a JSON object")

// Field is one key of a JSON object, kept in the order it was received.
type Field struct {
	Key   string
	Value json.RawMessage
}

// decodeOrderedObject reads a JSON object and returns its members in document order.
func decodeOrderedObject(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		replaced := false
		for i := range fields {
			if fields[i].Key == key {
				fields[i].Value = raw
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, Field{Key: key, Value: raw})
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// Truthy reports whether a JSON value counts as true in a boolean context:
// false, null, 0, "" and absent values are falsy, everything else is truthy.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// Text renders a JSON value the way it reads when joined into plain text:
// strings verbatim, numbers in shortest form, null as "", arrays
// comma-joined and objects as "[object Object]".
func Text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case 'n':
		return ""
	case 't':
		return "true"
	case 'f':
		return "false"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{':
		return "[object Object]"
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Text(it)
		}
		return strings.Join(parts, ",")
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return string(raw)
		}
		return FormatNumber(f)
	}
}

// Number converts a JSON value for numeric comparison: absent, objects and
// non-numeric strings give NaN, null and "" give 0, booleans give 1 or 0.
func Number(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return math.NaN()
	}
	switch raw[0] {
	case 'n', 'f':
		return 0
	case 't':
		return 1
	case '{':
		return math.NaN()
	case '"', '[':
		s := strings.TrimSpace(Text(raw))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
}

// FormatNumber prints f in its shortest round-trip form without exponent for
// ordinary magnitudes: 85 -> "85", 85.5 -> "85.5".
func FormatNumber(f float64) string {
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
