package lockpin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// pinFieldPriority is the ordered list of field names under which different
// provider endpoint versions have been observed to return the PIN.  The
// ambiguity is inherited from the upstream API; the first present field
// wins.  Keep this list explicit and tested.
var pinFieldPriority = []string{"pin", "pinCode", "code", "unlockCode"}

// ExtractPin pulls the numeric PIN out of a loosely-typed provider response.
// It checks pinFieldPriority in order, takes the first field that is
// present, and coerces it to an integer.  Numbers arriving as JSON strings
// are accepted; anything non-numeric, or a response with none of the known
// fields, yields ErrPinFormat.
func ExtractPin(raw map[string]json.RawMessage) (int64, error) {
	for _, field := range pinFieldPriority {
		val, ok := raw[field]
		if !ok {
			continue
		}
		pin, err := coerceInt(val)
		if err != nil {
			return 0, fmt.Errorf("%w: field %q: %v", ErrPinFormat, field, err)
		}
		return pin, nil
	}
	return 0, ErrPinFormat
}

// coerceInt converts a raw JSON value to int64.  Accepts integral JSON
// numbers and numeric strings; rejects everything else.
func coerceInt(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("unparseable value %s", string(raw))
	}
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", t.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("string value %q is not numeric", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("value %s is neither number nor string", string(raw))
	}
}
