package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag decodes the 0/1, true/false and "1"/"0" spellings the upstream systems use interchangeably.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "", "null", "0", "false", "no":
		*f = false
	case "1", "true", "si", "sí", "yes":
		*f = true
	default:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("flag: unsupported value %s", data)
		}
		*f = n != 0
	}
	return nil
}

// Int renders the flag the way the booking API expects it.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}

// Amount is a number that may arrive quoted. Nil when absent or empty.
type Amount struct {
	Value *float64
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	if raw == "" || raw == "null" {
		a.Value = nil
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Unparseable amounts render as "-" rather than failing the whole payload.
		a.Value = nil
		return nil
	}
	a.Value = &n
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*a.Value)
}
