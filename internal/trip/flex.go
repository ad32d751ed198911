// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package trip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// FLEXIBLE SCALARS
// =============================================================================

// Degrees is a coordinate component. The itinerary generator sometimes emits
// coordinates as strings, so both "35.01" and 35.01 decode.
type Degrees float64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (d *Degrees) UnmarshalJSON(data []byte) error {
	f, err := decodeNumber(data)
	if err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	*d = Degrees(f)
	return nil
}

// Amount is a monetary value that may arrive as a number or a string.
type Amount float64

// UnmarshalJSON accepts a JSON number, a numeric string, or null (zero).
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = 0
		return nil
	}
	f, err := decodeNumber(data)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(f)
	return nil
}

// Text is a label that may arrive as a string or a number (ratings, ids).
type Text string

// UnmarshalJSON accepts a JSON string, number, bool or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("text: unexpected %s", string(data[:1]))
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

func decodeNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, err
	}
	return f, nil
}
