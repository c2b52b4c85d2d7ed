package workshop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator joins identifiers inside a batch cache key. Identifiers
// containing it are rejected at ingestion.
const KeySeparator = ","

// Identifier is a content identifier in canonical string form. It accepts
// both JSON strings and JSON integers so comparisons never depend on which
// upstream produced the value.
type Identifier string

// UnmarshalJSON implements json.Unmarshaler.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	canonical, err := canonicalIdentifier(data)
	if err != nil {
		return err
	}
	*id = Identifier(canonical)
	return nil
}

// String returns the canonical form.
func (id Identifier) String() string {
	return string(id)
}

// ParseBatch decodes a batch request body: a non-empty JSON array of string
// or integer identifiers.
func ParseBatch(body []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewClientInputError("payload must be a non-empty array of identifiers")
	}
	if len(raw) == 0 {
		return nil, NewClientInputError("payload must be a non-empty array of identifiers")
	}
	ids := make([]string, 0, len(raw))
	for i, elem := range raw {
		id, err := canonicalIdentifier(elem)
		if err != nil {
			return nil, NewClientInputError(fmt.Sprintf("element %d: %v", i, err))
		}
		if id == "" {
			return nil, NewClientInputError(fmt.Sprintf("element %d: empty identifier", i))
		}
		if strings.Contains(id, KeySeparator) {
			return nil, NewClientInputError(fmt.Sprintf("element %d: identifier contains %q", i, KeySeparator))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func canonicalIdentifier(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", fmt.Errorf("decode identifier: %w", err)
		}
		return strings.TrimSpace(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return "", fmt.Errorf("identifier %s is not a non-negative integer", data)
		}
		return strconv.FormatUint(n, 10), nil
	default:
		return "", fmt.Errorf("identifier must be a string or integer, got %s", data)
	}
}
