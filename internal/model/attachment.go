package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attachment is an opaque reference to a file kept alongside a record.
// The mobile app sometimes persisted a browser File object, which
// serializes as an object; those decode to the object's name, or to an
// empty reference when it has none.
type Attachment string

// MarshalJSON always writes a plain string.
func (a Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// UnmarshalJSON accepts a string, null, or an object with an optional name.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decoding attachment: %w", err)
		}
		*a = Attachment(obj.Name)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding attachment: %w", err)
	}
	*a = Attachment(s)
	return nil
}
