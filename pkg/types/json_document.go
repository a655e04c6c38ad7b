package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument is a free-form JSON object persisted as JSONB.
type JSONDocument map[string]any

// Value marshals the document into JSON for Postgres.
func (d JSONDocument) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes JSONB into the document.
func (d *JSONDocument) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("json document: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}

	result := make(JSONDocument)
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("json document: %w", err)
	}
	*d = result
	return nil
}

// Decode re-marshals the document into the supplied target struct.
func (d JSONDocument) Decode(target any) error {
	if len(d) == 0 {
		return nil
	}
	buf, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, target)
}
