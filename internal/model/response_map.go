package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ResponseMap is the raw spreadsheet row kept verbatim: an ordered mapping of
// column header to cell value. Plain Go maps drop insertion order, so this is
// a slice of fields with order-preserving JSON and SQL round-trips.
type ResponseMap []Field

type Field struct {
	Key   string
	Value string
}

func (m ResponseMap) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (m *ResponseMap) Set(key, value string) {
	for i, f := range *m {
		if f.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

func (m ResponseMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ResponseMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("response map: expected JSON object, got %v", tok)
	}

	out := ResponseMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("response map: non-string key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var val string
		if err := json.Unmarshal(raw, &val); err != nil {
			// Non-string cell values (numbers, booleans) from foreign
			// producers are kept as their literal JSON text.
			val = string(raw)
		}
		out = append(out, Field{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}

func (m ResponseMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *ResponseMap) Scan(value interface{}) error {
	if value == nil {
		*m = ResponseMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("response map: unsupported scan type %T", value)
	}
}
