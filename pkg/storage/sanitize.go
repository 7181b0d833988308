package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Sanitize meng-encode data menjadi JSON lalu membuang nilai null secara
// rekursif: field objek bernilai null dihilangkan dan elemen array null
// disaring. Nilai null di puncak menjadi "null".
func Sanitize(data any) (json.RawMessage, error) {
	var raw []byte
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("gagal meng-encode dokumen: %w", err)
		}
		raw = encoded
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("dokumen bukan JSON valid: %w", err)
	}
	cleaned, err := json.Marshal(stripNil(generic))
	if err != nil {
		return nil, fmt.Errorf("gagal meng-encode dokumen: %w", err)
	}
	return cleaned, nil
}

func stripNil(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if item == nil {
				continue
			}
			out[k] = stripNil(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, stripNil(item))
		}
		return out
	default:
		return val
	}
}
