package dto

import "encoding/json"

// EntrantDescriptor is a raw entrant as supplied by bulk data loads. Exported
// field names follow the current schema; UnmarshalJSON also accepts the legacy
// field spellings still present in older data files.
type EntrantDescriptor struct {
	Name     string
	Category string
	Photo    string
}

const DefaultPhoto = "default.png"

func (d *EntrantDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Name = firstString(raw, "name", "nombre")
	d.Category = firstString(raw, "category", "categoria")
	d.Photo = firstString(raw, "photo", "photo_url", "foto")
	return nil
}

// Valid reports whether the descriptor carries the mandatory fields. Invalid
// descriptors are skipped during bulk loads, not rejected.
func (d EntrantDescriptor) Valid() bool {
	return d.Name != "" && d.Category != ""
}

// PhotoOrDefault returns the photo reference, falling back to the placeholder.
func (d EntrantDescriptor) PhotoOrDefault() string {
	if d.Photo == "" {
		return DefaultPhoto
	}
	return d.Photo
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
