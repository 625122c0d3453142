package model

import (
	"encoding/json"
	"fmt"
)

// Item is a reference to a platform object (to-do, resource, badge, ...).
// Fields other than id and name are kept verbatim so an item survives a
// decode/encode round trip unchanged.
type Item struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	fields map[string]json.RawMessage
}

// Field returns the raw JSON of an extra field.
func (i Item) Field(key string) (json.RawMessage, bool) {
	v, ok := i.fields[key]
	return v, ok
}

// UnmarshalJSON keeps unknown fields alongside id and name.
func (i *Item) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	*i = Item{}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &i.ID); err != nil {
			return fmt.Errorf("decode item id: %w", err)
		}
		delete(fields, "id")
	}
	if raw, ok := fields["name"]; ok {
		// name may be null on some objects
		var name *string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("decode item name: %w", err)
		}
		if name != nil {
			i.Name = *name
			delete(fields, "name")
		}
	}
	if len(fields) > 0 {
		i.fields = fields
	}
	return nil
}

// MarshalJSON writes id, name and every kept field.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.fields)+2)
	for k, v := range i.fields {
		out[k] = v
	}
	out["id"] = i.ID
	if i.Name != "" {
		out["name"] = i.Name
	}
	return json.Marshal(out)
}
