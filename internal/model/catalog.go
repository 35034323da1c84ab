package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog maps activity names to activities, keeping the order in which the
// server sent them. Go maps are unordered, so the catalog keeps a slice.
type Catalog struct {
	items []Activity
	index map[string]int
}

// NewCatalog builds a catalog from activities in the given order.
func NewCatalog(activities ...Activity) Catalog {
	var c Catalog
	for _, a := range activities {
		c.Add(a)
	}
	return c
}

// Add appends a, or replaces the entry of the same name in place.
func (c *Catalog) Add(a Activity) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[a.Name]; ok {
		c.items[i] = a
		return
	}
	c.index[a.Name] = len(c.items)
	c.items = append(c.items, a)
}

// Len returns the number of activities.
func (c Catalog) Len() int {
	return len(c.items)
}

// Get returns the activity with the given name.
func (c Catalog) Get(name string) (Activity, bool) {
	i, ok := c.index[name]
	if !ok {
		return Activity{}, false
	}
	return c.items[i], true
}

// Names returns activity names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, a := range c.items {
		names[i] = a.Name
	}
	return names
}

// Activities returns the activities in catalog order.
func (c Catalog) Activities() []Activity {
	return append([]Activity(nil), c.items...)
}

// MarshalJSON writes the catalog as a JSON object keyed by name.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", a.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keyed by name, preserving key order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	*c = Catalog{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected key, got %v", tok)
		}
		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("catalog: decode %q: %w", name, err)
		}
		a.Name = name
		c.Add(a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
