package meals

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/caloq-app/caloq/internal/nutrition"
)

// ProfileMap is an ordered name -> per-100g profile mapping. The order is
// user-curated display order, independent of insertion order once entries
// have been moved, so the JSON codec has to preserve document order on both
// ends; encoding/json map handling would alphabetize it.
type ProfileMap struct {
	names    []string
	profiles map[string]nutrition.Vector
}

// NewProfileMap returns an empty ordered mapping.
func NewProfileMap() *ProfileMap {
	return &ProfileMap{profiles: make(map[string]nutrition.Vector)}
}

// Len returns the number of entries.
func (p *ProfileMap) Len() int {
	return len(p.names)
}

// Names returns the meal names in display order.
func (p *ProfileMap) Names() []string {
	return append([]string(nil), p.names...)
}

// Get returns the profile stored under name.
func (p *ProfileMap) Get(name string) (nutrition.Vector, bool) {
	v, ok := p.profiles[name]
	return v, ok
}

// Set upserts a profile. An existing name keeps its position, a new name is
// appended at the end.
func (p *ProfileMap) Set(name string, profile nutrition.Vector) {
	if _, ok := p.profiles[name]; !ok {
		p.names = append(p.names, name)
	}
	p.profiles[name] = profile
}

// Delete removes name, preserving the order of the remaining entries.
func (p *ProfileMap) Delete(name string) {
	if _, ok := p.profiles[name]; !ok {
		return
	}
	delete(p.profiles, name)
	for i, n := range p.names {
		if n == name {
			p.names = append(p.names[:i], p.names[i+1:]...)
			break
		}
	}
}

// MoveUp swaps name with its immediate predecessor. The first entry and
// unknown names stay put.
func (p *ProfileMap) MoveUp(name string) {
	for i, n := range p.names {
		if n != name {
			continue
		}
		if i == 0 {
			return
		}
		p.names[i-1], p.names[i] = p.names[i], p.names[i-1]
		return
	}
}

// MarshalJSON encodes the mapping as a JSON object with keys in display
// order.
func (p *ProfileMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.profiles[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its document key order.
func (p *ProfileMap) UnmarshalJSON(data []byte) error {
	p.names = nil
	p.profiles = make(map[string]nutrition.Vector)

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}

		var profile nutrition.Vector
		if err := dec.Decode(&profile); err != nil {
			return err
		}
		p.Set(name, profile)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
