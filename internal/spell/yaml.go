package spell

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a spell inside a roster file.
type Definition struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Actions       []string `yaml:"actions,omitempty"`
	Pronunciation string   `yaml:"pronunciation,omitempty"`
}

// Roster models a roster file:
//
//	spells:
//	  - name: Lumos
//	    description: A spell that lights up dark places at the flick of a wand
//	    actions: [brighten, light up]
//	    pronunciation: ˈljuːmɒs
type Roster struct {
	Spells []Definition `yaml:"spells"`
}

// Validate checks the fields every spell needs to be taught.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("description is required for %s", d.Name)
	}
	for i, action := range d.Actions {
		if strings.TrimSpace(action) == "" {
			return fmt.Errorf("actions[%d] is empty for %s", i, d.Name)
		}
	}
	return nil
}

// ParseRosterYAML decodes and validates a roster payload.
func ParseRosterYAML(data []byte) ([]Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("spell: roster payload is empty")
	}
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("spell: decode roster: %w", err)
	}
	if len(roster.Spells) == 0 {
		return nil, fmt.Errorf("spell: roster has no spells")
	}
	for i, def := range roster.Spells {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("spell: spells[%d]: %w", i, err)
		}
	}
	return roster.Spells, nil
}

// MarshalRosterYAML encodes definitions in the roster file layout.
func MarshalRosterYAML(defs []Definition) ([]byte, error) {
	data, err := yaml.Marshal(Roster{Spells: defs})
	if err != nil {
		return nil, fmt.Errorf("spell: encode roster: %w", err)
	}
	return data, nil
}

// LoadRosterFile reads a roster file from disk.
func LoadRosterFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spell: read %s: %w", path, err)
	}
	defs, err := ParseRosterYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// FromDefinitions builds a catalog registering defs in order.
func FromDefinitions(defs []Definition, opts ...Option) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := NewCatalog(opts...)
	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("spell: definition %d: %w", i, err)
		}
		c.Register(def.Name, def.Description, def.Actions, def.Pronunciation)
	}
	return c, nil
}

// LoadCatalogFile reads a roster file and builds a catalog from it.
func LoadCatalogFile(path string, opts ...Option) (*Catalog, error) {
	defs, err := LoadRosterFile(path)
	if err != nil {
		return nil, err
	}
	return FromDefinitions(defs, opts...)
}
