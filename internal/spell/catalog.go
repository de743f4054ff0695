// Package spell holds the spell roster and the catalog used to look spells up
// by name, by trigger action or at random.
package spell

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyCatalog is returned when a random pick is requested from a catalog
// with no registered spells.
var ErrEmptyCatalog = errors.New("spell: catalog is empty")

// ErrPickOutOfRange is returned when a Picker answers with an index outside
// the catalog.
var ErrPickOutOfRange = errors.New("spell: picker index out of range")

// Spell is a single roster entry. Names and actions are stored lowercase.
type Spell struct {
	Name          string
	Description   string
	Actions       []string
	Pronunciation string
}

// DisplayName returns the title-cased form used in speech and cards.
func (s Spell) DisplayName() string {
	return cases.Title(language.English).String(s.Name)
}

// HasAction reports whether action is one of the spell's trigger phrases.
func (s Spell) HasAction(action string) bool {
	return slices.Contains(s.Actions, normalize(action))
}

// Picker returns an index in [0, n). It must be safe for concurrent use.
type Picker func(n int) int

// Option customizes Catalog construction.
type Option func(*Catalog)

// WithPicker overrides the uniform random picker, mainly for tests.
func WithPicker(p Picker) Option {
	return func(c *Catalog) {
		if p != nil {
			c.pick = p
		}
	}
}

// Catalog maps normalized spell names to spells and remembers registration
// order, which decides action lookups. It is meant to be populated once and
// then only read.
type Catalog struct {
	spells map[string]Spell
	order  []string
	pick   Picker
}

// NewCatalog returns an empty catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		spells: map[string]Spell{},
		pick:   rand.Intn,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register inserts a spell keyed by its lowercased name. Registering an
// existing name replaces the entry in place, so it keeps its original
// position for action lookups.
func (c *Catalog) Register(name, description string, actions []string, pronunciation string) {
	key := normalize(name)
	normalized := make([]string, 0, len(actions))
	for _, action := range actions {
		normalized = append(normalized, normalize(action))
	}
	if _, exists := c.spells[key]; !exists {
		c.order = append(c.order, key)
	}
	c.spells[key] = Spell{
		Name:          key,
		Description:   description,
		Actions:       normalized,
		Pronunciation: pronunciation,
	}
}

// LookupByName finds a spell by case-insensitive exact name.
func (c *Catalog) LookupByName(name string) (Spell, bool) {
	s, ok := c.spells[normalize(name)]
	if !ok {
		return Spell{}, false
	}
	return s.clone(), true
}

// LookupByAction returns the first registered spell whose action set contains
// action. When several spells share a trigger phrase only the earliest one is
// reachable this way.
func (c *Catalog) LookupByAction(action string) (Spell, bool) {
	target := normalize(action)
	if target == "" {
		return Spell{}, false
	}
	for _, name := range c.order {
		s := c.spells[name]
		if slices.Contains(s.Actions, target) {
			return s.clone(), true
		}
	}
	return Spell{}, false
}

// PickRandom selects a spell uniformly at random.
func (c *Catalog) PickRandom() (Spell, error) {
	if len(c.order) == 0 {
		return Spell{}, ErrEmptyCatalog
	}
	idx := c.pick(len(c.order))
	if idx < 0 || idx >= len(c.order) {
		return Spell{}, fmt.Errorf("%w: %d of %d", ErrPickOutOfRange, idx, len(c.order))
	}
	return c.spells[c.order[idx]].clone(), nil
}

// Len reports the number of registered spells.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Names lists spell names in registration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// All returns every spell in registration order.
func (c *Catalog) All() []Spell {
	out := make([]Spell, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.spells[name].clone())
	}
	return out
}

func (s Spell) clone() Spell {
	s.Actions = slices.Clone(s.Actions)
	return s
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
