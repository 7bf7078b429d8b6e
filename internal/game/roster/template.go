// Package roster provides the unit templates from which heroes, creeps,
// monsters and wards are spawned.
package roster

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/battle"
)

// Kind says which card or spawn a template feeds.
type Kind string

const (
	Hero    Kind = "hero"
	Creep   Kind = "creep"
	Monster Kind = "monster"
	Ward    Kind = "ward"
)

// Template defines a reusable unit archetype loaded from YAML.
type Template struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Kind        Kind               `yaml:"kind"`
	MaxHealth   int                `yaml:"max_health"`
	MaxMana     int                `yaml:"max_mana"`
	MovePoints  int                `yaml:"move_points"`
	Attack      int                `yaml:"attack"`
	AttackRange int                `yaml:"attack_range"`
	Armor       int                `yaml:"armor"`
	Bounty      int                `yaml:"bounty"`
	Level       int                `yaml:"level"`
	Abilities   []ability.ID       `yaml:"abilities"`
	Modifiers   []ability.Modifier `yaml:"modifiers"`
	Stationary  bool               `yaml:"stationary"`
	AutoAttack  bool               `yaml:"auto_attack"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: nil return guarantees a known kind, MaxHealth >= 1,
// non-negative stats, AttackRange >= 1 and only catalogued non-spell
// abilities and known modifier kinds.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("unit template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("unit template %q: name must not be empty", t.ID)
	}
	switch t.Kind {
	case Hero, Creep, Monster, Ward:
	default:
		return fmt.Errorf("unit template %q: unknown kind %q", t.ID, t.Kind)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("unit template %q: max_health must be >= 1", t.ID)
	}
	if t.MaxMana < 0 || t.MovePoints < 0 || t.Attack < 0 || t.Armor < 0 || t.Bounty < 0 || t.Level < 0 {
		return fmt.Errorf("unit template %q: stats must not be negative", t.ID)
	}
	if t.AttackRange < 1 {
		return fmt.Errorf("unit template %q: attack_range must be >= 1", t.ID)
	}
	for _, id := range t.Abilities {
		def, ok := ability.Lookup(id)
		if !ok {
			return fmt.Errorf("unit template %q: unknown ability %q", t.ID, id)
		}
		if def.Spell {
			return fmt.Errorf("unit template %q: %q is a spell card, not a unit ability", t.ID, id)
		}
	}
	for _, m := range t.Modifiers {
		if !slices.Contains(ability.ModifierKinds, m.Kind) {
			return fmt.Errorf("unit template %q: unknown modifier %q", t.ID, m.Kind)
		}
	}
	return nil
}

// Stats converts the template into the spawn stats the battle consumes.
func (t *Template) Stats() battle.UnitStats {
	return battle.UnitStats{
		Template:    t.ID,
		Name:        t.Name,
		MaxHealth:   t.MaxHealth,
		MaxMana:     t.MaxMana,
		MovePoints:  t.MovePoints,
		Attack:      t.Attack,
		AttackRange: t.AttackRange,
		Armor:       t.Armor,
		Bounty:      t.Bounty,
		Level:       t.Level,
		Abilities:   slices.Clone(t.Abilities),
		Modifiers:   slices.Clone(t.Modifiers),
		Stationary:  t.Stationary,
		AutoAttack:  t.AutoAttack,
	}
}

// LoadTemplateFromBytes parses a single template. Unknown keys are errors.
//
// Postcondition: returns a validated *Template or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var tmpl Template
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns all templates or the first parse or validate error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
