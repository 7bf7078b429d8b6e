// Package battleground loads battleground definitions and turns a
// definition plus its participants into the setup of a battle.
package battleground

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tactics/internal/game/ability"
	"github.com/cory-johannsen/tactics/internal/game/grid"
)

// RuneSite places a rune at the start of the battle.
type RuneSite struct {
	Kind ability.RuneKind `yaml:"kind"`
	At   grid.Position    `yaml:"at"`
}

// ShopSite places a shop selling Items.
type ShopSite struct {
	At    grid.Position    `yaml:"at"`
	Items []ability.ItemID `yaml:"items"`
}

// MonsterSite places a neutral monster spawned from a roster template.
type MonsterSite struct {
	Template string        `yaml:"template"`
	At       grid.Position `yaml:"at"`
}

// Definition is a battleground loaded from YAML. Zones are assigned to
// participants in order.
type Definition struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Width        int             `yaml:"width"`
	Height       int             `yaml:"height"`
	StartingGold int             `yaml:"starting_gold"`
	Disabled     []grid.Position `yaml:"disabled"`
	Zones        []grid.Rect     `yaml:"zones"`
	Trees        []grid.Position `yaml:"trees"`
	Runes        []RuneSite      `yaml:"runes"`
	Shops        []ShopSite      `yaml:"shops"`
	Monsters     []MonsterSite   `yaml:"monsters"`
}

// Validate checks geometry and catalogue references. Monster templates are
// checked against the roster by Build.
//
// Postcondition: nil return guarantees a positive size, at least two zones
// inside the board, and static occupants on distinct enabled cells.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("battleground: id must not be empty")
	}
	if d.Width < 1 || d.Height < 1 {
		return fmt.Errorf("battleground %q: size must be positive, got %dx%d", d.ID, d.Width, d.Height)
	}
	if d.StartingGold < 0 {
		return fmt.Errorf("battleground %q: starting_gold must not be negative", d.ID)
	}
	g := grid.New(d.Width, d.Height, d.Disabled...)
	if len(d.Zones) < 2 {
		return fmt.Errorf("battleground %q: need at least two zones, got %d", d.ID, len(d.Zones))
	}
	for i, z := range d.Zones {
		if !g.InBounds(z.Min) || !g.InBounds(z.Max) || z.Min.X > z.Max.X || z.Min.Y > z.Max.Y {
			return fmt.Errorf("battleground %q: zone %d is not a rectangle inside the board", d.ID, i)
		}
	}

	taken := make(map[grid.Position]string)
	place := func(what string, p grid.Position) error {
		if !g.InBounds(p) || g.Disabled(p) {
			return fmt.Errorf("battleground %q: %s at %v is off the board or disabled", d.ID, what, p)
		}
		if other, ok := taken[p]; ok {
			return fmt.Errorf("battleground %q: %s at %v overlaps %s", d.ID, what, p, other)
		}
		taken[p] = what
		return nil
	}
	for _, p := range d.Trees {
		if err := place("tree", p); err != nil {
			return err
		}
	}
	for _, r := range d.Runes {
		if !slices.Contains(ability.RuneKinds, r.Kind) {
			return fmt.Errorf("battleground %q: unknown rune %q", d.ID, r.Kind)
		}
		if err := place("rune", r.At); err != nil {
			return err
		}
	}
	for _, s := range d.Shops {
		for _, it := range s.Items {
			if _, ok := ability.LookupItem(it); !ok {
				return fmt.Errorf("battleground %q: unknown item %q", d.ID, it)
			}
		}
		if err := place("shop", s.At); err != nil {
			return err
		}
	}
	for _, m := range d.Monsters {
		if err := place("monster "+m.Template, m.At); err != nil {
			return err
		}
	}
	return nil
}

// LoadDefinitionFromBytes parses one definition. Unknown keys are errors.
func LoadDefinitionFromBytes(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing battleground YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDefinitions reads all *.yaml files in dir, keyed by id.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error on the first parse, validate or duplicate-id failure.
func LoadDefinitions(dir string) (map[string]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading battleground dir %q: %w", dir, err)
	}
	out := make(map[string]*Definition)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		d, err := LoadDefinitionFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := out[d.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate battleground %q", path, d.ID)
		}
		out[d.ID] = d
	}
	return out, nil
}
