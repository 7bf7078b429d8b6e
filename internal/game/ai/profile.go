// Package ai plays turns for computer-controlled players. Every reachable
// cell is scored by the damage the unit could deal from it, a unit moves to
// its best cell and strikes the best target in reach. Tuning comes from YAML
// profiles; an optional Lua hook can keep a unit from advancing.
package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultProfileID names the profile used for templates without their own.
const DefaultProfileID = "default"

// Profile tunes cell scoring for a unit template.
//
// Precondition: ID must be non-empty.
type Profile struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	// Templates lists the unit templates this profile drives.
	Templates []string `yaml:"templates"`
	// MobilityWeight is subtracted from a cell's score per move point spent.
	MobilityWeight float64 `yaml:"mobility_weight"`
	// LethalMultiplier scales the weight of a hit that would kill.
	LethalMultiplier float64 `yaml:"lethal_multiplier"`
	// ApproachWeight rewards cells closer to the nearest enemy when nothing
	// is in reach.
	ApproachWeight float64 `yaml:"approach_weight"`
	// EngageHook is the Lua function consulted before advancing; empty
	// means always advance.
	EngageHook string `yaml:"engage_hook"`
}

// DefaultProfile is used when no profile matches a unit's template.
var DefaultProfile = Profile{
	ID:               DefaultProfileID,
	MobilityWeight:   0.05,
	LethalMultiplier: 2,
	ApproachWeight:   0.1,
	EngageHook:       "should_engage",
}

// Validate checks the profile's fields.
//
// Postcondition: nil return guarantees a non-empty ID, non-negative weights
// and LethalMultiplier >= 1.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("ai.Profile: ID must not be empty")
	}
	if p.MobilityWeight < 0 || p.ApproachWeight < 0 {
		return fmt.Errorf("ai.Profile %q: weights must not be negative", p.ID)
	}
	if p.LethalMultiplier < 1 {
		return fmt.Errorf("ai.Profile %q: lethal_multiplier must be >= 1, got %v", p.ID, p.LethalMultiplier)
	}
	return nil
}

// yamlProfileFile wraps the YAML top-level key.
type yamlProfileFile struct {
	Profile *Profile `yaml:"profile"`
}

// LoadProfiles reads all *.yaml files from dir and returns parsed Profiles.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns error if any YAML file fails to parse or validate.
func LoadProfiles(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadProfiles: reading %q: %w", dir, err)
	}
	var profiles []*Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadProfiles: reading %s: %w", e.Name(), err)
		}
		var f yamlProfileFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("ai.LoadProfiles: parsing %s: %w", e.Name(), err)
		}
		if f.Profile == nil {
			return nil, fmt.Errorf("ai.LoadProfiles: %s missing top-level 'profile' key", e.Name())
		}
		if err := f.Profile.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, f.Profile)
	}
	return profiles, nil
}
