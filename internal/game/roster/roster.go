package roster

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/tactics/internal/game/battle"
)

// Roster indexes templates by id.
type Roster struct {
	templates map[string]*Template
}

// New builds a Roster.
//
// Postcondition: returns an error if two templates share an id.
func New(templates ...*Template) (*Roster, error) {
	r := &Roster{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.templates[t.ID]; dup {
			return nil, fmt.Errorf("roster: duplicate template %q", t.ID)
		}
		r.templates[t.ID] = t
	}
	return r, nil
}

// Load reads every template in dir into a Roster.
func Load(dir string) (*Roster, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return New(templates...)
}

// Template returns the template with id.
func (r *Roster) Template(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns every template id in lexical order.
func (r *Roster) IDs() []string {
	out := make([]string, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Card builds a hand card that deploys template id.
//
// Postcondition: returns an error unless id names a hero or creep template.
func (r *Roster) Card(card battle.CardID, id string) (battle.Card, error) {
	t, ok := r.templates[id]
	if !ok {
		return battle.Card{}, fmt.Errorf("roster: unknown template %q", id)
	}
	var kind battle.CardKind
	switch t.Kind {
	case Hero:
		kind = battle.CardHero
	case Creep:
		kind = battle.CardCreep
	default:
		return battle.Card{}, fmt.Errorf("roster: template %q is a %s and cannot be dealt", id, t.Kind)
	}
	stats := t.Stats()
	return battle.Card{ID: card, Kind: kind, Unit: &stats}, nil
}
