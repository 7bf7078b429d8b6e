package ai

import "fmt"

// Registry indexes Profiles by ID and by the templates they drive.
//
// Invariant: each profile ID and each template is registered at most once.
type Registry struct {
	profiles    map[string]*Profile
	byTemplate  map[string]*Profile
	defaultProf *Profile
}

// NewRegistry returns a Registry holding only DefaultProfile.
func NewRegistry() *Registry {
	def := DefaultProfile
	return &Registry{
		profiles:    map[string]*Profile{def.ID: &def},
		byTemplate:  make(map[string]*Profile),
		defaultProf: &def,
	}
}

// Register stores p. A profile with ID "default" replaces DefaultProfile.
//
// Precondition: p must not be nil and must be valid.
// Postcondition: returns error on profile ID or template collision.
func (r *Registry) Register(p *Profile) error {
	if p.ID == DefaultProfileID {
		r.profiles[p.ID] = p
		r.defaultProf = p
		return nil
	}
	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("ai.Registry: profile %q already registered", p.ID)
	}
	for _, tmpl := range p.Templates {
		if other, exists := r.byTemplate[tmpl]; exists {
			return fmt.Errorf("ai.Registry: template %q already driven by profile %q", tmpl, other.ID)
		}
	}
	r.profiles[p.ID] = p
	for _, tmpl := range p.Templates {
		r.byTemplate[tmpl] = p
	}
	return nil
}

// Profile returns the profile with the given ID, or false if not registered.
func (r *Registry) Profile(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// ProfileFor returns the profile driving template, falling back to the
// default profile.
//
// Postcondition: never returns nil.
func (r *Registry) ProfileFor(template string) *Profile {
	if p, ok := r.byTemplate[template]; ok {
		return p
	}
	return r.defaultProf
}
