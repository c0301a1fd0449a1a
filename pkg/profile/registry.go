package profile

import (
	"sort"
	"sync"
)

// Registry holds registered tube profiles by name. Profiles are stored
// by value and returned as pointers to private copies, so a caller can
// never mutate a registered profile in place. The registry has no
// update or delete operations; a tolerance change is a new profile.
//
// A Registry is safe to share read-only between concurrent planning
// runs once all registrations are done. The referenced bookkeeping is
// the one piece of state Get touches, so it sits behind its own mutex.
type Registry struct {
	profiles map[string]TubeProfile

	mu         sync.Mutex
	referenced map[string]bool
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles:   make(map[string]TubeProfile),
		referenced: make(map[string]bool),
	}
}

// Register validates and adds a profile. It fails with
// DuplicateProfileError if the name is taken and InvalidToleranceError
// if the geometry or tolerances are unusable.
func (r *Registry) Register(p TubeProfile) error {
	if err := p.validate(); err != nil {
		return err
	}
	if _, exists := r.profiles[p.Name]; exists {
		return &DuplicateProfileError{Name: p.Name}
	}
	r.profiles[p.Name] = p
	return nil
}

// Get returns the named profile or ProfileNotFoundError. The profile is
// marked referenced: from this point its values are frozen for the
// lifetime of the registry.
func (r *Registry) Get(name string) (*TubeProfile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, &ProfileNotFoundError{Name: name}
	}
	r.mu.Lock()
	r.referenced[name] = true
	r.mu.Unlock()
	return &p, nil
}

// Referenced reports whether a profile has been handed out to a
// generation run.
func (r *Registry) Referenced(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.referenced[name]
}

// Names returns all registered profile names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
