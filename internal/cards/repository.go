package cards

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned for lookups of template IDs the repository does not
// know. Callers that want miss-tolerant behaviour check for it explicitly.
var ErrNotFound = errors.New("card template not found")

// Repository is the read-only card template lookup the rules engine consumes.
// All lookups are synchronous and side-effect-free.
type Repository interface {
	Creature(id string) (*Creature, error)
	Supporter(id string) (*Supporter, error)
	Item(id string) (*Item, error)
	Tool(id string) (*Tool, error)
	AllCreatureIDs() []string
	CreatureByName(name string) (*Creature, error)
}

// Set is one card-set data file.
type Set struct {
	Name       string       `yaml:"name" json:"name"`
	Creatures  []*Creature  `yaml:"creatures,omitempty" json:"creatures,omitempty"`
	Supporters []*Supporter `yaml:"supporters,omitempty" json:"supporters,omitempty"`
	Items      []*Item      `yaml:"items,omitempty" json:"items,omitempty"`
	Tools      []*Tool      `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// MemoryRepository serves templates from in-memory maps. It is the default
// repository (YAML-loaded card sets) and the one tests build fixtures on.
type MemoryRepository struct {
	creatures  map[string]*Creature
	byName     map[string]*Creature
	supporters map[string]*Supporter
	items      map[string]*Item
	tools      map[string]*Tool
}

// NewMemoryRepository builds a repository from the given sets.
func NewMemoryRepository(sets ...*Set) *MemoryRepository {
	r := &MemoryRepository{
		creatures:  make(map[string]*Creature),
		byName:     make(map[string]*Creature),
		supporters: make(map[string]*Supporter),
		items:      make(map[string]*Item),
		tools:      make(map[string]*Tool),
	}
	for _, set := range sets {
		r.AddSet(set)
	}
	return r
}

// AddSet merges one set's templates into the repository. Later sets win on ID
// collisions.
func (r *MemoryRepository) AddSet(set *Set) {
	if set == nil {
		return
	}
	for _, c := range set.Creatures {
		r.creatures[c.ID] = c
		r.byName[c.Name] = c
	}
	for _, s := range set.Supporters {
		r.supporters[s.ID] = s
	}
	for _, i := range set.Items {
		r.items[i.ID] = i
	}
	for _, t := range set.Tools {
		r.tools[t.ID] = t
	}
}

func (r *MemoryRepository) Creature(id string) (*Creature, error) {
	c, ok := r.creatures[id]
	if !ok {
		return nil, fmt.Errorf("creature %q: %w", id, ErrNotFound)
	}
	return c, nil
}

func (r *MemoryRepository) Supporter(id string) (*Supporter, error) {
	s, ok := r.supporters[id]
	if !ok {
		return nil, fmt.Errorf("supporter %q: %w", id, ErrNotFound)
	}
	return s, nil
}

func (r *MemoryRepository) Item(id string) (*Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	return i, nil
}

func (r *MemoryRepository) Tool(id string) (*Tool, error) {
	t, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", id, ErrNotFound)
	}
	return t, nil
}

func (r *MemoryRepository) AllCreatureIDs() []string {
	ids := make([]string, 0, len(r.creatures))
	for id := range r.creatures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *MemoryRepository) CreatureByName(name string) (*Creature, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("creature named %q: %w", name, ErrNotFound)
	}
	return c, nil
}
