package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSet parses one YAML card-set file.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card set: %w", err)
	}
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse card set %s: %w", filepath.Base(path), err)
	}
	if err := validateSet(&set); err != nil {
		return nil, fmt.Errorf("card set %s: %w", filepath.Base(path), err)
	}
	return &set, nil
}

// LoadDir loads every .yaml/.yml file in dir into one repository.
func LoadDir(dir string) (*MemoryRepository, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read card directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	repo := NewMemoryRepository()
	for _, path := range paths {
		set, err := LoadSet(path)
		if err != nil {
			return nil, err
		}
		repo.AddSet(set)
	}
	return repo, nil
}

func validateSet(set *Set) error {
	for _, c := range set.Creatures {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("creature missing id or name")
		}
		if c.HP <= 0 {
			return fmt.Errorf("creature %s: non-positive hp", c.ID)
		}
		if c.Stage > 0 && c.EvolvesFrom == "" {
			return fmt.Errorf("creature %s: evolution without evolvesFrom", c.ID)
		}
		for _, atk := range c.Attacks {
			if err := validateEffects(atk.Effects); err != nil {
				return fmt.Errorf("creature %s attack %q: %w", c.ID, atk.Name, err)
			}
		}
		if c.Ability != nil {
			if err := validateEffects(c.Ability.Effects); err != nil {
				return fmt.Errorf("creature %s ability %q: %w", c.ID, c.Ability.Name, err)
			}
		}
	}
	for _, s := range set.Supporters {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("supporter missing id or name")
		}
		if err := validateEffects(s.Effects); err != nil {
			return fmt.Errorf("supporter %s: %w", s.ID, err)
		}
	}
	for _, i := range set.Items {
		if i.ID == "" || i.Name == "" {
			return fmt.Errorf("item missing id or name")
		}
		if err := validateEffects(i.Effects); err != nil {
			return fmt.Errorf("item %s: %w", i.ID, err)
		}
	}
	for _, t := range set.Tools {
		if t.ID == "" || t.Name == "" {
			return fmt.Errorf("tool missing id or name")
		}
		if err := validateEffects(t.Effects); err != nil {
			return fmt.Errorf("tool %s: %w", t.ID, err)
		}
	}
	return nil
}

func validateEffects(effs []Effect) error {
	for _, eff := range effs {
		if !KnownEffectType(eff.Type) {
			return fmt.Errorf("unknown effect type %q", eff.Type)
		}
	}
	return nil
}
