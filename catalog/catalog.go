// Package catalog provides the static species reference table: names,
// families, evolution costs, candy walk distances and evolution chains.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed pokedex.yaml
var pokedexYAML []byte

// NoFamily is the family id of species that belong to no evolution line.
const NoFamily = 0

var titleCaser = cases.Title(language.English)

// Species is one entry of the reference table.
type Species struct {
	ID            int    `yaml:"id"`
	Name          string `yaml:"name"`
	Family        int    `yaml:"family"`
	EvolutionCost int    `yaml:"evolution_cost"` // Candies per evolution; 0 = does not evolve
	EvolvesInto   int    `yaml:"evolves_into"`   // Next stage id; 0 = none
	WalkDistance  int    `yaml:"-"`              // Filled from the family table
}

// DisplayName returns the capitalised name used in reports.
func (s Species) DisplayName() string {
	return titleCaser.String(s.Name)
}

// Evolves reports whether the species can be evolved with candies.
func (s Species) Evolves() bool {
	return s.EvolutionCost > 0
}

// Family holds per-family constants.
type Family struct {
	ID           int `yaml:"id"`
	WalkDistance int `yaml:"walk_distance"`
}

// file is the on-disk layout of a catalog.
type file struct {
	// DeriveSuccessors fills missing evolves_into using the id+1 convention.
	DeriveSuccessors bool      `yaml:"derive_successors"`
	Families         []Family  `yaml:"families"`
	Species          []Species `yaml:"species"`
}

// Catalog is an immutable, id-ordered species table.
type Catalog struct {
	species      []Species
	index        map[int]int    // id -> position in species
	byName       map[string]int // normalized name -> id
	predecessors map[int]int    // id -> id of the species evolving into it
}

// Default returns the embedded first-generation catalog.
func Default() (*Catalog, error) {
	return Parse(pokedexYAML)
}

// Load reads a catalog from a YAML file, or the embedded default if path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	walks := make(map[int]int, len(f.Families))
	for _, fam := range f.Families {
		if fam.WalkDistance < 0 {
			return nil, fmt.Errorf("family %d: negative walk distance %d", fam.ID, fam.WalkDistance)
		}
		walks[fam.ID] = fam.WalkDistance
	}

	species := make([]Species, len(f.Species))
	for i, s := range f.Species {
		s.WalkDistance = walks[s.Family]
		species[i] = s
	}
	if f.DeriveSuccessors {
		species = FromAdjacency(species)
	}

	return New(species)
}

// New builds a catalog from in-memory entries. The input slice is copied.
func New(species []Species) (*Catalog, error) {
	c := &Catalog{
		species:      make([]Species, len(species)),
		index:        make(map[int]int, len(species)),
		byName:       make(map[string]int, len(species)),
		predecessors: make(map[int]int),
	}
	copy(c.species, species)
	sort.Slice(c.species, func(i, j int) bool { return c.species[i].ID < c.species[j].ID })

	for i, s := range c.species {
		switch {
		case s.ID <= 0:
			return nil, fmt.Errorf("species %q: id must be positive, got %d", s.Name, s.ID)
		case s.EvolutionCost < 0:
			return nil, fmt.Errorf("species %d: negative evolution cost %d", s.ID, s.EvolutionCost)
		case s.WalkDistance < 0:
			return nil, fmt.Errorf("species %d: negative walk distance %d", s.ID, s.WalkDistance)
		case s.Family < 0:
			return nil, fmt.Errorf("species %d: negative family %d", s.ID, s.Family)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %d", s.ID)
		}
		c.index[s.ID] = i

		if s.Name != "" {
			key := normalize(s.Name)
			if other, dup := c.byName[key]; dup {
				return nil, fmt.Errorf("species %d and %d share the name %q", other, s.ID, s.Name)
			}
			c.byName[key] = s.ID
		}
	}

	for _, s := range c.species {
		if s.EvolvesInto == 0 {
			continue
		}
		if prev, dup := c.predecessors[s.EvolvesInto]; dup {
			return nil, fmt.Errorf("species %d and %d both evolve into %d", prev, s.ID, s.EvolvesInto)
		}
		c.predecessors[s.EvolvesInto] = s.ID
	}

	return c, nil
}

// FromAdjacency returns a copy of species where every entry without an
// explicit successor evolves into id+1 when that id exists in the same family.
func FromAdjacency(species []Species) []Species {
	out := make([]Species, len(species))
	copy(out, species)

	families := make(map[int]int, len(out))
	for _, s := range out {
		families[s.ID] = s.Family
	}
	for i := range out {
		s := &out[i]
		if s.EvolvesInto != 0 || s.Family == NoFamily {
			continue
		}
		if fam, ok := families[s.ID+1]; ok && fam == s.Family {
			s.EvolvesInto = s.ID + 1
		}
	}
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.species)
}

// Species returns every entry in ascending id order.
func (c *Catalog) Species() []Species {
	if c == nil {
		return nil
	}
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// Lookup returns the species with the given id.
func (c *Catalog) Lookup(id int) (Species, bool) {
	if c == nil {
		return Species{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Species{}, false
	}
	return c.species[i], true
}

// Family returns the family of id, or NoFamily for unknown ids.
func (c *Catalog) Family(id int) int {
	s, ok := c.Lookup(id)
	if !ok {
		return NoFamily
	}
	return s.Family
}

// Successor returns the next stage of id within its family.
func (c *Catalog) Successor(id int) (Species, bool) {
	s, ok := c.Lookup(id)
	if !ok || s.EvolvesInto == 0 {
		return Species{}, false
	}
	return c.sameFamily(s, s.EvolvesInto)
}

// Predecessor returns the stage that evolves into id within its family.
func (c *Catalog) Predecessor(id int) (Species, bool) {
	s, ok := c.Lookup(id)
	if !ok {
		return Species{}, false
	}
	prev, ok := c.predecessors[id]
	if !ok {
		return Species{}, false
	}
	return c.sameFamily(s, prev)
}

// sameFamily returns the species other when it shares s's family.
// Links across families, or within NoFamily, are coincidental and ignored.
func (c *Catalog) sameFamily(s Species, other int) (Species, bool) {
	if s.Family == NoFamily || c.Family(other) != s.Family {
		return Species{}, false
	}
	return c.Lookup(other)
}

// ErrUnknownSpecies is returned when a name does not match any species.
var ErrUnknownSpecies = errors.New("unknown species")

// UnknownSpeciesError carries the closest known names for a failed lookup.
type UnknownSpeciesError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownSpeciesError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown species %q", e.Name)
	}
	return fmt.Sprintf("unknown species %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownSpeciesError) Unwrap() error { return ErrUnknownSpecies }

// ByName finds a species by case-insensitive name.
func (c *Catalog) ByName(name string) (Species, error) {
	if c != nil {
		if id, ok := c.byName[normalize(name)]; ok {
			s, _ := c.Lookup(id)
			return s, nil
		}
	}
	return Species{}, &UnknownSpeciesError{Name: name, Suggestions: c.suggest(name)}
}

// ResolveNames maps species names to a set of ids.
func (c *Catalog) ResolveNames(names []string) (map[int]bool, error) {
	ids := make(map[int]bool, len(names))
	var errs []error
	for _, name := range names {
		s, err := c.ByName(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids[s.ID] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ids, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
