// Package inventory holds the point-in-time snapshot of a player's
// creatures, candies and capture records.
package inventory

import (
	"maps"
	"sort"
)

// Snapshot is an immutable view of an inventory. All lookups are total:
// unknown keys resolve to zero values.
type Snapshot struct {
	owned    map[int]int // species id -> units held
	candies  map[int]int // family id -> candy balance
	captures map[int]int // species id -> times captured
}

// New builds a snapshot from owned counts, family candies and capture
// counts. The maps are copied; nil maps are treated as empty.
func New(owned, candies, captures map[int]int) *Snapshot {
	return &Snapshot{
		owned:    cloneNonNegative(owned),
		candies:  cloneNonNegative(candies),
		captures: cloneNonNegative(captures),
	}
}

// cloneNonNegative copies m, clamping negative values to zero.
func cloneNonNegative(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		if v < 0 {
			v = 0
		}
		out[k] = v
	}
	return out
}

// Owned returns how many units of the species are held.
func (s *Snapshot) Owned(id int) int {
	if s == nil {
		return 0
	}
	return s.owned[id]
}

// Candies returns the family's candy balance.
func (s *Snapshot) Candies(family int) int {
	if s == nil {
		return 0
	}
	return s.candies[family]
}

// Captured reports whether the species was ever caught. A missing record
// and a record with zero captures both count as never caught.
func (s *Snapshot) Captured(id int) bool {
	return s.TimesCaptured(id) > 0
}

// TimesCaptured returns the capture count recorded for the species.
func (s *Snapshot) TimesCaptured(id int) int {
	if s == nil {
		return 0
	}
	return s.captures[id]
}

// PartySize returns the total number of creatures held.
func (s *Snapshot) PartySize() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.owned {
		n += c
	}
	return n
}

// Response returns the snapshot in collaborator wire form.
func (s *Snapshot) Response() Response {
	r := Response{
		Candies: make(map[int]int),
		Pokedex: make(map[int]PokedexEntry),
	}
	if s == nil {
		return r
	}
	maps.Copy(r.Candies, s.candies)
	for id, n := range s.captures {
		r.Pokedex[id] = PokedexEntry{TimesCaptured: n}
	}

	ids := make([]int, 0, len(s.owned))
	for id := range s.owned {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		for i := 0; i < s.owned[id]; i++ {
			r.Party = append(r.Party, PartyMember{PokemonID: id})
		}
	}
	return r
}
