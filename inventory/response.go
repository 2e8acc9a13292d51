package inventory

import (
	"encoding/json"
	"fmt"
	"os"
)

// Response is the inventory payload returned by the game service.
type Response struct {
	Candies map[int]int          `json:"candies"` // family id -> balance
	Party   []PartyMember        `json:"party"`
	Pokedex map[int]PokedexEntry `json:"pokedex"` // species id -> record
}

// PartyMember is one creature held by the player.
type PartyMember struct {
	PokemonID int `json:"pokemon_id"`
}

// PokedexEntry is the capture record of one species.
type PokedexEntry struct {
	TimesCaptured int `json:"times_captured"`
}

// FromResponse converts a service payload into a snapshot, counting party
// members per species.
func FromResponse(r Response) *Snapshot {
	owned := make(map[int]int)
	for _, m := range r.Party {
		owned[m.PokemonID]++
	}
	captures := make(map[int]int, len(r.Pokedex))
	for id, e := range r.Pokedex {
		captures[id] = e.TimesCaptured
	}
	return New(owned, r.Candies, captures)
}

// Decode parses a JSON inventory payload.
func Decode(data []byte) (*Snapshot, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal inventory: %w", err)
	}
	return FromResponse(r), nil
}

// SaveFile writes the snapshot to disk as JSON.
func SaveFile(s *Snapshot, path string) error {
	data, err := json.MarshalIndent(s.Response(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot written by SaveFile, or any file holding a
// service payload.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return Decode(data)
}
