package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// suggest returns up to maxSuggestions known names close to name.
func (c *Catalog) suggest(name string) []string {
	if c == nil {
		return nil
	}
	token := normalize(name)
	if token == "" {
		return nil
	}

	type scored struct {
		name string
		dist int
	}
	var results []scored
	for known := range c.byName {
		var dist int
		switch {
		case strings.HasPrefix(known, token) && len(token) >= 3:
			dist = 0
		default:
			dist = levenshtein.ComputeDistance(token, known)
			if dist > distanceLimit(len(known)) {
				continue
			}
		}
		results = append(results, scored{name: known, dist: dist})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].name < results[j].name
		}
		return results[i].dist < results[j].dist
	})

	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.name
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
