package workflow

import (
	"fmt"
	"sort"

	"github.com/R3E-Network/consciousness-core/internal/apitypes"
)

// Synthesize implements spec §4.7 "Synthesis": themes are keywords shared
// by two or more successful engines' projections, weighted by how many
// engines contain them; alignments are engine pairs that share at least
// one keyword; tensions are engine pairs whose keyword sets are disjoint
// but both non-empty (framed as an open question, never a verdict).
func Synthesize(keywordsByEngine map[string][]string) apitypes.Synthesis {
	if len(keywordsByEngine) == 0 {
		return apitypes.Synthesis{}
	}

	engineIDs := sortedKeys(keywordsByEngine)
	sourcesByKeyword := make(map[string][]string)
	for _, id := range engineIDs {
		for _, kw := range dedupe(keywordsByEngine[id]) {
			sourcesByKeyword[kw] = append(sourcesByKeyword[kw], id)
		}
	}

	total := float64(len(engineIDs))
	var themes []apitypes.Theme
	for _, kw := range sortedStringKeys(sourcesByKeyword) {
		sources := sourcesByKeyword[kw]
		if len(sources) < 2 {
			continue
		}
		themes = append(themes, apitypes.Theme{
			Label:    kw,
			Sources:  sources,
			Strength: float64(len(sources)) / total,
		})
	}

	var alignments []apitypes.Alignment
	var tensions []apitypes.Tension
	for i := 0; i < len(engineIDs); i++ {
		for j := i + 1; j < len(engineIDs); j++ {
			a, b := engineIDs[i], engineIDs[j]
			shared := intersect(keywordsByEngine[a], keywordsByEngine[b])
			if len(shared) > 0 {
				alignments = append(alignments, apitypes.Alignment{
					Engines: []string{a, b},
					Label:   shared[0],
				})
				continue
			}
			if len(keywordsByEngine[a]) > 0 && len(keywordsByEngine[b]) > 0 {
				tensions = append(tensions, apitypes.Tension{
					Engines:  []string{a, b},
					Question: fmt.Sprintf("Where might %s and %s be pointing in different directions?", a, b),
				})
			}
		}
	}

	return apitypes.Synthesis{Themes: themes, Alignments: alignments, Tensions: tensions}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[item] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, item := range b {
		if set[item] && !seen[item] {
			out = append(out, item)
			seen[item] = true
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string][]string) []string {
	return sortedKeys(m)
}
