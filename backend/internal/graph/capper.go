package graph

import "sort"

// CapEdges keeps the heaviest edges while no endpoint exceeds maxPerNode kept
// edges. Edges of equal weight keep their inference order. The input slice is
// not modified. A non-positive maxPerNode selects DefaultMaxEdgesPerNode.
func CapEdges(edges []Edge, maxPerNode int) []Edge {
	if maxPerNode <= 0 {
		maxPerNode = DefaultMaxEdgesPerNode
	}

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	degree := make(map[string]int)
	kept := make([]Edge, 0, len(sorted))
	for _, e := range sorted {
		if degree[e.From] >= maxPerNode || degree[e.To] >= maxPerNode {
			continue
		}
		degree[e.From]++
		degree[e.To]++
		kept = append(kept, e)
	}
	return kept
}
