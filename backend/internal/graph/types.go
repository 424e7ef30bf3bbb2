// Package graph infers a typed, weighted edge set over a concept snapshot and
// assembles it with the lane layout into the graph the UI renders.
package graph

import "recall/backend/internal/layout"

// EdgeType classifies an inferred edge
type EdgeType string

const (
	// EdgePrerequisite is directed: From must be learned before To
	EdgePrerequisite EdgeType = "prerequisite"
	EdgeRelated      EdgeType = "related"
	EdgeCategory     EdgeType = "category"
	EdgeConversation EdgeType = "conversation"
)

// Edge weights per inference pass
const (
	WeightPrerequisite = 0.9
	WeightRelated      = 0.8
	WeightHashTable    = 0.9
	WeightFamily       = 0.7
	WeightSameCategory = 0.4
	WeightConversation = 0.3

	// LabelConversation is attached to shared-occurrence edges
	LabelConversation = "discussed together"

	// DefaultMaxEdgesPerNode bounds the degree of every node after capping
	DefaultMaxEdgesPerNode = 5
)

// Edge connects two concepts. Apart from prerequisites, direction is only
// the order in which the inference found the pair.
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight float64  `json:"weight"`
	Type   EdgeType `json:"type"`
	Label  string   `json:"label,omitempty"`
}

// KeywordFamily is a group of title terms; two titles that each contain a term
// of the same family are lexically related
type KeywordFamily struct {
	Name  string   `yaml:"name" json:"name"`
	Terms []string `yaml:"terms" json:"terms"`
}

// DefaultFamilies returns the built-in keyword families
func DefaultFamilies() []KeywordFamily {
	return []KeywordFamily{
		{
			Name:  "data-structures",
			Terms: []string{"array", "list", "hash", "table", "map", "tree", "graph", "heap", "stack", "queue", "trie"},
		},
		{
			Name:  "algorithms",
			Terms: []string{"sort", "search", "algorithm", "dynamic programming", "recursion", "greedy", "traversal", "pointer", "window", "bfs", "dfs"},
		},
		{
			Name:  "machine-learning",
			Terms: []string{"machine learning", "neural", "regression", "classifier", "gradient", "model", "training", "embedding"},
		},
	}
}

// Stats summarizes one build
type Stats struct {
	Concepts      int `json:"concepts"`
	EdgesInferred int `json:"edgesInferred"`
	EdgesKept     int `json:"edgesKept"`
	Unresolved    int `json:"unresolvedReferences"`
}

// Graph is the build output handed to the rendering layer
type Graph struct {
	Nodes  []layout.PositionedConcept `json:"nodes"`
	Edges  []Edge                     `json:"edges"`
	Lanes  []layout.Lane              `json:"lanes"`
	Width  float64                    `json:"width"`
	Height float64                    `json:"height"`
	Stats  Stats                      `json:"stats"`
}
