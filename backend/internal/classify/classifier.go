// Package classify assigns taxonomy categories to concepts.
package classify

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/pkg/logger"
)

// Source tells which step produced a classification
type Source string

const (
	SourceNormalized Source = "normalized"
	SourceStructural Source = "structural"
	SourceKeywords   Source = "keywords"
	SourceDefault    Source = "default"
)

// Result is a (category, subcategory) pair. Subcategory may be empty.
type Result struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Source      Source `json:"source"`
}

// Label joins the result back into "Main > Sub" form
func (r Result) Label() string {
	return concept.JoinCategory(r.Category, r.Subcategory)
}

var (
	hierarchySplit = regexp.MustCompile(`\s*>\s*`)
	problemTitle   = regexp.MustCompile(`(?i)find|valid|check|contains|determine|is |are `)
)

// Classifier assigns categories. It is safe for concurrent use once built.
type Classifier struct {
	taxonomy *Taxonomy
	logger   *zap.Logger
}

// NewClassifier creates a classifier over the given taxonomy; nil selects DefaultTaxonomy.
// A taxonomy that was never validated is validated here and replaced by the
// default when invalid.
func NewClassifier(taxonomy *Taxonomy) *Classifier {
	log := logger.Named("classifier")
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	} else if taxonomy.folded == nil {
		if err := taxonomy.Validate(); err != nil {
			log.Warn("Invalid taxonomy, using built-in default", zap.Error(err))
			taxonomy = DefaultTaxonomy()
		}
	}
	return &Classifier{
		taxonomy: taxonomy,
		logger:   log,
	}
}

// Taxonomy returns the taxonomy in use
func (c *Classifier) Taxonomy() *Taxonomy {
	return c.taxonomy
}

// Classify always returns a category. A supplied category that normalizes
// wins outright; otherwise the title checks run, then keyword scoring.
func (c *Classifier) Classify(in *concept.Concept) Result {
	if in.Category != "" {
		if r, ok := c.NormalizeCategory(in.Category); ok {
			return r
		}
		c.logger.Debug("Supplied category did not normalize",
			zap.String("category", in.Category),
			zap.String("title", in.Title),
		)
	}

	if r, ok := c.classifyTitle(in); ok {
		return r
	}

	return c.scoreKeywords(in)
}

// NormalizeCategory maps an externally supplied label onto the taxonomy:
// exact label, case-insensitive label, alias substring, then "Main > Sub" with
// the main part normalized the same way. Empty and "uncategorized" never normalize.
func (c *Classifier) NormalizeCategory(label string) (Result, bool) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "uncategorized") {
		return Result{}, false
	}

	for _, l := range c.taxonomy.labels {
		if l == label {
			return resultFromLabel(l), true
		}
	}
	if canonical, ok := c.taxonomy.Lookup(label); ok {
		return resultFromLabel(canonical), true
	}

	parts := hierarchySplit.Split(label, 2)
	if len(parts) < 2 {
		return c.matchAlias(label)
	}

	head, sub := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if head == "" {
		return Result{}, false
	}
	if canonical, ok := c.taxonomy.Lookup(concept.JoinCategory(head, sub)); ok {
		return resultFromLabel(canonical), true
	}

	r, ok := c.taxonomy.Lookup(head)
	var res Result
	if ok {
		res = resultFromLabel(r)
	} else if res, ok = c.matchAlias(head); !ok {
		return Result{}, false
	}
	if res.Subcategory == "" {
		res.Subcategory = sub
		if canonical, found := c.taxonomy.Lookup(concept.JoinCategory(res.Category, sub)); found {
			res = resultFromLabel(canonical)
		}
	}
	return res, true
}

func (c *Classifier) matchAlias(label string) (Result, bool) {
	lower := strings.ToLower(label)
	for _, alias := range c.taxonomy.Aliases {
		if !strings.Contains(lower, strings.ToLower(alias.Keyword)) {
			continue
		}
		if canonical, ok := c.taxonomy.Lookup(alias.Target); ok {
			c.logger.Debug("Mapped category via alias",
				zap.String("input", label),
				zap.String("keyword", alias.Keyword),
				zap.String("category", canonical),
			)
			return resultFromLabel(canonical), true
		}
	}
	return Result{}, false
}

// classifyTitle runs the ordered structural checks on the title alone
func (c *Classifier) classifyTitle(in *concept.Concept) (Result, bool) {
	title := strings.ToLower(in.Title)
	mentionsProblem := strings.Contains(title, "problem")

	if !mentionsProblem {
		if sub, ok := dataStructureSub(title); ok {
			return Result{Category: CategoryDataStructures, Subcategory: sub, Source: SourceStructural}, true
		}
		if containsAny(title, "technique", "method", "algorithm", "count", "frequency") {
			return Result{Category: CategoryTechnique, Subcategory: techniqueSub(title), Source: SourceStructural}, true
		}
	}

	if mentionsProblem || problemTitle.MatchString(in.Title) {
		text := strings.ToLower(in.CombinedText())
		return Result{Category: CategoryAlgorithms, Subcategory: problemDomain(text), Source: SourceStructural}, true
	}
	return Result{}, false
}

func dataStructureSub(title string) (string, bool) {
	switch {
	case strings.Contains(title, "hash"):
		return SubHashTables, true
	case strings.Contains(title, "array"):
		return SubArrays, true
	case strings.Contains(title, "tree"):
		return SubTrees, true
	case strings.Contains(title, "graph"):
		return SubGraphs, true
	}
	return "", false
}

func techniqueSub(title string) string {
	switch {
	case containsAny(title, "frequency", "count"):
		return SubFrequencyCounting
	case containsAny(title, "two pointer", "two-pointer"):
		return SubTwoPointers
	case strings.Contains(title, "sliding window"):
		return SubSlidingWindow
	case strings.Contains(title, "binary search"):
		return SubBinarySearch
	case containsAny(title, "dfs", "depth-first", "depth first"):
		return SubDFS
	case containsAny(title, "bfs", "breadth-first", "breadth first"):
		return SubBFS
	}
	return ""
}

// problemDomain uses plain substring checks, like the title checks above:
// "subgraph" is a graph problem and "inorder" an ordering one.
func problemDomain(text string) string {
	switch {
	case containsAny(text, "anagram", "palindrome", "substring"):
		return SubStringAlgorithms
	case containsAny(text, "graph", "node", "edge", "vertex", "vertices", "path"):
		return SubGraphAlgorithms
	case containsAny(text, "sort", "order"):
		return SubSortingAlgorithms
	case containsAny(text, "search", "find"):
		return SubSearchAlgorithms
	case containsAny(text, "dynamic programming", "dp", "memoization", "memoisation"):
		return SubDynamicProgram
	}
	return ""
}

// scoreKeywords counts keyword occurrences per category over title, summary
// and key points. The highest score wins; ties go to the earlier category.
func (c *Classifier) scoreKeywords(in *concept.Concept) Result {
	text := strings.ToLower(in.CombinedText())

	bestIdx, bestScore := -1, 0
	for i, cat := range c.taxonomy.Categories {
		score := 0
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			score += strings.Count(text, strings.ToLower(kw))
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 {
		res := resultFromLabel(c.taxonomy.Default)
		res.Source = SourceDefault
		return res
	}

	cat := c.taxonomy.Categories[bestIdx]
	res := Result{Category: cat.Name, Source: SourceKeywords}
	for _, sub := range cat.Subcategories {
		if strings.Contains(text, strings.ToLower(sub)) {
			res.Subcategory = sub
			break
		}
	}
	c.logger.Debug("Classified by keyword score",
		zap.String("title", in.Title),
		zap.String("category", res.Category),
		zap.Int("score", bestScore),
	)
	return res
}

func resultFromLabel(label string) Result {
	main, sub := concept.SplitCategory(label)
	return Result{Category: main, Subcategory: sub, Source: SourceNormalized}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
