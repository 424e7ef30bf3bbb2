package concept

import (
	"strings"
	"time"
)

// MasteryLevel is the self-reported mastery of a concept
type MasteryLevel string

const (
	MasteryBeginner     MasteryLevel = "BEGINNER"
	MasteryIntermediate MasteryLevel = "INTERMEDIATE"
	MasteryAdvanced     MasteryLevel = "ADVANCED"
	MasteryExpert       MasteryLevel = "EXPERT"
)

// CategorySeparator joins a main category and its subcategory
const CategorySeparator = " > "

// DefaultLane is the lane used for concepts without a category
const DefaultLane = "General"

// Concept is one unit of learned knowledge as stored for a user.
// Numeric signals are pointers so that "absent" and "zero" stay distinguishable.
type Concept struct {
	ID               string       `json:"id"`
	UserID           string       `json:"userId,omitempty"`
	Title            string       `json:"title"`
	Category         string       `json:"category,omitempty"`
	Summary          string       `json:"summary,omitempty"`
	KeyPoints        []string     `json:"keyPoints,omitempty"`
	MasteryLevel     MasteryLevel `json:"masteryLevel,omitempty"`
	LearningProgress *float64     `json:"learningProgress,omitempty"`
	PracticeCount    *int         `json:"practiceCount,omitempty"`
	ReviewCount      *int         `json:"reviewCount,omitempty"`
	ConfidenceScore  *float64     `json:"confidenceScore,omitempty"`
	PersonalRating   *int         `json:"personalRating,omitempty"`
	Occurrences      []string     `json:"occurrences,omitempty"`
	RelatedConcepts  ListField    `json:"relatedConcepts,omitempty"`
	Prerequisites    ListField    `json:"prerequisites,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// MainCategory returns the text before " > ", or DefaultLane when the concept has no category
func (c *Concept) MainCategory() string {
	main, _ := SplitCategory(c.Category)
	if main == "" {
		return DefaultLane
	}
	return main
}

// Subcategory returns the text after " > ", or "" for flat categories
func (c *Concept) Subcategory() string {
	_, sub := SplitCategory(c.Category)
	return sub
}

// SplitCategory splits "Main > Sub" into its parts. Only the first separator counts.
func SplitCategory(category string) (string, string) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", ""
	}
	main, sub, found := strings.Cut(category, CategorySeparator)
	if !found {
		return category, ""
	}
	return strings.TrimSpace(main), strings.TrimSpace(sub)
}

// JoinCategory is the inverse of SplitCategory
func JoinCategory(main, sub string) string {
	if sub == "" {
		return main
	}
	return main + CategorySeparator + sub
}

// CombinedText concatenates title, summary and key points for keyword scanning
func (c *Concept) CombinedText() string {
	parts := make([]string, 0, 2+len(c.KeyPoints))
	parts = append(parts, c.Title, c.Summary)
	parts = append(parts, c.KeyPoints...)
	return strings.Join(parts, " ")
}

// NormalizeTitle lowercases, trims and collapses inner whitespace.
// Two titles refer to the same concept when their normalized forms are equal.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
