// Package mastery computes the 0..100 understanding strength of a concept.
package mastery

import (
	"math"

	"recall/backend/internal/concept"
)

// DefaultScore is returned when a concept carries no signal at all
const DefaultScore = 25

// Bucket thresholds used by lane statistics
const (
	MasteredAbove = 80
	LearningAbove = 40
)

// Bucket names a score band
type Bucket string

const (
	BucketMastered   Bucket = "mastered"
	BucketLearning   Bucket = "learning"
	BucketStruggling Bucket = "struggling"
)

type signal struct {
	cap  float64
	rate float64
}

var (
	practice    = signal{cap: 40, rate: 8}
	review      = signal{cap: 30, rate: 6}
	confidence  = signal{cap: 30, rate: 30}
	rating      = signal{cap: 25, rate: 5}
	occurrences = signal{cap: 20, rate: 4}

	levelCap    = 50.0
	levelPoints = map[concept.MasteryLevel]float64{
		concept.MasteryBeginner:     20,
		concept.MasteryIntermediate: 35,
		concept.MasteryAdvanced:     45,
		concept.MasteryExpert:       50,
	}
)

func (s signal) points(n float64) float64 {
	return math.Min(s.cap, s.rate*n)
}

// Score returns the understanding strength of c in [0,100].
// A positive learningProgress is used directly (values up to 1 are read as a
// fraction). Otherwise each present signal adds its points and its cap to the
// denominator, so missing signals neither help nor hurt.
func Score(c *concept.Concept) int {
	if c.LearningProgress != nil && *c.LearningProgress > 0 {
		p := *c.LearningProgress
		if p <= 1 {
			p *= 100
		}
		return clamp(int(math.Round(p)))
	}

	var total, possible float64
	add := func(points, cap float64) {
		total += points
		possible += cap
	}

	if c.PracticeCount != nil {
		add(practice.points(float64(*c.PracticeCount)), practice.cap)
	}
	if c.ReviewCount != nil {
		add(review.points(float64(*c.ReviewCount)), review.cap)
	}
	if pts, ok := levelPoints[c.MasteryLevel]; ok {
		add(pts, levelCap)
	}
	if c.ConfidenceScore != nil {
		v := *c.ConfidenceScore
		if v <= 1 {
			v *= confidence.rate
		}
		add(math.Min(confidence.cap, v), confidence.cap)
	}
	if c.PersonalRating != nil && *c.PersonalRating > 0 {
		add(rating.points(float64(*c.PersonalRating)), rating.cap)
	}
	if len(c.Occurrences) > 0 {
		add(occurrences.points(float64(len(c.Occurrences))), occurrences.cap)
	}

	if possible == 0 {
		return DefaultScore
	}
	return clamp(int(math.Round(100 * total / possible)))
}

// BucketOf places a score into the mastered / learning / struggling bands
func BucketOf(score int) Bucket {
	switch {
	case score > MasteredAbove:
		return BucketMastered
	case score > LearningAbove:
		return BucketLearning
	default:
		return BucketStruggling
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
