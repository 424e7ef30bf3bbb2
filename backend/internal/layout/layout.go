// Package layout places concepts into category lanes and computes the 2-D
// geometry of every node. It only produces numbers; drawing is up to the client.
package layout

import (
	"math"
	"sort"

	"recall/backend/internal/concept"
	"recall/backend/internal/mastery"
)

// Config holds the geometry constants of a layout pass
type Config struct {
	ContentWidth float64 `json:"contentWidth"`
	LanePadding  float64 `json:"lanePadding"`
	NodeWidth    float64 `json:"nodeWidth"`
	NodeHeight   float64 `json:"nodeHeight"`
	NodeSpacing  float64 `json:"nodeSpacing"`
	HeaderHeight float64 `json:"headerHeight"`
	LaneSpacing  float64 `json:"laneSpacing"`
	MinPerRow    int     `json:"minPerRow"`
	MaxPerRow    int     `json:"maxPerRow"`
}

// DefaultConfig returns the geometry used by the web client
func DefaultConfig() Config {
	return Config{
		ContentWidth: 1200,
		LanePadding:  40,
		NodeWidth:    220,
		NodeHeight:   90,
		NodeSpacing:  30,
		HeaderHeight: 60,
		LaneSpacing:  40,
		MinPerRow:    2,
		MaxPerRow:    4,
	}
}

// PositionedConcept is a concept plus its computed geometry
type PositionedConcept struct {
	*concept.Concept
	Subcategory    string  `json:"subcategory,omitempty"`
	Understanding  int     `json:"understanding"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	LaneIndex      int     `json:"laneIndex"`
	PositionInLane int     `json:"positionInLane"`
}

// LaneStats counts concepts per understanding band
type LaneStats struct {
	Total      int `json:"total"`
	Mastered   int `json:"mastered"`
	Learning   int `json:"learning"`
	Struggling int `json:"struggling"`
}

// Lane holds every concept of one main category
type Lane struct {
	Category string              `json:"category"`
	Concepts []PositionedConcept `json:"concepts"`
	Y        float64             `json:"y"`
	Height   float64             `json:"height"`
	Stats    LaneStats           `json:"stats"`
}

// Result is the output of a layout pass
type Result struct {
	Lanes  []Lane              `json:"lanes"`
	Nodes  []PositionedConcept `json:"nodes"`
	Width  float64             `json:"width"`
	Height float64             `json:"height"`
}

// Engine computes lane layouts
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. Non-positive sizes and negative spacings take their defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	fill := func(v *float64, d float64) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&cfg.ContentWidth, def.ContentWidth)
	fill(&cfg.NodeWidth, def.NodeWidth)
	fill(&cfg.NodeHeight, def.NodeHeight)
	if cfg.LanePadding < 0 {
		cfg.LanePadding = def.LanePadding
	}
	if cfg.NodeSpacing < 0 {
		cfg.NodeSpacing = def.NodeSpacing
	}
	if cfg.HeaderHeight < 0 {
		cfg.HeaderHeight = def.HeaderHeight
	}
	if cfg.LaneSpacing < 0 {
		cfg.LaneSpacing = def.LaneSpacing
	}
	if cfg.MinPerRow <= 0 {
		cfg.MinPerRow = def.MinPerRow
	}
	if cfg.MaxPerRow < cfg.MinPerRow {
		cfg.MaxPerRow = max(def.MaxPerRow, cfg.MinPerRow)
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// PerRow returns how many nodes fit in one lane row
func (e *Engine) PerRow() int {
	available := e.cfg.ContentWidth - 2*e.cfg.LanePadding
	n := int(math.Floor(available / (e.cfg.NodeWidth + e.cfg.NodeSpacing)))
	return min(max(n, e.cfg.MinPerRow), e.cfg.MaxPerRow)
}

type slot struct {
	row  int
	col  int
	gaps int
}

// Layout groups concepts into lanes by main category in first-seen order,
// sorts each lane by subcategory (empty last) then understanding descending,
// and assigns (row, col) by index. Each subcategory change pushes the rest of
// the lane down by half a row. Identical input yields identical output.
func (e *Engine) Layout(concepts []*concept.Concept) Result {
	cfg := e.cfg
	perRow := e.PerRow()
	step := cfg.NodeHeight + cfg.NodeSpacing
	halfRow := step / 2
	available := cfg.ContentWidth - 2*cfg.LanePadding

	groups := groupByLane(concepts)
	result := Result{
		Lanes: make([]Lane, 0, len(groups)),
		Nodes: make([]PositionedConcept, 0, len(concepts)),
		Width: cfg.ContentWidth,
	}

	y := 0.0
	for laneIdx, group := range groups {
		members := make([]PositionedConcept, len(group.concepts))
		for i, c := range group.concepts {
			members[i] = PositionedConcept{
				Concept:       c,
				Subcategory:   c.Subcategory(),
				Understanding: mastery.Score(c),
				Width:         cfg.NodeWidth,
				Height:        cfg.NodeHeight,
				LaneIndex:     laneIdx,
			}
		}
		sort.SliceStable(members, func(i, j int) bool {
			a, b := members[i], members[j]
			if a.Subcategory != b.Subcategory {
				if a.Subcategory == "" || b.Subcategory == "" {
					return b.Subcategory == ""
				}
				return a.Subcategory < b.Subcategory
			}
			return a.Understanding > b.Understanding
		})

		slots := make([]slot, len(members))
		gaps := 0
		for i := range members {
			if i > 0 && members[i].Subcategory != members[i-1].Subcategory {
				gaps++
			}
			slots[i] = slot{row: i / perRow, col: i % perRow, gaps: gaps}
		}
		rows := (len(members) + perRow - 1) / perRow

		lane := Lane{
			Category: group.name,
			Concepts: members,
			Y:        y,
			Height:   cfg.HeaderHeight + float64(rows)*step + float64(gaps)*halfRow + cfg.LanePadding,
		}
		for i := range members {
			s := slots[i]
			n := float64(min(perRow, len(members)-s.row*perRow))
			rowWidth := n*cfg.NodeWidth + (n-1)*cfg.NodeSpacing
			startX := cfg.LanePadding + (available-rowWidth)/2

			members[i].X = startX + float64(s.col)*(cfg.NodeWidth+cfg.NodeSpacing)
			members[i].Y = y + cfg.HeaderHeight + float64(s.row)*step + float64(s.gaps)*halfRow
			members[i].PositionInLane = i

			lane.Stats.Total++
			switch mastery.BucketOf(members[i].Understanding) {
			case mastery.BucketMastered:
				lane.Stats.Mastered++
			case mastery.BucketLearning:
				lane.Stats.Learning++
			default:
				lane.Stats.Struggling++
			}
		}

		result.Lanes = append(result.Lanes, lane)
		result.Nodes = append(result.Nodes, members...)
		y += lane.Height + cfg.LaneSpacing
	}

	if n := len(result.Lanes); n > 0 {
		last := result.Lanes[n-1]
		result.Height = last.Y + last.Height
	}
	return result
}

type laneGroup struct {
	name     string
	concepts []*concept.Concept
}

func groupByLane(concepts []*concept.Concept) []laneGroup {
	groups := make([]laneGroup, 0)
	index := make(map[string]int)
	for _, c := range concepts {
		name := c.MainCategory()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, laneGroup{name: name})
		}
		groups[i].concepts = append(groups[i].concepts, c)
	}
	return groups
}
