package graph

import (
	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/internal/layout"
	"recall/backend/pkg/logger"
)

// Builder turns a concept snapshot into a capped, laid-out graph
type Builder struct {
	inferencer *Inferencer
	layout     *layout.Engine
	maxEdges   int
	logger     *zap.Logger
}

// NewBuilder wires the inferencer and layout engine. maxEdgesPerNode <= 0
// selects DefaultMaxEdgesPerNode.
func NewBuilder(inferencer *Inferencer, engine *layout.Engine, maxEdgesPerNode int) *Builder {
	if inferencer == nil {
		inferencer = NewInferencer(nil)
	}
	if engine == nil {
		engine = layout.NewEngine(layout.DefaultConfig())
	}
	if maxEdgesPerNode <= 0 {
		maxEdgesPerNode = DefaultMaxEdgesPerNode
	}
	return &Builder{
		inferencer: inferencer,
		layout:     engine,
		maxEdges:   maxEdgesPerNode,
		logger:     logger.Named("graph"),
	}
}

// Build is a pure function of the snapshot: the same concepts in the same
// order always produce the same graph.
func (b *Builder) Build(concepts []*concept.Concept) *Graph {
	inferred, unresolved := b.inferencer.buildEdges(concepts)
	kept := CapEdges(inferred, b.maxEdges)
	placed := b.layout.Layout(concepts)

	g := &Graph{
		Nodes:  placed.Nodes,
		Edges:  kept,
		Lanes:  placed.Lanes,
		Width:  placed.Width,
		Height: placed.Height,
		Stats: Stats{
			Concepts:      len(concepts),
			EdgesInferred: len(inferred),
			EdgesKept:     len(kept),
			Unresolved:    unresolved,
		},
	}

	b.logger.Debug("Graph built",
		zap.Int("concepts", g.Stats.Concepts),
		zap.Int("edges_inferred", g.Stats.EdgesInferred),
		zap.Int("edges_kept", g.Stats.EdgesKept),
		zap.Int("lanes", len(g.Lanes)),
	)
	return g
}
