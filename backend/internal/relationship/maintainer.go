// Package relationship keeps relatedConcepts symmetric across link and unlink.
package relationship

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
)

// Store is the persistence the maintainer needs
type Store interface {
	GetConcept(ctx context.Context, id string) (*concept.Concept, error)
	UpdateRelatedConcepts(ctx context.Context, id string, related concept.ListField) error
}

// Reason classifies a rejected request
type Reason string

const (
	ReasonSelfLink Reason = "self_link"
	ReasonNotFound Reason = "not_found"
)

// Result is what link/unlink report to the caller. Rejected requests come back
// with Success=false and a message; only storage failures are returned as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  Reason `json:"reason,omitempty"`
	Changed bool   `json:"changed"`
}

// Maintainer applies link/unlink to stored concepts. Writes to the same
// concept are serialized in-process with per-id locks.
type Maintainer struct {
	store  Store
	locks  *keyedMutex
	logger *zap.Logger
}

// NewMaintainer creates a maintainer over store
func NewMaintainer(store Store) *Maintainer {
	return &Maintainer{
		store:  store,
		locks:  newKeyedMutex(),
		logger: logger.Named("relationship"),
	}
}

// Link makes a and b reference each other. A reference that already exists on
// one side is kept and only the missing side is written.
func (m *Maintainer) Link(ctx context.Context, aID, bID string) (Result, error) {
	if aID == bID {
		return rejected(ReasonSelfLink, apperrors.NewSelfLink(aID).Message), nil
	}

	unlock := m.locks.lock(aID, bID)
	defer unlock()

	a, b, res, err := m.load(ctx, aID, bID)
	if err != nil || !res.Success {
		return res, err
	}

	aHas := a.RelatedConcepts.Contains(b)
	bHas := b.RelatedConcepts.Contains(a)
	if aHas && bHas {
		return Result{Success: true, Message: "Concepts are already linked"}, nil
	}

	var newA, newB concept.ListField
	if !aHas {
		newA = a.RelatedConcepts.Append(concept.IDRef(b.ID, b.Title))
	}
	if !bHas {
		newB = b.RelatedConcepts.Append(concept.IDRef(a.ID, a.Title))
	}
	if err := m.writePair(ctx, a, newA, b, newB); err != nil {
		return Result{}, err
	}

	m.logger.Info("Concepts linked",
		zap.String("concept_id", aID),
		zap.String("related_concept_id", bID),
		zap.Bool("completed_existing", aHas || bHas),
	)
	return Result{Success: true, Message: "Concepts linked successfully", Changed: true}, nil
}

// Unlink removes every reference between a and b on both sides, whatever
// encoding each side used. Unlinking concepts that are not linked is a no-op.
func (m *Maintainer) Unlink(ctx context.Context, aID, bID string) (Result, error) {
	if aID == bID {
		return rejected(ReasonSelfLink, "a concept cannot be unlinked from itself"), nil
	}

	unlock := m.locks.lock(aID, bID)
	defer unlock()

	a, b, res, err := m.load(ctx, aID, bID)
	if err != nil || !res.Success {
		return res, err
	}

	newA, removedA := a.RelatedConcepts.Remove(b)
	newB, removedB := b.RelatedConcepts.Remove(a)
	if removedA == 0 && removedB == 0 {
		return Result{Success: true, Message: "Concepts were not linked"}, nil
	}
	if removedA == 0 {
		newA = nil
	}
	if removedB == 0 {
		newB = nil
	}
	if err := m.writePair(ctx, a, newA, b, newB); err != nil {
		return Result{}, err
	}

	m.logger.Info("Concepts unlinked",
		zap.String("concept_id", aID),
		zap.String("related_concept_id", bID),
		zap.Int("removed", removedA+removedB),
	)
	return Result{Success: true, Message: "Concepts unlinked successfully", Changed: true}, nil
}

// load fetches both concepts concurrently. A missing concept is a rejected
// request, not an error.
func (m *Maintainer) load(ctx context.Context, aID, bID string) (*concept.Concept, *concept.Concept, Result, error) {
	var a, b *concept.Concept
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = m.store.GetConcept(gctx, aID)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = m.store.GetConcept(gctx, bID)
		return err
	})

	if err := g.Wait(); err != nil {
		var nf *apperrors.ErrConceptNotFound
		if errors.As(err, &nf) {
			return nil, nil, rejected(ReasonNotFound, fmt.Sprintf("Concept %s not found", nf.ConceptID)), nil
		}
		if ctx.Err() != nil {
			return nil, nil, Result{}, apperrors.NewContextCancelled("load concepts", ctx.Err())
		}
		return nil, nil, Result{}, fmt.Errorf("failed to load concepts: %w", err)
	}
	return a, b, Result{Success: true}, nil
}

// writePair writes the non-nil lists, a first. If b fails after a was written,
// a's previous list is restored; if that fails too the pair is left one-sided
// and ErrPartialWrite is returned.
func (m *Maintainer) writePair(ctx context.Context, a *concept.Concept, newA concept.ListField, b *concept.Concept, newB concept.ListField) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewContextCancelled("update relationships", err)
	}

	wroteA := false
	if newA != nil {
		if err := m.store.UpdateRelatedConcepts(ctx, a.ID, newA); err != nil {
			return fmt.Errorf("failed to update concept %s: %w", a.ID, err)
		}
		wroteA = true
	}

	if newB == nil {
		return nil
	}
	err := m.store.UpdateRelatedConcepts(ctx, b.ID, newB)
	if err == nil {
		return nil
	}
	if !wroteA {
		return fmt.Errorf("failed to update concept %s: %w", b.ID, err)
	}

	m.logger.Warn("Second write failed, restoring first side",
		zap.String("concept_id", a.ID),
		zap.String("related_concept_id", b.ID),
		zap.Error(err),
	)
	restore := a.RelatedConcepts
	if restore == nil {
		restore = concept.ListField("[]")
	}
	if rbErr := m.store.UpdateRelatedConcepts(context.WithoutCancel(ctx), a.ID, restore); rbErr != nil {
		m.logger.Error("Failed to restore relationship list",
			zap.String("concept_id", a.ID),
			zap.Error(rbErr),
		)
		return apperrors.NewPartialWrite(a.ID, errors.Join(err, rbErr))
	}
	return fmt.Errorf("failed to update concept %s: %w", b.ID, err)
}

func rejected(reason Reason, message string) Result {
	return Result{Success: false, Message: message, Reason: reason}
}
