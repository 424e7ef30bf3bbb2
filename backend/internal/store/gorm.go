package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
)

// conceptRow is the concepts table. List columns use the json type rather than
// jsonb so that postgres keeps the text exactly as written.
type conceptRow struct {
	ID               string         `gorm:"primaryKey;type:varchar(64)"`
	UserID           string         `gorm:"column:user_id;index"`
	Title            string         `gorm:"not null"`
	Category         string         `gorm:"column:category"`
	Summary          string         `gorm:"column:summary"`
	KeyPoints        datatypes.JSON `gorm:"column:key_points;type:json"`
	MasteryLevel     string         `gorm:"column:mastery_level"`
	LearningProgress *float64       `gorm:"column:learning_progress"`
	PracticeCount    *int           `gorm:"column:practice_count"`
	ReviewCount      *int           `gorm:"column:review_count"`
	ConfidenceScore  *float64       `gorm:"column:confidence_score"`
	PersonalRating   *int           `gorm:"column:personal_rating"`
	RelatedConcepts  datatypes.JSON `gorm:"column:related_concepts;type:json"`
	Prerequisites    datatypes.JSON `gorm:"column:prerequisites;type:json"`
	CreatedAt        time.Time      `gorm:"column:created_at;index"`
}

func (conceptRow) TableName() string { return "concepts" }

type occurrenceRow struct {
	ConceptID      string    `gorm:"column:concept_id;primaryKey;type:varchar(64)"`
	ConversationID string    `gorm:"column:conversation_id;primaryKey;type:varchar(128)"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (occurrenceRow) TableName() string { return "concept_occurrences" }

// GormStore keeps concepts in postgres or sqlite
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenGorm opens a postgres (DSN) or sqlite (file path) database
func OpenGorm(backend, dsn string, silent bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch backend {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm backend %q", backend)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if silent {
		gormLog = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, apperrors.NewStoreConnectionFailed(backend, err)
	}
	return db, nil
}

// NewGormStore migrates the schema and returns the store
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&conceptRow{}, &occurrenceRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate concept tables: %w", err)
	}
	return &GormStore{db: db, logger: logger.Named("gorm_store")}, nil
}

func (s *GormStore) GetConcept(ctx context.Context, id string) (*concept.Concept, error) {
	var row conceptRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewConceptNotFound(id)
		}
		return nil, apperrors.NewStoreQueryFailed("get concept", err)
	}

	occ, err := s.occurrences(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return row.toConcept(occ[id]), nil
}

func (s *GormStore) ListConcepts(ctx context.Context, userID string) ([]*concept.Concept, error) {
	q := s.db.WithContext(ctx).Model(&conceptRow{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rows []conceptRow
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.NewStoreQueryFailed("list concepts", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	occ, err := s.occurrences(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*concept.Concept, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toConcept(occ[rows[i].ID]))
	}
	return out, nil
}

func (s *GormStore) CreateConcept(ctx context.Context, c *concept.Concept) error {
	row := rowFromConcept(c)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(c.Occurrences) == 0 {
			return nil
		}
		occ := make([]occurrenceRow, 0, len(c.Occurrences))
		for _, convID := range c.Occurrences {
			occ = append(occ, occurrenceRow{ConceptID: c.ID, ConversationID: convID})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&occ).Error
	})
	if err != nil {
		return apperrors.NewStoreQueryFailed("create concept", err)
	}

	s.logger.Info("Concept created",
		zap.String("concept_id", c.ID),
		zap.String("user_id", c.UserID),
	)
	return nil
}

func (s *GormStore) UpdateRelatedConcepts(ctx context.Context, id string, related concept.ListField) error {
	res := s.db.WithContext(ctx).
		Model(&conceptRow{}).
		Where("id = ?", id).
		Update("related_concepts", datatypes.JSON(listFieldJSON(related)))
	if res.Error != nil {
		return apperrors.NewStoreQueryFailed("update related concepts", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConceptNotFound(id)
	}
	return nil
}

func (s *GormStore) AddOccurrence(ctx context.Context, conceptID, conversationID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&conceptRow{}).Where("id = ?", conceptID).Count(&count).Error; err != nil {
		return apperrors.NewStoreQueryFailed("add occurrence", err)
	}
	if count == 0 {
		return apperrors.NewConceptNotFound(conceptID)
	}

	row := occurrenceRow{ConceptID: conceptID, ConversationID: conversationID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return apperrors.NewStoreQueryFailed("add occurrence", err)
	}
	return nil
}

func (s *GormStore) DeleteConcept(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("concept_id = ?", id).Delete(&occurrenceRow{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&conceptRow{}).Error
	})
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete concept", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) occurrences(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []occurrenceRow
	if err := s.db.WithContext(ctx).
		Where("concept_id IN ?", ids).
		Order("concept_id ASC, conversation_id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewStoreQueryFailed("load occurrences", err)
	}
	for _, row := range rows {
		out[row.ConceptID] = append(out[row.ConceptID], row.ConversationID)
	}
	return out, nil
}

func rowFromConcept(c *concept.Concept) conceptRow {
	var keyPoints datatypes.JSON
	if len(c.KeyPoints) > 0 {
		keyPoints, _ = json.Marshal(c.KeyPoints)
	}
	return conceptRow{
		ID:               c.ID,
		UserID:           c.UserID,
		Title:            c.Title,
		Category:         c.Category,
		Summary:          c.Summary,
		KeyPoints:        keyPoints,
		MasteryLevel:     string(c.MasteryLevel),
		LearningProgress: c.LearningProgress,
		PracticeCount:    c.PracticeCount,
		ReviewCount:      c.ReviewCount,
		ConfidenceScore:  c.ConfidenceScore,
		PersonalRating:   c.PersonalRating,
		RelatedConcepts:  listFieldJSON(c.RelatedConcepts),
		Prerequisites:    listFieldJSON(c.Prerequisites),
		CreatedAt:        c.CreatedAt,
	}
}

func (r *conceptRow) toConcept(occurrences []string) *concept.Concept {
	var keyPoints []string
	if len(r.KeyPoints) > 0 {
		_ = json.Unmarshal(r.KeyPoints, &keyPoints)
	}
	c := &concept.Concept{
		ID:               r.ID,
		UserID:           r.UserID,
		Title:            r.Title,
		Category:         r.Category,
		Summary:          r.Summary,
		KeyPoints:        keyPoints,
		MasteryLevel:     concept.MasteryLevel(r.MasteryLevel),
		LearningProgress: r.LearningProgress,
		PracticeCount:    r.PracticeCount,
		ReviewCount:      r.ReviewCount,
		ConfidenceScore:  r.ConfidenceScore,
		PersonalRating:   r.PersonalRating,
		Occurrences:      occurrences,
		CreatedAt:        r.CreatedAt,
	}
	if len(r.RelatedConcepts) > 0 {
		c.RelatedConcepts = concept.ListField(r.RelatedConcepts)
	}
	if len(r.Prerequisites) > 0 {
		c.Prerequisites = concept.ListField(r.Prerequisites)
	}
	return c
}
