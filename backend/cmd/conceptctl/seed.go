package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/internal/constants"
	"recall/backend/internal/store"
	"recall/backend/pkg/config"
	apperrors "recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
)

type seedStats struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func newSeedCmd(opts *options) *cobra.Command {
	var (
		userID string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the export into the store configured by the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			concepts, err := readConcepts(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Env); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.StartupTimeout)
			st, err := store.Open(ctx, cfg)
			cancel()
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			stats, err := seed(cmd.Context(), st, concepts, userID, force)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner for concepts that have none")
	cmd.Flags().BoolVar(&force, "force", false, "replace concepts that already exist")
	return cmd
}

// seed writes concepts one by one. Existing ids are skipped unless force
// replaces them.
func seed(ctx context.Context, st store.Store, concepts []*concept.Concept, userID string, force bool) (seedStats, error) {
	log := logger.Named("seed")
	var stats seedStats

	for _, c := range concepts {
		if c.UserID == "" {
			c.UserID = userID
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		_, err := st.GetConcept(ctx, c.ID)
		switch {
		case err == nil && !force:
			stats.Skipped++
			log.Debug("Concept exists, skipping", zap.String("concept_id", c.ID))
			continue
		case err == nil:
			if err := st.DeleteConcept(ctx, c.ID); err != nil {
				return stats, err
			}
		case !apperrors.IsNotFound(err):
			return stats, err
		}

		if err := st.CreateConcept(ctx, c); err != nil {
			return stats, fmt.Errorf("failed to seed %s: %w", c.ID, err)
		}
		stats.Created++
	}

	log.Info("Seeding complete", zap.Int("created", stats.Created), zap.Int("skipped", stats.Skipped))
	return stats, nil
}
