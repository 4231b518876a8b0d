package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
	"github.com/yungbote/peptide-insights-backend/internal/domain/experience"
)

func SeedPeptide(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Peptide {
	tb.Helper()
	p := &types.Peptide{
		ID:            uuid.New(),
		Name:          name,
		Category:      catalog.CategoryHealingRecovery,
		Description:   name + " description",
		CommonEffects: datatypes.JSONSlice[string]{"Recovery"},
		SideEffects:   datatypes.JSONSlice[string]{},
		CommonStacks:  datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed peptide: %v", err)
	}
	return p
}

// ExperienceOpts overrides the defaults of SeedExperience.
type ExperienceOpts struct {
	UserID    uuid.UUID
	Outcomes  *types.Outcomes
	CreatedAt time.Time
	Inactive  bool
	Helpful   int
}

func SeedExperience(tb testing.TB, ctx context.Context, tx *gorm.DB, p *types.Peptide, opts ExperienceOpts) *types.Experience {
	tb.Helper()
	outcomes := types.Outcomes{Energy: 7, Sleep: 7, Mood: 7, Performance: 7, Recovery: 7, SideEffects: 7}
	if opts.Outcomes != nil {
		outcomes = *opts.Outcomes
	}
	userID := opts.UserID
	if userID == uuid.Nil {
		userID = uuid.New()
	}
	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC().Truncate(time.Second)
	}
	id := uuid.New()
	e := &types.Experience{
		ID:                    id,
		UserID:                userID,
		PeptideID:             p.ID,
		PeptideName:           p.Name,
		TrackingID:            fmt.Sprintf("EXP-%s", id.String()[:8]),
		Dosage:                "250mcg",
		Frequency:             experience.FrequencyDaily,
		Duration:              4,
		RouteOfAdministration: experience.RouteSubcutaneous,
		PrimaryPurpose:        datatypes.JSONSlice[string]{"recovery"},
		Outcomes:              outcomes,
		Effects:               datatypes.JSONSlice[string]{"Better sleep"},
		Timeline:              "1-week",
		Stack:                 datatypes.JSONSlice[string]{},
		HelpfulVotes:          opts.Helpful,
		IsActive:              !opts.Inactive,
		CreatedAt:             created.UTC(),
		UpdatedAt:             created.UTC(),
	}
	if err := tx.WithContext(ctx).Select("*").Create(e).Error; err != nil {
		tb.Fatalf("seed experience: %v", err)
	}
	return e
}
