package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

func newPeptideService(t *testing.T) (PeptideService, *gorm.DB) {
	t.Helper()
	gdb := testutil.SQLite(t)
	log := logger.NewNop()
	return NewPeptideService(gdb, log, repos.NewPeptideRepo(gdb, log), repos.NewExperienceRepo(gdb, log)), gdb
}

func strPtr(s string) *string { return &s }

func TestPeptideServiceStats(t *testing.T) {
	svc, gdb := newPeptideService(t)
	ctx := context.Background()

	bpc := testutil.SeedPeptide(t, ctx, gdb, "BPC-157")
	tb := testutil.SeedPeptide(t, ctx, gdb, "TB-500")
	low := types.Outcomes{Energy: 3, Sleep: 3, Mood: 3, Performance: 3, Recovery: 3, SideEffects: 3}
	testutil.SeedExperience(t, ctx, gdb, bpc, testutil.ExperienceOpts{})
	testutil.SeedExperience(t, ctx, gdb, bpc, testutil.ExperienceOpts{Outcomes: &low})
	testutil.SeedExperience(t, ctx, gdb, bpc, testutil.ExperienceOpts{Inactive: true, Outcomes: &low})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BPC-157", list[0].Name)
	assert.Equal(t, 2, list[0].TotalExperiences)
	assert.InDelta(t, 5.0, list[0].AverageRating, 1e-9)
	assert.Equal(t, "TB-500", list[1].Name)
	assert.Zero(t, list[1].TotalExperiences)
	assert.Zero(t, list[1].AverageRating)

	got, err := svc.Get(ctx, tb.ID)
	require.NoError(t, err)
	assert.Equal(t, tb.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestPeptideServiceSearch(t *testing.T) {
	svc, gdb := newPeptideService(t)
	ctx := context.Background()
	testutil.SeedPeptide(t, ctx, gdb, "BPC-157")
	testutil.SeedPeptide(t, ctx, gdb, "Ipamorelin")

	got, err := svc.Search(ctx, "  bpc ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BPC-157", got[0].Name)

	got, err = svc.Search(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Search(ctx, "   ")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestPeptideServiceCreateUpdateDelete(t *testing.T) {
	svc, _ := newPeptideService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, PeptideInput{
		Name:          strPtr("  Semax "),
		Category:      strPtr(catalog.CategoryCognitive),
		CommonEffects: []string{"Focus"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Semax", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.Create(ctx, PeptideInput{Name: strPtr("semax"), Category: strPtr(catalog.CategoryCognitive)})
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	_, err = svc.Create(ctx, PeptideInput{Name: strPtr("Selank"), Category: strPtr("Snake Oil")})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	_, err = svc.Create(ctx, PeptideInput{Category: strPtr(catalog.CategoryCognitive)})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	pop := 101
	_, err = svc.Update(ctx, created.ID, PeptideInput{Popularity: &pop})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	pop = 80
	updated, err := svc.Update(ctx, created.ID, PeptideInput{Popularity: &pop, Description: strPtr("Nootropic")})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Popularity)
	assert.Equal(t, "Semax", updated.Name)

	reread, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nootropic", reread.Description)
	assert.Equal(t, []string{"Focus"}, []string(reread.CommonEffects))

	_, err = svc.Update(ctx, uuid.New(), PeptideInput{Popularity: &pop})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), pkgerrors.ErrNotFound)
}

func TestPeptideServiceUpdateRenameConflict(t *testing.T) {
	svc, gdb := newPeptideService(t)
	ctx := context.Background()
	testutil.SeedPeptide(t, ctx, gdb, "BPC-157")
	tb := testutil.SeedPeptide(t, ctx, gdb, "TB-500")

	_, err := svc.Update(ctx, tb.ID, PeptideInput{Name: strPtr("bpc-157")})
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	renamed, err := svc.Update(ctx, tb.ID, PeptideInput{Name: strPtr("tb-500")})
	require.NoError(t, err, "changing only the case of its own name is allowed")
	assert.Equal(t, "tb-500", renamed.Name)
}

func TestPeptideServiceSeedAndClear(t *testing.T) {
	svc, _ := newPeptideService(t)
	ctx := context.Background()

	first, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, first.Seeded)
	assert.Equal(t, int64(6), first.Count)
	assert.Len(t, first.Peptides, 6)

	second, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, second.Seeded)
	assert.Equal(t, int64(6), second.Count)
	assert.Empty(t, second.Peptides)

	n, err := svc.ClearCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
