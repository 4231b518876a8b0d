package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/testutil"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
)

func TestPeptideRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPeptideRepo(gdb, testutil.Logger(t))

	bpc := testutil.SeedPeptide(t, ctx, tx, "BPC-157")
	tb := testutil.SeedPeptide(t, ctx, tx, "TB-500")
	semax := &types.Peptide{Name: "Semax", Category: catalog.CategoryCognitive, Description: "Nootropic nasal spray"}
	created, err := repo.Create(dbc, []*types.Peptide{semax})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEqual(t, uuid.Nil, created[0].ID)

	all, err := repo.FindPeptides(dbc, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"BPC-157", "Semax", "TB-500"}, []string{all[0].Name, all[1].Name, all[2].Name})

	some, err := repo.FindPeptides(dbc, []uuid.UUID{tb.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, tb.ID, some[0].ID)

	got, err := repo.GetByID(dbc, bpc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BPC-157", got.Name)
	assert.Equal(t, []string{"Recovery"}, []string(got.CommonEffects))

	missing, err := repo.GetByID(dbc, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	byName, err := repo.GetByName(dbc, "bpc-157")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, bpc.ID, byName.ID)

	found, err := repo.Search(dbc, "NOOTROPIC")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Semax", found[0].Name)

	found, err = repo.Search(dbc, "healing")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Search(dbc, "100%")
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, repo.UpdateFields(dbc, tb.ID, map[string]interface{}{"popularity": 42}))
	got, err = repo.GetByID(dbc, tb.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Popularity)

	n, err := repo.Count(dbc)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	deleted, err := repo.Delete(dbc, bpc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(dbc, bpc.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	removed, err := repo.DeleteAll(dbc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestPeptideRepoDuplicateName(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPeptideRepo(gdb, testutil.Logger(t))

	testutil.SeedPeptide(t, ctx, tx, "Ipamorelin")
	_, err := repo.Create(dbc, []*types.Peptide{{Name: "Ipamorelin", Category: catalog.CategoryGrowthHormone}})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestPeptideRepoUpsert(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPeptideRepo(gdb, testutil.Logger(t))

	id := uuid.New()
	require.NoError(t, repo.Upsert(dbc, []*types.Peptide{{ID: id, Name: "Epitalon", Category: catalog.CategoryAntiAging}}))
	require.NoError(t, repo.Upsert(dbc, []*types.Peptide{{ID: id, Name: "Epitalon", Category: catalog.CategoryAntiAging, Description: "updated"}}))

	got, err := repo.GetByID(dbc, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "updated", got.Description)

	n, err := repo.Count(dbc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
