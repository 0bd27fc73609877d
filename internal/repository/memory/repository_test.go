package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

func TestRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	first, err := repo.Insert(ctx, models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab A", Quantity: 2, TotalValue: 1500})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := repo.Insert(ctx, models.AssetInput{AssetNumberPrimary: "LM-002", Name: "Centrifuge", Room: "Lab B", Quantity: 1})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Other", Room: "Lab B"})
	assert.ErrorIs(t, err, models.ErrDuplicateAssetNumber)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.AssetRecord{first, second}, list)

	_, err = repo.Get(ctx, "Lab B", first.ID)
	assert.ErrorIs(t, err, models.ErrAssetNotFound)

	moved, err := repo.Replace(ctx, "Lab A", first.ID, models.AssetInput{AssetNumberPrimary: "LM-001", Name: "Microscope", Room: "Lab B", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, moved.ID)
	assert.Equal(t, "Lab B", moved.Room)

	_, err = repo.Replace(ctx, "Lab B", first.ID, models.AssetInput{AssetNumberPrimary: "LM-002", Name: "Microscope", Room: "Lab B"})
	assert.ErrorIs(t, err, models.ErrDuplicateAssetNumber)

	assert.ErrorIs(t, repo.Delete(ctx, "Lab A", first.ID), models.ErrAssetNotFound)
	require.NoError(t, repo.Delete(ctx, "Lab B", first.ID))

	found, err := repo.FindByAssetNumber(ctx, "LM-001")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByAssetNumber(ctx, "LM-002")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, second.ID, found.ID)
}

func TestRepositorySnapshots(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.SaveSnapshot(context.Background(), models.InventorySummary{Items: 3}))
	assert.Len(t, repo.Snapshots(), 1)
}
