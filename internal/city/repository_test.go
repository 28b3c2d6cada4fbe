package city

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListCities_Pagination(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)
	ctx := context.Background()

	cities, meta, err := repo.ListCities(ctx, Filter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "New York City", cities[0].Name)
	assert.Equal(t, 3, meta.TotalItemCount)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 2, meta.TotalPageCount)
}

func TestRepository_ListCities_TrimsFilter(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)

	cities, _, err := repo.ListCities(context.Background(), Filter{Name: "  Paris  "}, 1, 10)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Paris", cities[0].Name)
}

func TestRepository_ListCities_BeyondLastPage(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)

	cities, meta, err := repo.ListCities(context.Background(), Filter{}, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, cities)
	assert.Equal(t, 3, meta.TotalItemCount)
	assert.Equal(t, 9, meta.CurrentPage)
}

func TestRepository_AddPointOfInterest_MissingCity(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)
	ctx := context.Background()
	before := s.PointOfInterestCount()

	err := repo.AddPointOfInterest(ctx, 999, &PointOfInterest{Name: "x"})
	require.ErrorIs(t, err, ErrCityNotFound)

	// Nothing staged, so commit is a no-op
	committed, err := repo.Commit(ctx)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Equal(t, before, s.PointOfInterestCount())
}

func TestRepository_AddPointOfInterest_CommitPersists(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)
	ctx := context.Background()

	poi := &PointOfInterest{Name: "New Spot", Description: "d"}
	require.NoError(t, repo.AddPointOfInterest(ctx, 1, poi))
	assert.Equal(t, int64(1), poi.CityID)

	// Not durable until commit
	assert.Equal(t, 6, s.PointOfInterestCount())

	committed, err := repo.Commit(ctx)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.NotZero(t, poi.ID)
	assert.Equal(t, 7, s.PointOfInterestCount())
}

func TestRepository_StagedMutationsAreInMemory(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)
	ctx := context.Background()

	poi, err := repo.GetPointOfInterest(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, poi)

	poi.Name = "Renamed"
	repo.UpdatePointOfInterest(*poi)

	// Another reader still sees the old name before commit
	fresh, err := s.GetPointOfInterest(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cathedral of Our Lady", fresh.Name)

	committed, err := repo.Commit(ctx)
	require.NoError(t, err)
	assert.True(t, committed)

	fresh, err = s.GetPointOfInterest(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh.Name)
}

// droppedWritesStore simulates a backend where the staged rows were removed
// by a concurrent request between fetch and commit, so Apply affects nothing.
type droppedWritesStore struct {
	*MemoryStore
}

func (droppedWritesStore) Apply(context.Context, *Changeset) (int, error) {
	return 0, nil
}

func TestRepository_Commit_NothingPersistedIsAnError(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(droppedWritesStore{s})
	ctx := context.Background()

	poi, err := repo.GetPointOfInterest(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, poi)

	repo.DeletePointOfInterest(*poi)
	committed, err := repo.Commit(ctx)
	assert.False(t, committed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staged changes")
}

func TestRepository_Commit_EmptyStage(t *testing.T) {
	repo := NewRepository(seededStore(t))

	committed, err := repo.Commit(context.Background())
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestRepository_CityNameMatchesCityID(t *testing.T) {
	s := seededStore(t)
	repo := NewRepository(s)
	ctx := context.Background()

	antwerp := "Antwerp"
	lower := "antwerp"
	paris := "Paris"

	tests := []struct {
		name   string
		claim  *string
		cityID int64
		want   bool
	}{
		{"matching claim", &antwerp, 1, true},
		{"wrong city", &paris, 1, false},
		{"nil claim", nil, 1, false},
		{"case sensitive", &lower, 1, false},
		{"missing city", &antwerp, 999, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := repo.CityNameMatchesCityID(ctx, tc.claim, tc.cityID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}
