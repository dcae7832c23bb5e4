package dealing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/nicmap-api/internal/domain"
)

// Latitude de referência do usuário nos testes de raio; somando
// delta/milesPerDegree em graus de latitude obtemos ofertas a uma
// distância conhecida em milhas (longitude fixa).
const (
	viewerLat      = 30.2672
	viewerLng      = -97.7431
	milesPerDegree = 69.0976
)

func dealAtMiles(id int, miles float64) *domain.Deal {
	return &domain.Deal{
		ID:        id,
		Latitude:  viewerLat + miles/milesPerDegree,
		Longitude: viewerLng,
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		raw      string
		expected SortMode
		ok       bool
	}{
		{raw: "", expected: SortDistance, ok: true}, // Padrão
		{raw: "distance", expected: SortDistance, ok: true},
		{raw: "popular", expected: SortPopular, ok: true},
		{raw: "recent", expected: SortRecent, ok: true},
		{raw: "alphabetical", ok: false},
	}

	for _, tt := range tests {
		t.Run("sort="+tt.raw, func(t *testing.T) {
			mode, ok := ParseSortMode(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, mode)
			}
		})
	}
}

func TestAnnotateWithDistance(t *testing.T) {
	viewer := domain.Coordinates{Latitude: viewerLat, Longitude: viewerLng}

	near := dealAtMiles(1, 2.0)
	edge := dealAtMiles(2, 29.9)
	outside := dealAtMiles(3, 31.0)
	noCoords := &domain.Deal{ID: 4}

	results := annotateWithDistance([]*domain.Deal{outside, near, noCoords, edge}, viewer, 30)

	// Fora do raio e sem coordenadas ficam de fora; ordem de entrada preservada
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 2, results[1].ID)

	for _, result := range results {
		require.NotNil(t, result.Distance)
		assert.GreaterOrEqual(t, *result.Distance, 0.0)
	}

	assert.InDelta(t, 2.0, *results[0].Distance, 0.05)
	assert.InDelta(t, 29.9, *results[1].Distance, 0.05)
}

func TestSortResults_Distance(t *testing.T) {
	viewer := domain.Coordinates{Latitude: viewerLat, Longitude: viewerLng}

	far := dealAtMiles(1, 29.9)
	near := dealAtMiles(2, 2.0)

	results := annotateWithDistance([]*domain.Deal{far, near}, viewer, 30)
	sortResults(results, SortDistance, true)

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].ID)
	assert.Equal(t, 1, results[1].ID)
}

func TestSortResults_Recent(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	results := toResults([]*domain.Deal{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
		{ID: 3, CreatedAt: base.Add(time.Hour)}, // Empate com a oferta 2
		{ID: 4, CreatedAt: base.Add(2 * time.Hour)},
	})

	sortResults(results, SortRecent, false)

	// Descendente por criação; empate mantém a ordem de inserção (2 antes de 3)
	ids := []int{results[0].ID, results[1].ID, results[2].ID, results[3].ID}
	assert.Equal(t, []int{4, 2, 3, 1}, ids)
}

func TestSortResults_Popular(t *testing.T) {
	results := toResults([]*domain.Deal{
		{ID: 1, Upvotes: 3},
		{ID: 2, Upvotes: 10},
		{ID: 3, Upvotes: 3}, // Empate com a oferta 1
		{ID: 4, Upvotes: 0},
	})

	sortResults(results, SortPopular, false)

	// Empates preservam a ordem relativa original, sem chave secundária
	ids := []int{results[0].ID, results[1].ID, results[2].ID, results[3].ID}
	assert.Equal(t, []int{2, 1, 3, 4}, ids)
}

func TestSortResults_DistanceWithoutViewerFallsBackToRecent(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	results := toResults([]*domain.Deal{
		{ID: 1, CreatedAt: base},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
	})

	sortResults(results, SortDistance, false)

	assert.Equal(t, 2, results[0].ID)
	assert.Equal(t, 1, results[1].ID)
}
