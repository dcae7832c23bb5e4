package dealing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zippomocks "github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam/mocks"
	"github.com/vfg2006/nicmap-api/infrastructure/repository/mocks"
	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Deals: config.Deals{
			ExpirationDays:      30,
			ReportKillThreshold: 2,
			DefaultRadiusMiles:  30,
		},
	}
}

func austinGeocode() *domain.GeocodeResult {
	return &domain.GeocodeResult{
		Latitude:  30.2713,
		Longitude: -97.7426,
		City:      "Austin",
		State:     "TX",
	}
}

func validInput() CreateDealInput {
	originalPrice := decimal.NewFromFloat(10.00)
	return CreateDealInput{
		StoreName:     "Smoke Shop ATX",
		Product:       "Vape descartável",
		OriginalPrice: &originalPrice,
		SalePrice:     decimal.NewFromFloat(5.00),
		ZipCode:       "78701",
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	mockGeocoder.EXPECT().
		Resolve(gomock.Any(), "78701").
		Return(austinGeocode(), nil)

	mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(deal *domain.Deal) (*domain.Deal, error) {
			created := *deal
			created.ID = 1
			created.CreatedAt = time.Now().UTC()
			created.ExpiresAt = created.CreatedAt.Add(30 * 24 * time.Hour)
			return &created, nil
		})

	created, err := service.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)

	// Localização preenchida a partir do geocoding quando não informada
	assert.Equal(t, "Austin, TX", created.Location)
	assert.InDelta(t, 30.2713, created.Latitude, 1e-6)
	assert.InDelta(t, -97.7426, created.Longitude, 1e-6)

	// 10.00 -> 5.00 representa 50% de desconto
	pct, ok := created.SavingsPercent()
	require.True(t, ok)
	assert.InDelta(t, 50.0, pct, 1e-9)
}

func TestService_Create_KeepsExplicitLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	mockGeocoder.EXPECT().
		Resolve(gomock.Any(), "78701").
		Return(austinGeocode(), nil)

	mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(deal *domain.Deal) (*domain.Deal, error) {
			return deal, nil
		})

	input := validInput()
	input.Location = "Downtown Austin"

	created, err := service.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Downtown Austin", created.Location)
}

func TestService_Create_ValidationErrors(t *testing.T) {
	negativePrice := decimal.NewFromFloat(-1)

	tests := []struct {
		name        string
		mutate      func(input *CreateDealInput)
		expectedErr error
	}{
		{
			name:        "Sem storeName",
			mutate:      func(input *CreateDealInput) { input.StoreName = "" },
			expectedErr: ErrMissingRequiredFields,
		},
		{
			name:        "Sem product",
			mutate:      func(input *CreateDealInput) { input.Product = "" },
			expectedErr: ErrMissingRequiredFields,
		},
		{
			name:        "Sem zipCode",
			mutate:      func(input *CreateDealInput) { input.ZipCode = "" },
			expectedErr: ErrMissingRequiredFields,
		},
		{
			name:        "salePrice zerado",
			mutate:      func(input *CreateDealInput) { input.SalePrice = decimal.Zero },
			expectedErr: ErrInvalidSalePrice,
		},
		{
			name:        "originalPrice negativo",
			mutate:      func(input *CreateDealInput) { input.OriginalPrice = &negativePrice },
			expectedErr: ErrInvalidOriginalPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Nenhuma chamada ao geocoder ou ao repositório é esperada:
			// a validação rejeita antes do geocoding
			mockRepo := mocks.NewMockDealRepository(ctrl)
			mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

			service := NewService(testConfig(), mockRepo, mockGeocoder)

			input := validInput()
			tt.mutate(&input)

			created, err := service.Create(context.Background(), input)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, created)
		})
	}
}

func TestService_Create_UnresolvableZipCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	mockGeocoder.EXPECT().
		Resolve(gomock.Any(), "00000").
		Return(nil, nil)

	input := validInput()
	input.ZipCode = "00000"

	// O repositório nunca é tocado: nenhum registro criado, nenhum ID consumido
	created, err := service.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrZipCodeNotResolved)
	assert.Nil(t, created)
}

func TestService_Get(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		deal        *domain.Deal
		expectedErr error
	}{
		{
			name: "Oferta ativa é retornada",
			deal: &domain.Deal{ID: 1, CreatedAt: now.Add(-time.Hour)},
		},
		{
			name:        "ID inexistente",
			deal:        nil,
			expectedErr: ErrDealNotFound,
		},
		{
			name:        "Oferta expirada é indistinguível de inexistente",
			deal:        &domain.Deal{ID: 1, CreatedAt: now.Add(-31 * 24 * time.Hour)},
			expectedErr: ErrDealNotFound,
		},
		{
			name:        "Oferta removida por denúncias é indistinguível de inexistente",
			deal:        &domain.Deal{ID: 1, CreatedAt: now.Add(-time.Hour), Reports: 2},
			expectedErr: ErrDealNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockDealRepository(ctrl)
			mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

			service := NewService(testConfig(), mockRepo, mockGeocoder)

			mockRepo.EXPECT().GetByID(1).Return(tt.deal, nil)

			deal, err := service.Get(context.Background(), 1)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, deal)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.deal.ID, deal.ID)
			}
		})
	}
}

func TestService_Report_KillProtocol(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	now := time.Now().UTC()

	gomock.InOrder(
		mockRepo.EXPECT().
			IncrementReports(1).
			Return(&domain.Deal{ID: 1, CreatedAt: now, Reports: 1}, nil),
		mockRepo.EXPECT().
			IncrementReports(1).
			Return(&domain.Deal{ID: 1, CreatedAt: now, Reports: 2}, nil),
	)

	// Primeira denúncia não remove
	result, err := service.Report(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reports)
	assert.False(t, result.Killed)

	// Segunda denúncia atinge o limite e remove, na mesma operação
	result, err = service.Report(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Reports)
	assert.True(t, result.Killed)
}

func TestService_Report_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	mockRepo.EXPECT().IncrementReports(99).Return(nil, nil)

	result, err := service.Report(context.Background(), 99)
	assert.ErrorIs(t, err, ErrDealNotFound)
	assert.Nil(t, result)
}

func TestService_Upvote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	mockRepo.EXPECT().
		IncrementUpvotes(1).
		Return(&domain.Deal{ID: 1, Upvotes: 4}, nil)

	deal, err := service.Upvote(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, deal.Upvotes)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	gomock.InOrder(
		mockRepo.EXPECT().DeleteByID(1).Return(true, nil),
		mockRepo.EXPECT().DeleteByID(1).Return(false, nil),
	)

	assert.NoError(t, service.Delete(context.Background(), 1))
	assert.ErrorIs(t, service.Delete(context.Background(), 1), ErrDealNotFound)
}

func TestService_Query_RadiusAndOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	now := time.Now().UTC()

	edge := dealAtMiles(1, 29.9)
	edge.CreatedAt = now
	near := dealAtMiles(2, 2.0)
	near.CreatedAt = now
	outside := dealAtMiles(3, 31.0)
	outside.CreatedAt = now
	expired := dealAtMiles(4, 1.0)
	expired.CreatedAt = now.Add(-31 * 24 * time.Hour)

	mockRepo.EXPECT().
		List().
		Return([]*domain.Deal{edge, near, outside, expired}, nil)

	results, err := service.Query(context.Background(), QueryOptions{
		Viewer:      &domain.Coordinates{Latitude: viewerLat, Longitude: viewerLng},
		RadiusMiles: 30,
		Sort:        SortDistance,
	})
	require.NoError(t, err)

	// Fora do raio e expirada ficam de fora; ordenação por distância crescente
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].ID)
	assert.Equal(t, 1, results[1].ID)

	for _, result := range results {
		require.NotNil(t, result.Distance)
		assert.GreaterOrEqual(t, *result.Distance, 0.0)
		assert.LessOrEqual(t, *result.Distance, 30.0)
	}
}

func TestService_Query_WithoutViewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	mockGeocoder := zippomocks.NewMockGeocoder(ctrl)

	service := NewService(testConfig(), mockRepo, mockGeocoder)

	now := time.Now().UTC()

	mockRepo.EXPECT().
		List().
		Return([]*domain.Deal{
			{ID: 1, CreatedAt: now.Add(-2 * time.Hour), Latitude: 30.0, Longitude: -97.0},
			{ID: 2, CreatedAt: now.Add(-time.Hour), Latitude: 30.0, Longitude: -97.0},
		}, nil)

	results, err := service.Query(context.Background(), QueryOptions{Sort: SortRecent})
	require.NoError(t, err)

	// Sem localização: ordem de recência e nenhuma distância anotada
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].ID)
	assert.Equal(t, 1, results[1].ID)
	assert.Nil(t, results[0].Distance)
	assert.Nil(t, results[1].Distance)
}
