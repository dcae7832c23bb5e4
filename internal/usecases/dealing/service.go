package dealing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam"
	"github.com/vfg2006/nicmap-api/infrastructure/repository"
	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/domain"
)

// CreateDealInput é o payload de submissão de uma nova oferta
type CreateDealInput struct {
	StoreName     string           `json:"storeName" validate:"required"`
	Product       string           `json:"product" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	SalePrice     decimal.Decimal  `json:"salePrice"`
	Location      string           `json:"location"`
	Description   string           `json:"description"`
	ZipCode       string           `json:"zipCode" validate:"required"`
}

// DealService é o contrato do ciclo de vida e das consultas de ofertas
type DealService interface {
	// Create valida a submissão, resolve o zip code e persiste a oferta.
	// Falha de geocoding rejeita a submissão sem consumir um ID.
	Create(ctx context.Context, input CreateDealInput) (*domain.Deal, error)

	// Get retorna uma oferta visível. Ofertas expiradas ou removidas por
	// denúncias são indistinguíveis de inexistentes.
	Get(ctx context.Context, id int) (*domain.Deal, error)

	// Delete remove a oferta incondicionalmente, em qualquer situação de ciclo de vida
	Delete(ctx context.Context, id int) error

	// Upvote incrementa o contador de votos. Chamadas repetidas continuam
	// incrementando: não há supressão de duplicatas.
	Upvote(ctx context.Context, id int) (*domain.Deal, error)

	// Report incrementa o contador de denúncias e avalia o limite de remoção
	// na mesma operação, devolvendo killed para o chamador reagir sem uma
	// segunda leitura.
	Report(ctx context.Context, id int) (*domain.ReportResult, error)

	// Query responde "quais ofertas este usuário deve ver, em que ordem"
	Query(ctx context.Context, opts QueryOptions) ([]*domain.DealWithDistance, error)
}

type Service struct {
	cfg       *config.Config
	repo      repository.DealRepository
	geocoder  zippopotam.Geocoder
	lifecycle Lifecycle
	validate  *validator.Validate
}

func NewService(
	cfg *config.Config,
	repo repository.DealRepository,
	geocoder zippopotam.Geocoder,
) DealService {
	return &Service{
		cfg:       cfg,
		repo:      repo,
		geocoder:  geocoder,
		lifecycle: NewLifecycle(cfg.Deals),
		validate:  validator.New(),
	}
}

func (s *Service) Create(ctx context.Context, input CreateDealInput) (*domain.Deal, error) {
	// Validar campos obrigatórios antes de tentar o geocoding
	if err := s.validate.Struct(input); err != nil {
		return nil, ErrMissingRequiredFields
	}

	if !input.SalePrice.IsPositive() {
		return nil, ErrInvalidSalePrice
	}

	if input.OriginalPrice != nil && !input.OriginalPrice.IsPositive() {
		return nil, ErrInvalidOriginalPrice
	}

	// O geocoding acontece antes de tocar o repositório: a chamada externa
	// nunca segura o lock do armazenamento, e uma submissão rejeitada aqui
	// não consome ID.
	geocoded, err := s.geocoder.Resolve(ctx, input.ZipCode)
	if err != nil {
		return nil, fmt.Errorf("erro ao resolver o zip code: %w", err)
	}

	if geocoded == nil {
		return nil, ErrZipCodeNotResolved
	}

	location := input.Location
	if location == "" {
		location = geocoded.LocationLabel()
	}

	deal := &domain.Deal{
		StoreName:     input.StoreName,
		Product:       input.Product,
		Description:   input.Description,
		OriginalPrice: input.OriginalPrice,
		SalePrice:     input.SalePrice,
		Location:      location,
		ZipCode:       input.ZipCode,
		Latitude:      geocoded.Latitude,
		Longitude:     geocoded.Longitude,
	}

	created, err := s.repo.Create(deal)
	if err != nil {
		return nil, fmt.Errorf("erro ao salvar a oferta: %w", err)
	}

	return created, nil
}

func (s *Service) Get(_ context.Context, id int) (*domain.Deal, error) {
	deal, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar a oferta: %w", err)
	}

	// Expirada ou removida por denúncias é o mesmo que inexistente
	if deal == nil || !s.lifecycle.IsActive(deal, time.Now().UTC()) {
		return nil, ErrDealNotFound
	}

	return deal, nil
}

func (s *Service) Delete(_ context.Context, id int) error {
	deleted, err := s.repo.DeleteByID(id)
	if err != nil {
		return fmt.Errorf("erro ao remover a oferta: %w", err)
	}

	if !deleted {
		return ErrDealNotFound
	}

	return nil
}

func (s *Service) Upvote(_ context.Context, id int) (*domain.Deal, error) {
	deal, err := s.repo.IncrementUpvotes(id)
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar o voto: %w", err)
	}

	if deal == nil {
		return nil, ErrDealNotFound
	}

	return deal, nil
}

func (s *Service) Report(_ context.Context, id int) (*domain.ReportResult, error) {
	deal, err := s.repo.IncrementReports(id)
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar a denúncia: %w", err)
	}

	if deal == nil {
		return nil, ErrDealNotFound
	}

	return &domain.ReportResult{
		Reports: deal.Reports,
		Killed:  s.lifecycle.IsKilled(deal),
	}, nil
}

func (s *Service) Query(_ context.Context, opts QueryOptions) ([]*domain.DealWithDistance, error) {
	deals, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("erro ao listar as ofertas: %w", err)
	}

	// Filtrar antes de ordenar evita calcular distância de ofertas mortas
	active := s.lifecycle.FilterActive(deals, time.Now().UTC())

	var results []*domain.DealWithDistance
	if opts.Viewer != nil {
		radius := opts.RadiusMiles
		if radius <= 0 {
			radius = s.cfg.Deals.DefaultRadiusMiles
		}
		results = annotateWithDistance(active, *opts.Viewer, radius)
	} else {
		results = toResults(active)
	}

	sortResults(results, opts.Sort, opts.Viewer != nil)

	return results, nil
}
