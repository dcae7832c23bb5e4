// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"sync"
	"time"

	"github.com/vfg2006/nicmap-api/internal/domain"
)

// DealRepository é o contrato do armazenamento de ofertas. O repositório é
// puramente estrutural: nenhuma regra de expiração ou moderação é aplicada
// aqui, as listagens devolvem todas as ofertas em ordem de inserção.
type DealRepository interface {
	// Create atribui o próximo ID sequencial, carimba createdAt/expiresAt e
	// zera os contadores. A atribuição do ID e a inserção são um passo atômico.
	Create(deal *domain.Deal) (*domain.Deal, error)

	// GetByID retorna (nil, nil) quando a oferta não existe
	GetByID(id int) (*domain.Deal, error)

	// DeleteByID remove fisicamente a oferta. Retorna falso quando o ID não existe.
	DeleteByID(id int) (bool, error)

	// IncrementUpvotes e IncrementReports retornam a oferta já atualizada,
	// ou (nil, nil) quando o ID não existe
	IncrementUpvotes(id int) (*domain.Deal, error)
	IncrementReports(id int) (*domain.Deal, error)

	// List retorna todas as ofertas em ordem de inserção, sem filtragem
	List() ([]*domain.Deal, error)
}

// memoryDealRepository guarda as ofertas em memória. Todas as operações passam
// pelo mutex; as ofertas retornadas são sempre cópias, então os chamadores
// nunca compartilham memória com o repositório.
type memoryDealRepository struct {
	mu     sync.RWMutex
	deals  []*domain.Deal
	nextID int
	window time.Duration
}

// NewMemoryDealRepository cria um repositório de ofertas em memória.
// window é a janela de validade usada para carimbar expiresAt na criação.
func NewMemoryDealRepository(window time.Duration) DealRepository {
	return &memoryDealRepository{
		nextID: 1,
		window: window,
	}
}

func (r *memoryDealRepository) Create(deal *domain.Deal) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	stored := cloneDeal(deal)
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.ExpiresAt = now.Add(r.window)
	stored.Upvotes = 0
	stored.Reports = 0

	r.nextID++
	r.deals = append(r.deals, stored)

	return cloneDeal(stored), nil
}

func (r *memoryDealRepository) GetByID(id int) (*domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deal := r.findByID(id)
	if deal == nil {
		return nil, nil
	}

	return cloneDeal(deal), nil
}

func (r *memoryDealRepository) DeleteByID(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, deal := range r.deals {
		if deal.ID == id {
			r.deals = append(r.deals[:i], r.deals[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (r *memoryDealRepository) IncrementUpvotes(id int) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal := r.findByID(id)
	if deal == nil {
		return nil, nil
	}

	deal.Upvotes++
	return cloneDeal(deal), nil
}

func (r *memoryDealRepository) IncrementReports(id int) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deal := r.findByID(id)
	if deal == nil {
		return nil, nil
	}

	deal.Reports++
	return cloneDeal(deal), nil
}

func (r *memoryDealRepository) List() ([]*domain.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := make([]*domain.Deal, 0, len(r.deals))
	for _, deal := range r.deals {
		deals = append(deals, cloneDeal(deal))
	}

	return deals, nil
}

// findByID deve ser chamado com o mutex já adquirido
func (r *memoryDealRepository) findByID(id int) *domain.Deal {
	for _, deal := range r.deals {
		if deal.ID == id {
			return deal
		}
	}
	return nil
}

func cloneDeal(deal *domain.Deal) *domain.Deal {
	clone := *deal
	if deal.OriginalPrice != nil {
		price := *deal.OriginalPrice
		clone.OriginalPrice = &price
	}
	return &clone
}
