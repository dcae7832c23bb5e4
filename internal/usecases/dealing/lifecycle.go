package dealing

import (
	"time"

	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/domain"
)

// Lifecycle avalia a situação de uma oferta em um dado instante. A situação
// nunca é persistida: ela é sempre função pura de (now, createdAt, reports),
// recalculada a cada leitura. Uma oferta pode estar expirada e removida por
// denúncias ao mesmo tempo; qualquer uma das condições basta para tirá-la
// das visões normais.
type Lifecycle struct {
	Window          time.Duration // Janela de validade a partir da criação
	ReportThreshold int           // Denúncias necessárias para remover a oferta
}

func NewLifecycle(cfg config.Deals) Lifecycle {
	return Lifecycle{
		Window:          cfg.ExpirationWindow(),
		ReportThreshold: cfg.ReportKillThreshold,
	}
}

// IsExpired retorna verdadeiro quando a idade da oferta excede a janela de validade
func (l Lifecycle) IsExpired(deal *domain.Deal, now time.Time) bool {
	return now.Sub(deal.CreatedAt) > l.Window
}

// IsKilled retorna verdadeiro quando a oferta atingiu o limite de denúncias.
// A condição é irreversível: os contadores só incrementam.
func (l Lifecycle) IsKilled(deal *domain.Deal) bool {
	return deal.Reports >= l.ReportThreshold
}

// IsActive retorna verdadeiro quando a oferta ainda é elegível para exibição
func (l Lifecycle) IsActive(deal *domain.Deal, now time.Time) bool {
	return !l.IsExpired(deal, now) && !l.IsKilled(deal)
}

// FilterActive é o único filtro de vitalidade aplicado antes de qualquer
// filtragem de consulta. Preserva a ordem de entrada.
func (l Lifecycle) FilterActive(deals []*domain.Deal, now time.Time) []*domain.Deal {
	active := make([]*domain.Deal, 0, len(deals))
	for _, deal := range deals {
		if l.IsActive(deal, now) {
			active = append(active, deal)
		}
	}
	return active
}
