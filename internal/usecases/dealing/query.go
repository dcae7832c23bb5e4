package dealing

import (
	"sort"

	"github.com/vfg2006/nicmap-api/internal/domain"
	"github.com/vfg2006/nicmap-api/pkg/geo"
	"github.com/vfg2006/nicmap-api/pkg/utils"
)

// SortMode define a ordenação das listagens de ofertas
type SortMode string

const (
	// SortDistance ordena por distância crescente; sem localização do usuário
	// cai para SortRecent. É o modo padrão.
	SortDistance SortMode = "distance"
	// SortPopular ordena por upvotes decrescentes
	SortPopular SortMode = "popular"
	// SortRecent ordena por data de criação decrescente
	SortRecent SortMode = "recent"
)

// ParseSortMode interpreta o parâmetro de ordenação vindo da API.
// String vazia resolve para o modo padrão; valores desconhecidos retornam falso.
func ParseSortMode(raw string) (SortMode, bool) {
	switch SortMode(raw) {
	case "":
		return SortDistance, true
	case SortDistance, SortPopular, SortRecent:
		return SortMode(raw), true
	default:
		return "", false
	}
}

// QueryOptions são os parâmetros de uma consulta de listagem
type QueryOptions struct {
	Viewer      *domain.Coordinates // Localização do usuário (opcional)
	RadiusMiles float64             // Raio máximo em milhas; <= 0 usa o padrão configurado
	Sort        SortMode
}

// annotateWithDistance calcula a distância do usuário até cada oferta e
// descarta ofertas sem coordenadas ou fora do raio. A distância anotada é
// arredondada para exibição, mas o corte de raio usa o valor exato.
func annotateWithDistance(deals []*domain.Deal, viewer domain.Coordinates, radiusMiles float64) []*domain.DealWithDistance {
	results := make([]*domain.DealWithDistance, 0, len(deals))

	for _, deal := range deals {
		if !deal.HasCoordinates() {
			continue
		}

		distance := geo.Distance(viewer.Latitude, viewer.Longitude, deal.Latitude, deal.Longitude)
		if distance > radiusMiles {
			continue
		}

		result := newResult(deal)
		rounded := utils.RoundWithTwoDecimalPlace(distance)
		result.Distance = &rounded
		results = append(results, result)
	}

	return results
}

func toResults(deals []*domain.Deal) []*domain.DealWithDistance {
	results := make([]*domain.DealWithDistance, 0, len(deals))
	for _, deal := range deals {
		results = append(results, newResult(deal))
	}
	return results
}

func newResult(deal *domain.Deal) *domain.DealWithDistance {
	result := &domain.DealWithDistance{Deal: *deal}
	if pct, ok := deal.SavingsPercent(); ok {
		result.SavingsPercent = &pct
	}
	return result
}

// sortResults ordena a listagem conforme o modo pedido. Todas as ordenações
// são estáveis: empates preservam a ordem relativa original (ordem de
// inserção no repositório).
func sortResults(results []*domain.DealWithDistance, mode SortMode, hasViewer bool) {
	switch {
	case mode == SortPopular:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Upvotes > results[j].Upvotes
		})
	case mode == SortDistance && hasViewer:
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].Distance < *results[j].Distance
		})
	default:
		// SortRecent explícito, ou SortDistance sem localização do usuário
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		})
	}
}
