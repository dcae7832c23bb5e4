// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal representa uma oferta publicada pela comunidade
type Deal struct {
	ID            int              `json:"id"`
	StoreName     string           `json:"storeName"`
	Product       string           `json:"product"`
	Description   string           `json:"description"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	SalePrice     decimal.Decimal  `json:"salePrice"`
	Location      string           `json:"location"` // Formato "Cidade, UF" (ex: Austin, TX)
	ZipCode       string           `json:"zipCode"`
	Latitude      float64          `json:"latitude"`
	Longitude     float64          `json:"longitude"`
	CreatedAt     time.Time        `json:"createdAt"`
	ExpiresAt     time.Time        `json:"expiresAt"`
	Upvotes       int              `json:"upvotes"`
	Reports       int              `json:"reports"`
}

// HasCoordinates retorna verdadeiro quando a oferta possui coordenadas válidas.
// Coordenadas (0, 0) são tratadas como ausentes: ofertas criadas pela API sempre
// passam pelo geocoding, então esse ponto nunca ocorre legitimamente.
func (d *Deal) HasCoordinates() bool {
	return d.Latitude != 0 || d.Longitude != 0
}

// SavingsPercent calcula o percentual de desconto em relação ao preço original.
// Retorna falso quando não há preço original ou quando a oferta não representa
// economia real (preço promocional maior ou igual ao original).
func (d *Deal) SavingsPercent() (float64, bool) {
	if d.OriginalPrice == nil || !d.OriginalPrice.IsPositive() {
		return 0, false
	}

	if d.SalePrice.GreaterThanOrEqual(*d.OriginalPrice) {
		return 0, false
	}

	savings := d.OriginalPrice.Sub(d.SalePrice).
		Div(*d.OriginalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	pct, _ := savings.Float64()
	return pct, true
}

// DealWithDistance é o elemento de resposta das consultas de listagem.
// O campo Distance só é preenchido quando a consulta informou a localização
// do usuário; SavingsPercent só quando a oferta tem desconto real.
type DealWithDistance struct {
	Deal
	Distance       *float64 `json:"distance,omitempty"` // Milhas a partir do usuário
	SavingsPercent *float64 `json:"savingsPercent,omitempty"`
}

// Coordinates representa um par latitude/longitude em graus decimais (WGS 84)
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportResult é o resultado de uma denúncia de oferta expirada
type ReportResult struct {
	Reports int  `json:"reports"`
	Killed  bool `json:"killed"`
}
