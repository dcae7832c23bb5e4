package domain

// GeocodeResult é o resultado da resolução de um zip code em coordenadas
type GeocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"` // Sigla do estado (ex: TX)
}

// LocationLabel monta o rótulo de localização exibido na oferta (ex: "Austin, TX")
func (g *GeocodeResult) LocationLabel() string {
	return g.City + ", " + g.State
}
