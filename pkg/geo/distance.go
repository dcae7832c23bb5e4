// Package geo implementa os cálculos geográficos usados nas consultas por proximidade
package geo

import "math"

// EarthRadiusMiles é o raio médio da Terra em milhas
const EarthRadiusMiles = 3959.0

// Distance calcula a distância de grande círculo entre dois pontos em milhas,
// usando a fórmula de haversine. A função é pura e determinística; coordenadas
// não finitas produzem NaN, então o chamador deve garantir que os dois pontos
// possuem coordenadas válidas.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
