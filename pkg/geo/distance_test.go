package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "Mesmo ponto - distância zero",
			lat1:      30.2672,
			lon1:      -97.7431,
			lat2:      30.2672,
			lon2:      -97.7431,
			expected:  0,
			tolerance: 1e-9,
		},
		{
			name: "Austin para Dallas - aproximadamente 182 milhas",
			lat1: 30.2672, lon1: -97.7431,
			lat2: 32.7767, lon2: -96.7970,
			expected:  182,
			tolerance: 3,
		},
		{
			name: "Nova York para Los Angeles - aproximadamente 2445 milhas",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			expected:  2445,
			tolerance: 10,
		},
		{
			name: "Pontos próximos - menos de 1 milha",
			lat1: 30.2672, lon1: -97.7431,
			lat2: 30.2700, lon2: -97.7440,
			expected:  0.2,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)

			assert.False(t, math.IsNaN(got))
			assert.GreaterOrEqual(t, got, 0.0)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	// distance(A, B) deve ser igual a distance(B, A)
	ab := Distance(30.2672, -97.7431, 32.7767, -96.7970)
	ba := Distance(32.7767, -96.7970, 30.2672, -97.7431)

	assert.InDelta(t, ab, ba, 1e-9)
}
