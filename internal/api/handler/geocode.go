package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam"
	"github.com/vfg2006/nicmap-api/pkg/apiErrors"
)

// GeocodeZipCode resolve um zip code em coordenadas e localidade. O frontend
// usa esse endpoint para posicionar o usuário no mapa antes de listar ofertas.
func GeocodeZipCode(geocoder zippopotam.Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zipCode := httprouter.ParamsFromContext(r.Context()).ByName("zipCode")
		if zipCode == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Zip code is required", nil)
			return
		}

		result, err := geocoder.Resolve(r.Context(), zipCode)
		if err != nil {
			logrus.WithError(err).Error("Erro ao resolver zip code")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error resolving zip code", nil)
			return
		}

		// Zip code desconhecido e serviço externo indisponível são
		// indistinguíveis aqui: os dois respondem 404
		if result == nil {
			apiErrors.WriteError(w, apiErrors.ErrZipCodeNotFound, "Zip code not found", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta do geocoding")
		}
	}
}
