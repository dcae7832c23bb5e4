// Package zippopotam expõe o geocoding de zip codes para o restante da aplicação
package zippopotam

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam/zippopotamclient"
	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/domain"
	"github.com/vfg2006/nicmap-api/pkg/utils"
)

// Geocoder resolve um zip code em coordenadas e localidade.
//
// Resolve retorna (nil, nil) quando o zip code não pôde ser resolvido, seja
// porque ele não existe, seja por falha do serviço externo (rede, status de
// erro, payload malformado). O chamador não consegue distinguir os dois casos;
// os dois significam "não é possível posicionar essa oferta no mapa".
type Geocoder interface {
	Resolve(ctx context.Context, zipCode string) (*domain.GeocodeResult, error)
}

type Service struct {
	cfg    *config.Config
	client zippopotamclient.Client
}

func New(cfg *config.Config, client zippopotamclient.Client) Geocoder {
	return &Service{
		cfg:    cfg,
		client: client,
	}
}

// Resolve consulta o Zippopotam e converte o primeiro lugar retornado.
// Sem cache e sem retry: cada chamada é uma ida ao serviço externo.
func (s *Service) Resolve(ctx context.Context, zipCode string) (*domain.GeocodeResult, error) {
	response, err := s.client.GetPlaces(ctx, zipCode)
	if err != nil {
		// Falhas do serviço externo são absorvidas e viram "não encontrado"
		logrus.WithError(err).WithField("zip_code", zipCode).Warn("Falha ao consultar o Zippopotam")
		return nil, nil
	}

	if len(response.Places) == 0 {
		logrus.WithField("zip_code", zipCode).Debug("Zippopotam não retornou lugares para o zip code")
		return nil, nil
	}

	logrus.Debug("Resposta do Zippopotam: ", utils.PrettyJson(response))

	place := response.Places[0]

	latitude, err := strconv.ParseFloat(place.Latitude, 64)
	if err != nil {
		logrus.WithError(err).WithField("zip_code", zipCode).Warn("Latitude inválida na resposta do Zippopotam")
		return nil, nil
	}

	longitude, err := strconv.ParseFloat(place.Longitude, 64)
	if err != nil {
		logrus.WithError(err).WithField("zip_code", zipCode).Warn("Longitude inválida na resposta do Zippopotam")
		return nil, nil
	}

	return &domain.GeocodeResult{
		Latitude:  latitude,
		Longitude: longitude,
		City:      place.PlaceName,
		State:     place.StateAbbreviation,
	}, nil
}
