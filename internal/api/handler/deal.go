package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/nicmap-api/internal/domain"
	"github.com/vfg2006/nicmap-api/internal/usecases/dealing"
	"github.com/vfg2006/nicmap-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ListDeals retorna as ofertas visíveis para o usuário, opcionalmente
// filtradas por proximidade e ordenadas conforme o parâmetro sort
func ListDeals(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		opts := dealing.QueryOptions{}

		// Localização do usuário: lat e lng andam juntos
		latStr := query.Get("lat")
		lngStr := query.Get("lng")
		if latStr != "" && lngStr != "" {
			lat, err := strconv.ParseFloat(latStr, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid latitude", nil)
				return
			}

			lng, err := strconv.ParseFloat(lngStr, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid longitude", nil)
				return
			}

			opts.Viewer = &domain.Coordinates{Latitude: lat, Longitude: lng}
		}

		if radiusStr := query.Get("radius"); radiusStr != "" {
			radius, err := strconv.ParseFloat(radiusStr, 64)
			if err != nil || radius <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid radius", nil)
				return
			}
			opts.RadiusMiles = radius
		}

		sortMode, ok := dealing.ParseSortMode(query.Get("sort"))
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid sort mode. Accepted values: distance, popular, recent", nil)
			return
		}
		opts.Sort = sortMode

		deals, err := service.Query(r.Context(), opts)
		if err != nil {
			logrus.WithError(err).Error("Erro ao consultar ofertas")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error fetching deals", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(deals); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta da listagem de ofertas")
		}
	}
}

// GetDeal retorna uma oferta pelo ID. Ofertas expiradas ou removidas por
// denúncias respondem 404 como se não existissem.
func GetDeal(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := dealIDFromRequest(w, r)
		if !ok {
			return
		}

		deal, err := service.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, dealing.ErrDealNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao buscar oferta")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error fetching deal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(deal); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta da oferta")
		}
	}
}

// CreateDeal cria uma nova oferta a partir da submissão do usuário
func CreateDeal(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateDeal")

		var input dealing.CreateDealInput

		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			logrus.WithError(err).Warn("Erro ao decodificar submissão de oferta")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request body", nil)
			return
		}

		deal, err := service.Create(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, dealing.ErrMissingRequiredFields):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData,
					"Missing required fields: storeName, product, salePrice, and zipCode are required", nil)
			case errors.Is(err, dealing.ErrInvalidSalePrice),
				errors.Is(err, dealing.ErrInvalidOriginalPrice):
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			case errors.Is(err, dealing.ErrZipCodeNotResolved):
				apiErrors.WriteError(w, apiErrors.ErrZipCodeUnresolvable,
					"Invalid zip code. Please enter a valid US zip code.", nil)
			default:
				logrus.WithError(err).Error("Erro ao criar oferta")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error creating deal", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(deal); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta de criação de oferta")
		}
	}
}

// DeleteDeal remove uma oferta incondicionalmente, em qualquer situação de ciclo de vida
func DeleteDeal(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := dealIDFromRequest(w, r)
		if !ok {
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			if errors.Is(err, dealing.ErrDealNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao remover oferta")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error deleting deal", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UpvoteDeal registra um voto na oferta. Chamadas repetidas continuam
// incrementando: não há supressão de votos duplicados.
func UpvoteDeal(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := dealIDFromRequest(w, r)
		if !ok {
			return
		}

		deal, err := service.Upvote(r.Context(), id)
		if err != nil {
			if errors.Is(err, dealing.ErrDealNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao registrar voto")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error upvoting deal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(deal); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta do voto")
		}
	}
}

// reportResponse é a resposta de uma denúncia de oferta expirada
type reportResponse struct {
	Message string `json:"message"`
	Reports int    `json:"reports"`
	Killed  bool   `json:"killed"`
}

// ReportDeal registra uma denúncia de oferta expirada e informa ao chamador,
// na mesma resposta, se a oferta atingiu o limite e saiu das listagens
func ReportDeal(service dealing.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := dealIDFromRequest(w, r)
		if !ok {
			return
		}

		result, err := service.Report(r.Context(), id)
		if err != nil {
			if errors.Is(err, dealing.ErrDealNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Deal not found", nil)
				return
			}

			logrus.WithError(err).Error("Erro ao registrar denúncia")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Error reporting deal", nil)
			return
		}

		response := reportResponse{
			Message: "Report submitted",
			Reports: result.Reports,
			Killed:  result.Killed,
		}
		if result.Killed {
			response.Message = "Deal has been removed due to reports"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta da denúncia")
		}
	}
}

// dealIDFromRequest extrai e valida o ID da oferta da URL. Quando inválido,
// escreve o erro na resposta e retorna falso.
func dealIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Deal ID is required", nil)
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid deal ID", nil)
		return 0, false
	}

	return id, true
}
