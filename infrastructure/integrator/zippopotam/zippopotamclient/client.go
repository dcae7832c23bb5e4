// Package zippopotamclient implementa o cliente HTTP da API pública Zippopotam
// (api.zippopotam.us), usada para resolver zip codes em coordenadas.
package zippopotamclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/nicmap-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	GetPlaces(ctx context.Context, zipCode string) (*PlacesResponse, error)
}

type ZippopotamClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient cria uma nova instância do cliente Zippopotam
func NewClient(cfg *config.Config) Client {
	return &ZippopotamClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Zippopotam.TimeoutSeconds) * time.Second,
		},
		config: cfg,
	}
}

// Place é um lugar associado ao zip code consultado. Latitude e longitude
// chegam como strings no payload da API.
type Place struct {
	PlaceName         string `json:"place name"`
	State             string `json:"state"`
	StateAbbreviation string `json:"state abbreviation"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`
}

type PlacesResponse struct {
	PostCode            string  `json:"post code"`
	Country             string  `json:"country"`
	CountryAbbreviation string  `json:"country abbreviation"`
	Places              []Place `json:"places"`
}

// GetPlaces consulta os lugares associados a um zip code no país configurado
func (c *ZippopotamClient) GetPlaces(ctx context.Context, zipCode string) (*PlacesResponse, error) {
	// Construir a URL da requisição.
	endpoint, err := url.Parse(c.config.Zippopotam.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, c.config.Zippopotam.Country, zipCode)

	// Criar a requisição HTTP.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	// Executar a requisição.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	// A API retorna 404 para zip codes desconhecidos.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	// Decodificar a resposta JSON.
	var response PlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return &response, nil
}
