package dealing

import "errors"

// Erros específicos para o contexto de ofertas. Todos são terminais para a
// requisição que os disparou: nenhum deles dispara retry interno.
var (
	// Erros de validação — corrigíveis pelo chamador
	ErrMissingRequiredFields = errors.New("storeName, product, salePrice and zipCode are required")
	ErrInvalidSalePrice      = errors.New("salePrice must be greater than zero")
	ErrInvalidOriginalPrice  = errors.New("originalPrice must be greater than zero when provided")

	// Erro de geocoding — o zip code estava presente mas não foi resolvido.
	// Falhas do serviço externo também caem aqui (simplificação deliberada).
	ErrZipCodeNotResolved = errors.New("zip code could not be resolved")

	// Erro de referência — ID inexistente ou oferta fora das visões normais
	ErrDealNotFound = errors.New("deal not found")
)
