package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/nicmap-api/infrastructure/database/postgres"
	"github.com/vfg2006/nicmap-api/internal/domain"
)

const dealsTable = "deals"

var dealColumns = []string{
	"id",
	"store_name",
	"product",
	"description",
	"original_price",
	"sale_price",
	"location",
	"zip_code",
	"latitude",
	"longitude",
	"created_at",
	"expires_at",
	"upvotes",
	"reports",
}

// postgresDealRepository é a variante opcional do repositório de ofertas com
// persistência em Postgres. Implementa o mesmo contrato do repositório em
// memória; a atomicidade de ID e inserção vem do SERIAL do banco.
type postgresDealRepository struct {
	conn   *postgres.Connection
	window time.Duration
}

// NewPostgresDealRepository cria um repositório de ofertas com persistência em Postgres
func NewPostgresDealRepository(conn *postgres.Connection, window time.Duration) DealRepository {
	return &postgresDealRepository{
		conn:   conn,
		window: window,
	}
}

func (r *postgresDealRepository) Create(deal *domain.Deal) (*domain.Deal, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(r.window)

	var originalPrice decimal.NullDecimal
	if deal.OriginalPrice != nil {
		originalPrice = decimal.NullDecimal{Decimal: *deal.OriginalPrice, Valid: true}
	}

	sqlQuery, args, err := squirrel.
		Insert(dealsTable).
		Columns(
			"store_name", "product", "description", "original_price", "sale_price",
			"location", "zip_code", "latitude", "longitude",
			"created_at", "expires_at", "upvotes", "reports",
		).
		Values(
			deal.StoreName, deal.Product, deal.Description, originalPrice, deal.SalePrice,
			deal.Location, deal.ZipCode, deal.Latitude, deal.Longitude,
			now, expiresAt, 0, 0,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de inserção de oferta")
	}

	created := cloneDeal(deal)
	created.CreatedAt = now
	created.ExpiresAt = expiresAt
	created.Upvotes = 0
	created.Reports = 0

	row := r.conn.QueryRowContext(context.Background(), sqlQuery, args...)
	if err := row.Scan(&created.ID); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir oferta")
	}

	return created, nil
}

func (r *postgresDealRepository) GetByID(id int) (*domain.Deal, error) {
	sqlQuery, args, err := squirrel.
		Select(dealColumns...).
		From(dealsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de busca de oferta")
	}

	row := r.conn.QueryRowContext(context.Background(), sqlQuery, args...)

	deal, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar oferta")
	}

	return deal, nil
}

func (r *postgresDealRepository) DeleteByID(id int) (bool, error) {
	sqlQuery, args, err := squirrel.
		Delete(dealsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "erro ao construir a query de remoção de oferta")
	}

	result, err := r.conn.ExecContext(context.Background(), sqlQuery, args...)
	if err != nil {
		return false, errors.Wrap(err, "erro ao remover oferta")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "erro ao verificar remoção de oferta")
	}

	return affected > 0, nil
}

func (r *postgresDealRepository) IncrementUpvotes(id int) (*domain.Deal, error) {
	return r.incrementCounter(id, "upvotes")
}

func (r *postgresDealRepository) IncrementReports(id int) (*domain.Deal, error) {
	return r.incrementCounter(id, "reports")
}

func (r *postgresDealRepository) incrementCounter(id int, column string) (*domain.Deal, error) {
	sqlQuery, args, err := squirrel.
		Update(dealsTable).
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de incremento")
	}

	row := r.conn.QueryRowContext(context.Background(), sqlQuery, args...)

	deal, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao incrementar %s", column)
	}

	return deal, nil
}

func (r *postgresDealRepository) List() ([]*domain.Deal, error) {
	sqlQuery, args, err := squirrel.
		Select(dealColumns...).
		From(dealsTable).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de listagem de ofertas")
	}

	rows, err := r.conn.QueryContext(context.Background(), sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar ofertas")
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao ler oferta da listagem")
		}
		deals = append(deals, deal)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro ao percorrer as ofertas")
	}

	return deals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*domain.Deal, error) {
	var deal domain.Deal
	var originalPrice decimal.NullDecimal

	err := row.Scan(
		&deal.ID,
		&deal.StoreName,
		&deal.Product,
		&deal.Description,
		&originalPrice,
		&deal.SalePrice,
		&deal.Location,
		&deal.ZipCode,
		&deal.Latitude,
		&deal.Longitude,
		&deal.CreatedAt,
		&deal.ExpiresAt,
		&deal.Upvotes,
		&deal.Reports,
	)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		deal.OriginalPrice = &originalPrice.Decimal
	}

	return &deal, nil
}

func joinColumns() string {
	joined := dealColumns[0]
	for _, column := range dealColumns[1:] {
		joined += ", " + column
	}
	return joined
}
