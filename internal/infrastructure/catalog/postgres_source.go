package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ceylonhoney/storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Expected table layout:
//
//	id text, name text, description text, type text, origin text,
//	color text, purity double precision, moisture double precision,
//	price double precision, discount double precision NULL,
//	best_seller boolean, images text[], position integer
const selectProductsSQL = `
	SELECT id, name, COALESCE(description, ''), COALESCE(type, ''), COALESCE(origin, ''),
	       COALESCE(color, ''), COALESCE(purity, 0), moisture,
	       price, discount, COALESCE(best_seller, false),
	       COALESCE(images, '{}'::text[])
	FROM %s
	ORDER BY position, id
`

// querier is the subset of pgxpool.Pool used by PostgresSource
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource loads the catalog from a PostgreSQL table
type PostgresSource struct {
	db    querier
	pool  *pgxpool.Pool
	query string
}

// NewPostgresSource connects to databaseURL and reads from table, which may
// be schema qualified ("catalog.products").
func NewPostgresSource(ctx context.Context, databaseURL, table string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", domain.ErrCatalogUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", domain.ErrCatalogUnavailable, err)
	}

	s := newPostgresSource(pool, table)
	s.pool = pool
	return s, nil
}

func newPostgresSource(db querier, table string) *PostgresSource {
	return &PostgresSource{
		db:    db,
		query: fmt.Sprintf(selectProductsSQL, quoteTable(table)),
	}
}

// Close releases the connection pool
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Fetch reads every product row in position order
func (s *PostgresSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrCatalogUnavailable, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrCatalogUnavailable, err)
	}

	return products, nil
}

// scanProduct maps one row of selectProductsSQL to a Product
func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	var moisture *float64

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.Origin,
		&p.QualityMetrics.Color, &p.QualityMetrics.Purity, &moisture,
		&p.Price, &p.Discount, &p.BestSeller,
		&p.Images,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if moisture != nil {
		p.QualityMetrics.Moisture = *moisture
	}
	return p, nil
}

// quoteTable quotes each part of a possibly schema-qualified table name
func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}
