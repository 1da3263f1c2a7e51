package postgres

import (
	"context"
	"errors"
	"fmt"

	"boostshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductsStore struct {
	pool *pgxpool.Pool
}

func NewProductsStore(pool *pgxpool.Pool) *ProductsStore {
	return &ProductsStore{pool: pool}
}

func (s *ProductsStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, created_at
		FROM products
		ORDER BY created_at, name
	`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *ProductsStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, created_at
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *ProductsStore) GetProductByName(ctx context.Context, name string) (domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, created_at
		FROM products
		WHERE name = $1
	`

	p, err := scanProduct(s.pool.QueryRow(ctx, q, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

func (s *ProductsStore) CreateProduct(ctx context.Context, name, description string, price float64, category string) (domain.Product, error) {
	const q = `
		INSERT INTO products (name, description, price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, price, category, created_at
	`

	p, err := scanProduct(s.pool.QueryRow(ctx, q, name, description, price, category))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return domain.Product{}, domain.ErrProductExists
		}
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// CreateProducts inserts a batch in one round trip and returns the stored
// rows. Used by the seeding endpoints.
func (s *ProductsStore) CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	const q = `
		INSERT INTO products (name, description, price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, price, category, created_at
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(q, p.Name, p.Description, p.Price, p.Category)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.Product, 0, len(products))
	for range products {
		p, err := scanProduct(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("create products: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ProductsStore) DeleteAllProducts(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		idUUID pgtype.UUID
	)
	err := row.Scan(
		&idUUID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = uuidOrEmpty(idUUID)
	return p, nil
}
