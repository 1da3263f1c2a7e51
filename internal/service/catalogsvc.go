package service

import (
	"context"
	"errors"
	"strings"

	"boostshop/internal/domain"
)

type ProductsStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetProductByName(ctx context.Context, name string) (domain.Product, error)
	CreateProduct(ctx context.Context, name, description string, price float64, category string) (domain.Product, error)
	CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error)
	DeleteAllProducts(ctx context.Context) error
}

type CatalogService struct {
	Products ProductsStore
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.ListProducts(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Products.GetProduct(ctx, id)
}

// Add creates a product unless one with the same name already exists.
func (s *CatalogService) Add(ctx context.Context, name, description string, price float64, category string) (domain.Product, error) {
	name = strings.TrimSpace(name)

	_, err := s.Products.GetProductByName(ctx, name)
	if err == nil {
		return domain.Product{}, domain.ErrProductExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, err
	}

	return s.Products.CreateProduct(ctx, name, description, price, category)
}

// Reset empties the catalog so a fresh seed starts from scratch.
func (s *CatalogService) Reset(ctx context.Context) error {
	return s.Products.DeleteAllProducts(ctx)
}

// Seed inserts the stock boost offerings.
func (s *CatalogService) Seed(ctx context.Context) ([]domain.Product, error) {
	return s.Products.CreateProducts(ctx, []domain.Product{
		{Name: "Starter Boost", Description: "Rank Bronze to Silver", Price: 14.99, Category: "boost"},
		{Name: "Elite Boost", Description: "Rank Platinum to Diamond", Price: 49.99, Category: "boost"},
		{Name: "Custom Boost", Description: "Orice rank la cerere", Price: 0, Category: "boost"},
	})
}

// SeedPlans inserts the premium plan tier used by the marketing pages.
func (s *CatalogService) SeedPlans(ctx context.Context) ([]domain.Product, error) {
	return s.Products.CreateProducts(ctx, []domain.Product{
		{Name: "Starter Boost Plan", Description: "Boost rapid până la Silver", Price: 12, Category: "boost"},
		{Name: "Elite Boost Plan", Description: "Boost până la Diamond + DuoQ", Price: 39, Category: "boost"},
		{Name: "Legend Boost Plan", Description: "Boost până la Top Rank + Coaching 1:1", Price: 79, Category: "boost"},
	})
}
