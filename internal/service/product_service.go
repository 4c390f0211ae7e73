package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// productCacheTTL bounds staleness of cached catalog reads. List entries are
// not enumerable for invalidation, so the TTL is the consistency window for
// admin edits.
const productCacheTTL = time.Minute

// ProductInput carries the fields of an admin product create/update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CategoryID  uint
}

// ProductService handles catalog reads and admin product management.
type ProductService interface {
	List(ctx context.Context, categoryID uint, limit, offset int) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, input ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cacheClient *cache.Client) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cacheClient,
	}
}

// List returns catalog products, optionally filtered by category, served
// from cache when possible.
func (s *productService) List(ctx context.Context, categoryID uint, limit, offset int) ([]model.Product, error) {
	key := fmt.Sprintf("products:%d:%d:%d", categoryID, limit, offset)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.List(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, key, data, productCacheTTL)
	}
	return products, nil
}

// Get returns a single product, served from cache when possible.
func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	key := productCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var product model.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, key, data, productCacheTTL)
	}
	return product, nil
}

// Create adds a product under an existing category. Admin use.
func (s *productService) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.productRepo.FindByID(ctx, product.ID)
}

// Update replaces the editable fields of a product. Admin use.
func (s *productService) Update(ctx context.Context, id uint, input ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.cache.Delete(ctx, productCacheKey(id))
	return s.productRepo.FindByID(ctx, id)
}

// Delete removes a product. Admin use. Existing order items keep their
// snapshot of the product's price.
func (s *productService) Delete(ctx context.Context, id uint) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	_ = s.cache.Delete(ctx, productCacheKey(id))
	return nil
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}
