package service

import (
	"context"

	"github.com/Galih-Arno/aplikasi-kasir/internal/dto"
	"github.com/Galih-Arno/aplikasi-kasir/internal/model"
	"github.com/Galih-Arno/aplikasi-kasir/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CatalogService defines the business logic contract for products.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewCatalogService(repo repository.ProductRepository, rdb *redis.Client) CatalogService {
	return &catalogService{repo: repo, rdb: rdb}
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Barcode:  req.Barcode,
		Category: req.Category,
		Active:   true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ReferenceError{Entity: "product", ID: id.String()}
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ReferenceError{Entity: "product", ID: id.String()}
	}

	// Price edits only affect future sales: recorded lines carry their own
	// frozen copy of the unit price.
	p.Name = req.Name
	p.Price = req.Price
	p.Stock = req.Stock
	p.Category = req.Category

	oldBarcode := p.Barcode
	p.Barcode = req.Barcode

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidatePriceCache(ctx, oldBarcode)
	s.invalidatePriceCache(ctx, p.Barcode)

	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &ReferenceError{Entity: "product", ID: id.String()}
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return nil
}

func (s *catalogService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

// invalidatePriceCache drops the cached price-check entry for a barcode.
// Best effort: a stale entry expires on its own TTL anyway.
func (s *catalogService) invalidatePriceCache(ctx context.Context, barcode *string) {
	if s.rdb == nil || barcode == nil || *barcode == "" {
		return
	}
	_ = s.rdb.Del(ctx, "price:"+*barcode).Err()
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		Barcode:  p.Barcode,
		Category: p.Category,
		Active:   p.Active,
	}
}
