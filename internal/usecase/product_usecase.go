package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/domain/repository"
	"startupmarket/pkg/errors"
	"startupmarket/pkg/logger"
	"startupmarket/pkg/utils"
)

type ProductUseCase struct {
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"required,max=64"`
	Location    string          `json:"location" validate:"max=200"`
	Revenue     decimal.Decimal `json:"revenue"`
	AskValue    decimal.Decimal `json:"ask_value"`
	Profit      decimal.Decimal `json:"profit"`
	Image       string          `json:"image"`
	Documents   []string        `json:"documents" validate:"max=20"`
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Validation("Complete your profile before listing a product")
		}
		return nil, err
	}

	if _, err := uc.categoryRepo.GetByValue(ctx, input.Category); err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Validation("Unknown category " + input.Category)
		}
		return nil, err
	}

	documents := input.Documents
	if documents == nil {
		documents = []string{}
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Revenue:     input.Revenue,
		AskValue:    input.AskValue,
		Profit:      input.Profit,
		Image:       input.Image,
		Documents:   documents,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product %s listed by %s", product.ID, sellerID)
	return product, nil
}

func (uc *ProductUseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.List(ctx)
}

// GetProduct hides inactive listings from everyone except their owner.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id, requesterID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.IsActive && product.SellerID != requesterID {
		return nil, errors.NotFound("Product", nil)
	}

	return product, nil
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, page, pageSize int) ([]*entity.Product, int64, error) {
	pagination := utils.NewPaginationParams(page, pageSize)
	return uc.productRepo.ListActive(ctx, pagination.PageSize, pagination.Offset)
}

func (uc *ProductUseCase) ListMyProducts(ctx context.Context, sellerID string, page, pageSize int) ([]*entity.Product, int64, error) {
	pagination := utils.NewPaginationParams(page, pageSize)
	return uc.productRepo.ListBySellerID(ctx, sellerID, pagination.PageSize, pagination.Offset)
}

// DeactivateProduct withdraws a listing. Non-owners get NotFound.
func (uc *ProductUseCase) DeactivateProduct(ctx context.Context, id, sellerID string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return errors.NotFound("Product", nil)
	}

	if !product.IsActive {
		return nil
	}

	if err := uc.productRepo.SetActive(ctx, id, false); err != nil {
		return err
	}

	logger.Info("Product %s deactivated by %s", id, sellerID)
	return nil
}
