package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupmarket/internal/adapter/repository"
	"startupmarket/internal/domain/entity"
	"startupmarket/pkg/errors"
)

func newProductFixture(t *testing.T) (*ProductUseCase, *UserUseCase) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	products := repository.NewMemoryProductRepository()
	categories := repository.NewMemoryCategoryRepository()
	require.NoError(t, categories.Seed(context.Background(), entity.DefaultCategories()))

	userUC := NewUserUseCase(users)
	_, err := userUC.UpdateProfile(context.Background(), sellerID, UpdateProfileInput{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)

	return NewProductUseCase(products, users, categories), userUC
}

func validProductInput() CreateProductInput {
	return CreateProductInput{
		Name:      "Acme Analytics",
		Category:  "saas",
		Revenue:   decimal.NewFromInt(250000),
		AskValue:  decimal.NewFromInt(1000000),
		Profit:    decimal.NewFromInt(-5000),
		Documents: []string{"https://example.com/pitch.pdf"},
	}
}

func TestCreateProduct(t *testing.T) {
	uc, _ := newProductFixture(t)

	product, err := uc.CreateProduct(context.Background(), sellerID, validProductInput())
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, sellerID, product.SellerID)
	assert.True(t, product.IsActive)
	assert.True(t, product.Profit.Equal(decimal.NewFromInt(-5000)))
}

func TestCreateProductValidation(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	input := validProductInput()
	input.AskValue = decimal.Zero
	_, err := uc.CreateProduct(ctx, sellerID, input)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = uc.CreateProduct(ctx, "no-profile", validProductInput())
	assert.True(t, errors.Is(err, errors.CodeValidation))

	input = validProductInput()
	input.Category = "crypto"
	_, err = uc.CreateProduct(ctx, sellerID, input)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	input = validProductInput()
	input.Revenue = decimal.RequireFromString("1000.005")
	_, err = uc.CreateProduct(ctx, sellerID, input)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	input = validProductInput()
	input.AskValue = decimal.New(1, 18)
	_, err = uc.CreateProduct(ctx, sellerID, input)
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestListCategories(t *testing.T) {
	uc, _ := newProductFixture(t)

	categories, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, len(entity.DefaultCategories()))
	assert.Equal(t, "saas", categories[0].Value)
	assert.Equal(t, "other", categories[len(categories)-1].Value)
}

func TestDeactivateProduct(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, sellerID, validProductInput())
	require.NoError(t, err)

	err = uc.DeactivateProduct(ctx, product.ID, buyerID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	require.NoError(t, uc.DeactivateProduct(ctx, product.ID, sellerID))
	require.NoError(t, uc.DeactivateProduct(ctx, product.ID, sellerID))

	_, err = uc.GetProduct(ctx, product.ID, buyerID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	own, err := uc.GetProduct(ctx, product.ID, sellerID)
	require.NoError(t, err)
	assert.False(t, own.IsActive)

	active, total, err := uc.ListProducts(ctx, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, active)

	mine, total, err := uc.ListMyProducts(ctx, sellerID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, mine, 1)
}

func TestUpdateProfileKeepsCreatedAt(t *testing.T) {
	_, userUC := newProductFixture(t)
	ctx := context.Background()

	before, err := userUC.GetProfile(ctx, sellerID)
	require.NoError(t, err)

	updated, err := userUC.UpdateProfile(ctx, sellerID, UpdateProfileInput{Name: "Samantha", Email: "samantha@example.com", Phone: "123"})
	require.NoError(t, err)

	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Samantha", updated.Name)

	_, err = userUC.GetProfile(ctx, "unknown")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
