package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alluringfresh/alluring-backend/pkg/enums"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
)

func newCatalogService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ProductRepo: NewRepository(setupProductsTestDB(t))})
	require.NoError(t, err)
	return svc
}

func validCreateDTO() CreateProductDTO {
	return CreateProductDTO{
		Name:          "Mango Chunks",
		Price:         decimal.RequireFromString("3.99"),
		Category:      enums.ProductCategoryCutFruit,
		StockQuantity: 10,
		HealthRating:  5,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateProductDTO)
	}{
		{"blank name", func(dto *CreateProductDTO) { dto.Name = "   " }},
		{"unknown category", func(dto *CreateProductDTO) { dto.Category = "frozen_pizza" }},
		{"zero price", func(dto *CreateProductDTO) { dto.Price = decimal.Zero }},
		{"negative stock", func(dto *CreateProductDTO) { dto.StockQuantity = -1 }},
		{"health rating too high", func(dto *CreateProductDTO) { dto.HealthRating = 6 }},
		{"health rating too low", func(dto *CreateProductDTO) { dto.HealthRating = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := validCreateDTO()
			tc.mutate(&dto)

			_, err := svc.Create(ctx, dto)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc := newCatalogService(t)

	created, err := svc.Create(context.Background(), validCreateDTO())
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.True(t, created.InStock)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestUpdateValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	blank := "  "
	_, err := svc.Update(ctx, uuid.New(), UpdateProductDTO{Name: &blank})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badRating := 9
	_, err = svc.Update(ctx, uuid.New(), UpdateProductDTO{HealthRating: &badRating})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Update(ctx, uuid.Nil, UpdateProductDTO{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

type stubImageRemover struct {
	removed   []string
	removeErr error
}

func (s *stubImageRemover) RemoveImage(_ context.Context, imageURL string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, imageURL)
	return nil
}

func TestDeleteRemovesProductImage(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	images := &stubImageRemover{}
	svc, err := NewService(ServiceParams{ProductRepo: NewRepository(db), Images: images})
	require.NoError(t, err)

	dto := validCreateDTO()
	imageURL := "https://storage.googleapis.com/bucket/products/mango.jpg"
	dto.ImageURL = &imageURL
	created, err := svc.Create(ctx, dto)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, []string{imageURL}, images.removed)
}

func TestDeleteSurvivesImageCleanupFailure(t *testing.T) {
	ctx := context.Background()
	db := setupProductsTestDB(t)
	images := &stubImageRemover{removeErr: errors.New("object store down")}
	svc, err := NewService(ServiceParams{ProductRepo: NewRepository(db), Images: images})
	require.NoError(t, err)

	dto := validCreateDTO()
	imageURL := "https://storage.googleapis.com/bucket/products/mango.jpg"
	dto.ImageURL = &imageURL
	created, err := svc.Create(ctx, dto)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetUnknownProduct(t *testing.T) {
	svc := newCatalogService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListRejectsInvalidCategory(t *testing.T) {
	svc := newCatalogService(t)

	bogus := enums.ProductCategory("frozen_pizza")
	_, err := svc.List(context.Background(), ListFilter{Category: &bogus}, "", 10)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
