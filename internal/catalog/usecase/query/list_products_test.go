package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/parfum-storefront/internal/catalog"
	"github.com/tair/parfum-storefront/internal/catalog/domain"
	"github.com/tair/parfum-storefront/pkg/api"
)

type listerFunc func(ctx context.Context, q domain.ListQuery) ([]domain.Product, domain.Pagination, error)

func (f listerFunc) ListProducts(ctx context.Context, q domain.ListQuery) ([]domain.Product, domain.Pagination, error) {
	return f(ctx, q)
}

func failingLister(err error) ProductLister {
	return listerFunc(func(context.Context, domain.ListQuery) ([]domain.Product, domain.Pagination, error) {
		return nil, domain.Pagination{}, err
	})
}

func TestListProducts_RemoteSuccess(t *testing.T) {
	remote := listerFunc(func(_ context.Context, q domain.ListQuery) ([]domain.Product, domain.Pagination, error) {
		assert.Equal(t, 1, q.Page, "query should be normalized before the remote call")
		return []domain.Product{{ID: "p1", Name: "Aventus"}},
			domain.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, nil
	})

	handler := NewListProductsHandler(remote, catalog.StaticCatalog)

	result, err := handler.Handle(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, result.Source)
	assert.Empty(t, result.RemoteErr)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "p1", result.Products[0].ID)
}

func TestListProducts_NetworkFailureFallsBack(t *testing.T) {
	handler := NewListProductsHandler(failingLister(errors.New("connection refused")), catalog.StaticCatalog)

	result, err := handler.Handle(context.Background(), domain.ListQuery{Search: "chanel"})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Contains(t, result.RemoteErr, "connection refused")

	require.Len(t, result.Products, 2, "static catalog has two Chanel products")
	assert.Equal(t, 1, result.Pagination.TotalPages)
}

func TestListProducts_ServerErrorFallsBack(t *testing.T) {
	apiErr := &api.Error{Status: 503, Message: "upstream unavailable"}
	handler := NewListProductsHandler(failingLister(apiErr), catalog.StaticCatalog)

	result, err := handler.Handle(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	assert.NotEmpty(t, result.Products)
}

func TestListProducts_ClientErrorSurfaces(t *testing.T) {
	apiErr := &api.Error{Status: 422, Message: "invalid filter"}
	handler := NewListProductsHandler(failingLister(apiErr), catalog.StaticCatalog)

	result, err := handler.Handle(context.Background(), domain.ListQuery{})
	assert.Nil(t, result)

	var got *api.Error
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 422, got.Status)
}

func TestListProducts_CanceledContextDoesNotFallBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := listerFunc(func(ctx context.Context, _ domain.ListQuery) ([]domain.Product, domain.Pagination, error) {
		cancel()
		return nil, domain.Pagination{}, ctx.Err()
	})

	handler := NewListProductsHandler(remote, catalog.StaticCatalog)

	result, err := handler.Handle(ctx, domain.ListQuery{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListProducts_FallbackPaginationMatchesPageSize(t *testing.T) {
	handler := NewListProductsHandler(failingLister(errors.New("down")), catalog.StaticCatalog)

	result, err := handler.Handle(context.Background(), domain.ListQuery{})
	require.NoError(t, err)

	want := (len(catalog.StaticCatalog) + domain.PageSize - 1) / domain.PageSize
	assert.Equal(t, want, result.Pagination.TotalPages)
	assert.Equal(t, len(catalog.StaticCatalog), result.Pagination.Total)
}
