package getProducts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	getProducts "pricetracker/internal/http-server/handlers/products/get"
	"pricetracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductsGetter struct {
	mock.Mock
}

func (m *MockProductsGetter) Products(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetProducts_WithHistory(t *testing.T) {
	target := 3000
	getter := new(MockProductsGetter)
	getter.On("Products", mock.Anything).Return([]models.Product{
		{
			ID:            1,
			Name:          "Кроссовки",
			ArticleNumber: "123456789",
			Marketplace:   models.MarketplaceOzon,
			ProductURL:    "https://www.ozon.ru/product/krossovki-123456789/",
			CurrentPrice:  4990,
			TargetPrice:   &target,
			ImageURL:      "https://cdn1.ozone.ru/img.jpg",
			Notifications: true,
			PriceHistory: []models.PricePoint{
				{Date: "01.03", Price: 5200},
				{Date: "02.03", Price: 4990},
			},
		},
	}, nil)

	handler := getProducts.New(discardLogger(), getter)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)

	p := resp.Products[0]
	assert.Equal(t, int64(1), p.ID)
	require.NotNil(t, p.TargetPrice)
	assert.Equal(t, 3000, *p.TargetPrice)
	require.Len(t, p.PriceHistory, 2)
	assert.Equal(t, "01.03", p.PriceHistory[0].Date)
	assert.Equal(t, 5200, p.PriceHistory[0].Price)
}

// Пустой список отдаётся как [], а не null.
func TestGetProducts_Empty(t *testing.T) {
	getter := new(MockProductsGetter)
	getter.On("Products", mock.Anything).Return([]models.Product(nil), nil)

	handler := getProducts.New(discardLogger(), getter)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"products":[]}`, rr.Body.String())
}

func TestGetProducts_StorageError(t *testing.T) {
	getter := new(MockProductsGetter)
	getter.On("Products", mock.Anything).Return(nil, errors.New("pool closed"))

	handler := getProducts.New(discardLogger(), getter)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
