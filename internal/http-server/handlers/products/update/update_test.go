package updateProduct_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	updateProduct "pricetracker/internal/http-server/handlers/products/update"
	"pricetracker/internal/storage"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductUpdater struct {
	mock.Mock
}

func (m *MockProductUpdater) UpdateProduct(ctx context.Context, productID int64, targetPrice *int, notifications *bool) error {
	args := m.Called(ctx, productID, targetPrice, notifications)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpdateProduct_TargetPrice(t *testing.T) {
	updater := new(MockProductUpdater)
	updater.On("UpdateProduct", mock.Anything, int64(1),
		mock.MatchedBy(func(p *int) bool { return p != nil && *p == 999 }),
		(*bool)(nil),
	).Return(nil)

	handler := updateProduct.New(discardLogger(), updater, validator.New())

	req := httptest.NewRequest(http.MethodPut, "/products", bytes.NewReader([]byte(`{"id":1,"targetPrice":999}`)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)

	updater.AssertExpectations(t)
}

func TestUpdateProduct_Notifications(t *testing.T) {
	updater := new(MockProductUpdater)
	updater.On("UpdateProduct", mock.Anything, int64(5),
		(*int)(nil),
		mock.MatchedBy(func(n *bool) bool { return n != nil && !*n }),
	).Return(nil)

	handler := updateProduct.New(discardLogger(), updater, validator.New())

	req := httptest.NewRequest(http.MethodPut, "/products", bytes.NewReader([]byte(`{"id":5,"notifications":false}`)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	updater.AssertExpectations(t)
}

// Обновление несуществующего товара — 404, а не тихий no-op.
func TestUpdateProduct_NotFound(t *testing.T) {
	updater := new(MockProductUpdater)
	updater.On("UpdateProduct", mock.Anything, int64(404), mock.Anything, mock.Anything).
		Return(storage.ErrProductNotFound)

	handler := updateProduct.New(discardLogger(), updater, validator.New())

	req := httptest.NewRequest(http.MethodPut, "/products", bytes.NewReader([]byte(`{"id":404,"targetPrice":1}`)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestUpdateProduct_MissingID(t *testing.T) {
	updater := new(MockProductUpdater)
	handler := updateProduct.New(discardLogger(), updater, validator.New())

	req := httptest.NewRequest(http.MethodPut, "/products", bytes.NewReader([]byte(`{"targetPrice":999}`)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	updater.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProduct_StorageError(t *testing.T) {
	updater := new(MockProductUpdater)
	updater.On("UpdateProduct", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(errors.New("connection refused"))

	handler := updateProduct.New(discardLogger(), updater, validator.New())

	req := httptest.NewRequest(http.MethodPut, "/products", bytes.NewReader([]byte(`{"id":1,"targetPrice":1}`)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
