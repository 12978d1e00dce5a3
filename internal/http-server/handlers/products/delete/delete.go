package deleteProduct

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "pricetracker/internal/lib/api/response"
	sl "pricetracker/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
}

type ProductsRemover interface {
	DeleteProduct(ctx context.Context, productID int64) error
}

func New(
	log *slog.Logger,
	productsRemover ProductsRemover,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		productID := parseProductID(r)
		if productID == -1 {
			log.Error("Missing or invalid id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Product ID is required"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		err := productsRemover.DeleteProduct(ctx, productID)
		if err != nil {
			log.Error("Failed to delete product",
				sl.Err(err),
				slog.Int64("product_id", productID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Product deleted successfully", slog.Int64("product_id", productID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

func parseProductID(r *http.Request) int64 {
	productIDStr := r.URL.Query().Get("id")
	if productIDStr == "" {
		return -1
	}

	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID < 0 {
		return -1
	}

	return productID
}
