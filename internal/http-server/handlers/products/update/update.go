package updateProduct

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "pricetracker/internal/lib/api/response"
	sl "pricetracker/internal/lib/logger"
	"pricetracker/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	ID            int64 `json:"id" validate:"required,gt=0"`
	TargetPrice   *int  `json:"targetPrice"`
	Notifications *bool `json:"notifications"`
}

type Response struct {
	resp.Response
}

type ProductUpdater interface {
	UpdateProduct(ctx context.Context, productID int64, targetPrice *int, notifications *bool) error
}

func New(
	log *slog.Logger,
	productUpdater ProductUpdater,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // * 1 МБ лимит запроса
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		err = productUpdater.UpdateProduct(ctx, req.ID, req.TargetPrice, req.Notifications)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				log.Error("Product not found", slog.Int64("product_id", req.ID))

				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Product not found"))

				return
			}

			log.Error("Failed to update product", sl.Err(err), slog.Int64("product_id", req.ID))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Product updated successfully", slog.Int64("product_id", req.ID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}
