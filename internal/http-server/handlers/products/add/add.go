package addProduct

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "pricetracker/internal/lib/api/response"
	sl "pricetracker/internal/lib/logger"
	"pricetracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	Name          string             `json:"name" validate:"required"`
	ArticleNumber string             `json:"articleNumber" validate:"required"`
	Marketplace   models.Marketplace `json:"marketplace" validate:"required,oneof=ozon wildberries"`
	ProductURL    string             `json:"productUrl" validate:"required,url"`
	CurrentPrice  int                `json:"currentPrice" validate:"gte=0"`
	TargetPrice   *int               `json:"targetPrice"`
	ImageURL      string             `json:"imageUrl"`
	Notifications *bool              `json:"notifications"`
}

type Response struct {
	resp.Response
	ID int64 `json:"id"`
}

type ProductSaver interface {
	SaveProduct(ctx context.Context, p models.Product) (int64, error)
}

func New(
	log *slog.Logger,
	productSaver ProductSaver,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.add.New"

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

		log.Info("Request body decoded")

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		// * уведомления включены, если клиент не прислал флаг
		notifications := true
		if req.Notifications != nil {
			notifications = *req.Notifications
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		productID, err := productSaver.SaveProduct(ctx, models.Product{
			Name:          req.Name,
			ArticleNumber: req.ArticleNumber,
			Marketplace:   req.Marketplace,
			ProductURL:    req.ProductURL,
			CurrentPrice:  req.CurrentPrice,
			TargetPrice:   req.TargetPrice,
			ImageURL:      req.ImageURL,
			Notifications: notifications,
		})
		if err != nil {
			log.Error("Failed to save product", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Product saved successfully", slog.Int64("product_id", productID))

		render.Status(r, http.StatusCreated)
		ResponseOK(w, r, productID)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, id int64) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		ID:       id,
	})
}
