package parseProduct

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pricetracker/internal/extractor"
	resp "pricetracker/internal/lib/api/response"
	sl "pricetracker/internal/lib/logger"
	"pricetracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	URL string `json:"url" validate:"required,url"`
}

type Response struct {
	Name          string             `json:"name"`
	ArticleNumber string             `json:"articleNumber"`
	Marketplace   models.Marketplace `json:"marketplace"`
	CurrentPrice  int                `json:"currentPrice"`
	ImageURL      string             `json:"imageUrl"`
	ProductURL    string             `json:"productUrl"`
}

type ProductExtractor interface {
	Extract(ctx context.Context, productURL string) (models.Product, error)
}

func New(
	log *slog.Logger,
	productExtractor ProductExtractor,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.parse.New"

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

		// * загрузка страницы может занять до таймаута extractor'а
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		product, err := productExtractor.Extract(ctx, req.URL)
		if err != nil {
			if errors.Is(err, extractor.ErrUnsupportedMarketplace) {
				log.Error("Unsupported marketplace", slog.String("url", req.URL))

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Unsupported marketplace. Only Ozon and Wildberries are supported."))

				return
			}

			log.Error("Failed to extract product", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid URL"))

			return
		}

		log.Info("Product extracted",
			slog.String("marketplace", string(product.Marketplace)),
			slog.String("article", product.ArticleNumber),
		)

		render.JSON(w, r, Response{
			Name:          product.Name,
			ArticleNumber: product.ArticleNumber,
			Marketplace:   product.Marketplace,
			CurrentPrice:  product.CurrentPrice,
			ImageURL:      product.ImageURL,
			ProductURL:    product.ProductURL,
		})
	}
}
