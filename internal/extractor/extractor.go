package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sl "pricetracker/internal/lib/logger"
	"pricetracker/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	articleUnknown = "unknown"

	// страница, которую не удалось разобрать, получает картинку-заглушку
	placeholderImage = "https://v3b.fal.media/files/b/tiger/VE2W3iEsEdBTX4cu_Tmko_output.png"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	fetchTimeout = 10 * time.Second
	maxNameLen   = 500
	maxBodySize  = 10 << 20 // 10 МБ
)

var ErrUnsupportedMarketplace = errors.New("unsupported marketplace, only Ozon and Wildberries are supported")

type Extractor struct {
	client *http.Client
	log    *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
		log:    log,
	}
}

// Extract определяет маркетплейс по хосту ссылки и собирает карточку
// товара со страницы. Для распознанного маркетплейса функция тотальна:
// сбой загрузки или разбора страницы деградирует до синтетической
// карточки (имя по артикулу, цена 0, картинка-заглушка), а не до ошибки.
func (e *Extractor) Extract(ctx context.Context, productURL string) (models.Product, error) {
	const op = "extractor.Extract"

	u, err := url.Parse(productURL)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: invalid url: %w", op, err)
	}

	mktRules, ok := rulesForHost(u.Host)
	if !ok {
		return models.Product{}, fmt.Errorf("%s: host %q: %w", op, u.Host, ErrUnsupportedMarketplace)
	}

	article := mktRules.article(productURL)

	// синтетическая карточка — результат по умолчанию
	product := models.Product{
		Name:          mktRules.fallbackName(article),
		ArticleNumber: article,
		Marketplace:   mktRules.marketplace,
		ProductURL:    productURL,
		CurrentPrice:  0,
		ImageURL:      placeholderImage,
	}

	html, err := e.fetchPage(ctx, productURL)
	if err != nil {
		e.log.Warn("page fetch failed, returning degraded record",
			slog.String("op", op),
			slog.String("url", productURL),
			sl.Err(err),
		)

		return product, nil
	}

	applyPage(mktRules, html, &product)

	return product, nil
}

// fetchPage загружает страницу товара с браузерным User-Agent.
func (e *Extractor) fetchPage(ctx context.Context, pageURL string) (string, error) {
	const op = "extractor.fetchPage"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}

	return string(body), nil
}

// applyPage дополняет карточку данными со страницы. Каждое поле
// извлекается независимо и при несовпадении паттерна остаётся
// со значением по умолчанию.
func applyPage(mktRules *rules, html string, product *models.Product) {
	if title, ok := pageTitle(html); ok {
		if name := mktRules.cleanTitle(title); name != "" {
			product.Name = truncate(name, maxNameLen)
		}
	}

	if p, ok := price(html); ok {
		product.CurrentPrice = p
	}

	if img, ok := mktRules.image(html); ok {
		product.ImageURL = img
	}
}

func pageTitle(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	return title, title != ""
}

// truncate обрезает строку до limit символов (рун, не байт).
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
