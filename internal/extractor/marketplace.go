package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"pricetracker/internal/models"
)

// Цена встречается в разметке либо как JSON-поле, либо как число с ₽.
var (
	priceJSONRe  = regexp.MustCompile(`"price"[:\s]*(\d+)`)
	priceRubleRe = regexp.MustCompile(`(\d+)\s*₽`)
)

// rules описывает маркетплейс: как достать артикул из URL, какие
// рекламные суффиксы убрать из заголовка и где искать картинку.
type rules struct {
	marketplace   models.Marketplace
	displayName   string
	articleRe     *regexp.Regexp
	titleSuffixes []string
	imageRes      []*regexp.Regexp
}

var ozonRules = &rules{
	marketplace: models.MarketplaceOzon,
	displayName: "Ozon",
	articleRe:   regexp.MustCompile(`/product/[^/]+-(\d+)`),
	titleSuffixes: []string{
		" — купить на OZON",
		" | OZON",
	},
	imageRes: []*regexp.Regexp{
		regexp.MustCompile(`"(https://cdn[^"]*ozon[^"]*\.(?:jpg|jpeg|png|webp))"`),
		regexp.MustCompile(`(https://[^"]*cloudfront[^"]*\.(?:jpg|jpeg|png|webp))`),
	},
}

var wildberriesRules = &rules{
	marketplace: models.MarketplaceWildberries,
	displayName: "Wildberries",
	articleRe:   regexp.MustCompile(`/catalog/(\d+)/`),
	titleSuffixes: []string{
		" купить в интернет магазине Wildberries",
		" / Wildberries",
	},
	imageRes: []*regexp.Regexp{
		regexp.MustCompile(`"(https://[^"]*basket[^"]*\.wbbasket\.ru[^"]*\.(?:jpg|jpeg|png|webp))"`),
		regexp.MustCompile(`(https://[^"]*\.wbstatic\.net[^"]*\.(?:jpg|jpeg|png|webp))`),
	},
}

// rulesForHost выбирает маркетплейс по хосту ссылки.
func rulesForHost(host string) (*rules, bool) {
	host = strings.ToLower(host)

	switch {
	case strings.Contains(host, "ozon.ru"):
		return ozonRules, true
	case strings.Contains(host, "wildberries.ru"), strings.Contains(host, "wb.ru"):
		return wildberriesRules, true
	}

	return nil, false
}

// article извлекает артикул из URL товара. Если паттерн не совпал,
// возвращается сентинел "unknown" — это не ошибка.
func (r *rules) article(productURL string) string {
	m := r.articleRe.FindStringSubmatch(productURL)
	if m == nil {
		return articleUnknown
	}

	return m[1]
}

// fallbackName синтезирует имя товара, когда страница недоступна
// или заголовок не найден.
func (r *rules) fallbackName(article string) string {
	return "Товар " + r.displayName + " " + article
}

// cleanTitle убирает рекламные суффиксы маркетплейса из заголовка страницы.
func (r *rules) cleanTitle(title string) string {
	for _, suffix := range r.titleSuffixes {
		title = strings.ReplaceAll(title, suffix, "")
	}

	return strings.TrimSpace(title)
}

// image ищет URL картинки товара на CDN маркетплейса.
func (r *rules) image(html string) (string, bool) {
	for _, re := range r.imageRes {
		if m := re.FindStringSubmatch(html); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// price ищет цену: сначала JSON-поле, затем число с символом рубля.
func price(html string) (int, bool) {
	for _, re := range []*regexp.Regexp{priceJSONRe, priceRubleRe} {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}

		p, err := strconv.Atoi(m[1])
		if err != nil {
			// слишком длинная последовательность цифр — не цена
			continue
		}

		return p, true
	}

	return 0, false
}
