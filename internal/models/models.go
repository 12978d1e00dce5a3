package models

type Marketplace string

const (
	MarketplaceOzon        Marketplace = "ozon"
	MarketplaceWildberries Marketplace = "wildberries"
)

type Product struct {
	ID            int64        `json:"id,omitempty"`
	Name          string       `json:"name"`
	ArticleNumber string       `json:"articleNumber"`
	Marketplace   Marketplace  `json:"marketplace"`
	ProductURL    string       `json:"productUrl"`
	CurrentPrice  int          `json:"currentPrice"`
	TargetPrice   *int         `json:"targetPrice"`
	ImageURL      string       `json:"imageUrl"`
	Notifications bool         `json:"notifications"`
	PriceHistory  []PricePoint `json:"priceHistory,omitempty"`
}

// PricePoint — одна точка истории цены, дата в формате "день.месяц".
type PricePoint struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
}
