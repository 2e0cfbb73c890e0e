package converter

type ProductRedisModel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Price         string  `json:"price"`
	OriginalPrice string  `json:"original_price,omitempty"`
	Rating        float64 `json:"rating"`
	Stock         bool    `json:"stock"`
	ImageURL      string  `json:"image_url,omitempty"`
}

type CartItemRedisModel struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Brand     string `json:"brand,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Stock     bool   `json:"stock"`
}

// CartRedisModel — снимок корзины сессии. Порядок строк сохраняется.
type CartRedisModel struct {
	Items []CartItemRedisModel `json:"items"`
}
