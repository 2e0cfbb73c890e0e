package converter

import (
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Деньги хранятся строкой, чтобы decimal не терял точность при JSON-сериализации.

func ToProductRedisModel(p *domain.Product) ProductRedisModel {
	model := ProductRedisModel{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price.String(),
		Rating:   p.Rating,
		Stock:    p.Stock,
		ImageURL: p.ImageURL,
	}
	if !p.OriginalPrice.IsZero() {
		model.OriginalPrice = p.OriginalPrice.String()
	}
	return model
}

func ToDomainProduct(model *ProductRedisModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	original := decimal.Zero
	if model.OriginalPrice != "" {
		if original, err = decimal.NewFromString(model.OriginalPrice); err != nil {
			return nil, err
		}
	}

	return &domain.Product{
		ID:            model.ID,
		Name:          model.Name,
		Brand:         model.Brand,
		Category:      model.Category,
		Price:         price,
		OriginalPrice: original,
		Rating:        model.Rating,
		Stock:         model.Stock,
		ImageURL:      model.ImageURL,
	}, nil
}

func ToArrProductRedisModel(products []domain.Product) []ProductRedisModel {
	models := make([]ProductRedisModel, 0, len(products))
	for i := range products {
		models = append(models, ToProductRedisModel(&products[i]))
	}
	return models
}

func ToArrDomainProduct(models []ProductRedisModel) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		p, err := ToDomainProduct(&models[i])
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func ToCartRedisModel(cart *domain.Cart) CartRedisModel {
	items := cart.Items()
	model := CartRedisModel{Items: make([]CartItemRedisModel, 0, len(items))}
	for _, item := range items {
		model.Items = append(model.Items, CartItemRedisModel{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
			Brand:     item.Brand,
			ImageURL:  item.ImageURL,
			Stock:     item.Stock,
		})
	}
	return model
}

func ToDomainCart(model *CartRedisModel) (*domain.Cart, error) {
	items := make([]domain.CartItem, 0, len(model.Items))
	for _, m := range model.Items {
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.CartItem{
			ProductID: m.ProductID,
			Name:      m.Name,
			Price:     price,
			Quantity:  m.Quantity,
			Brand:     m.Brand,
			ImageURL:  m.ImageURL,
			Stock:     m.Stock,
		})
	}
	return domain.NewCartFromItems(items), nil
}
