package storeapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type productDTO struct {
	ID            json.RawMessage `json:"id"`
	MongoID       string          `json:"_id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Category      string          `json:"category"`
	Price         json.Number     `json:"price"`
	OriginalPrice *json.Number    `json:"originalPrice"`
	Rating        *float64        `json:"rating"`
	Stock         json.RawMessage `json:"stock"`
	Image         *string         `json:"image"`
}

type orderLineDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderRequestDTO struct {
	UserID        string         `json:"userId"`
	Products      []orderLineDTO `json:"products"`
	Address       string         `json:"address"`
	Pincode       int64          `json:"pincode"`
	Price         float64        `json:"price"`
	Phone         string         `json:"phone"`
	PaymentMethod string         `json:"paymentMethod"`
}

type orderResponseDTO struct {
	Message string `json:"message"`
}

type errorResponseDTO struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// MAPPERS

func toDomainProduct(dto *productDTO) (domain.Product, error) {
	price, err := decimal.NewFromString(dto.Price.String())
	if err != nil {
		return domain.Product{}, err
	}

	original := decimal.Zero
	if dto.OriginalPrice != nil {
		if original, err = decimal.NewFromString(dto.OriginalPrice.String()); err != nil {
			return domain.Product{}, err
		}
	}

	p := domain.Product{
		ID:            productID(dto),
		Name:          dto.Name,
		Brand:         dto.Brand,
		Category:      dto.Category,
		Price:         price,
		OriginalPrice: original,
		Stock:         inStock(dto.Stock),
	}
	if dto.Rating != nil {
		p.Rating = *dto.Rating
	}
	if dto.Image != nil {
		p.ImageURL = *dto.Image
	}

	return p, nil
}

// productID берёт id (строка или число), иначе _id.
func productID(dto *productDTO) string {
	raw := bytes.TrimSpace(dto.ID)
	if len(raw) == 0 || string(raw) == "null" {
		return dto.MongoID
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// inStock: true, ненулевое количество на складе.
func inStock(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	switch v {
	case "", "null", "false", "0":
		return false
	case "true":
		return true
	default:
		return !strings.HasPrefix(v, "-")
	}
}

func toOrderRequestDTO(req *domain.OrderRequest) orderRequestDTO {
	lines := make([]orderLineDTO, 0, len(req.Products))
	for _, line := range req.Products {
		lines = append(lines, orderLineDTO{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	return orderRequestDTO{
		UserID:        req.UserID,
		Products:      lines,
		Address:       req.Address,
		Pincode:       req.Pincode,
		Price:         req.Price.Round(2).InexactFloat64(),
		Phone:         req.Phone,
		PaymentMethod: string(req.PaymentMethod),
	}
}
