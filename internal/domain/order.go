package domain

import "github.com/shopspring/decimal"

// PaymentMethod — тег способа оплаты. Онлайн-оплата объявлена, но обрабатывается на стороне Store API.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentOnline         PaymentMethod = "online"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCashOnDelivery || p == PaymentOnline
}

// OrderLine — позиция заказа.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// OrderRequest собирается один раз при оформлении заказа и отправляется во внешний API без повторов.
type OrderRequest struct {
	UserID        string
	Products      []OrderLine
	Address       string
	Pincode       int64
	Price         decimal.Decimal
	Phone         string
	PaymentMethod PaymentMethod
}

// NewOrderRequest собирает заказ из строк корзины и проверенной формы доставки.
func NewOrderRequest(userID string, items []CartItem, form ShippingForm, pincode int64, total decimal.Decimal) *OrderRequest {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return &OrderRequest{
		UserID:        userID,
		Products:      lines,
		Address:       form.ComposedAddress(),
		Pincode:       pincode,
		Price:         total,
		Phone:         form.Phone,
		PaymentMethod: form.PaymentMethodOrDefault(),
	}
}
