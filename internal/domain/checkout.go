package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/pkg/e"
)

// CheckoutState — состояние оформления заказа.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutValidating CheckoutState = "validating"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSucceeded  CheckoutState = "succeeded"
	CheckoutFailed     CheckoutState = "failed"
)

// Единственный регион доставки.
const (
	DeliveryCity  = "Patna"
	DeliveryState = "Bihar"
)

// Сообщения, которые видит пользователь.
const (
	MsgLoginRequired      = "Please log in to place an order"
	MsgFillShipping       = "Please fill all shipping details"
	MsgInvalidPincode     = "Please enter a valid pincode"
	MsgRegionRestricted   = "We currently deliver only in Patna, Bihar"
	MsgStateWarning       = "We currently deliver only in Bihar (Patna)."
	MsgCityWarning        = "We currently deliver only in Patna, Bihar."
	MsgUnknownPayment     = "Please choose a payment method"
	MsgCartEmpty          = "Your cart is empty"
	MsgOrderFailed        = "Failed to place order"
	MsgOrderPlaced        = "Order placed successfully!"
	MsgCheckoutInProgress = "Your order is already being placed"
)

// ShippingForm — форма доставки со страницы оформления заказа.
// Latitude/Longitude заполняются, если пользователь поделился геопозицией.
type ShippingForm struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	Pincode       string
	PaymentMethod PaymentMethod
	Latitude      *float64
	Longitude     *float64
}

// Validate проверяет форму и возвращает числовой pincode.
// Ошибки имеют тип *e.ValidationError с сообщением для пользователя.
func (f ShippingForm) Validate() (int64, error) {
	if blank(f.Name) || blank(f.Address) || blank(f.City) || blank(f.Pincode) {
		return 0, e.NewValidationError("", MsgFillShipping, e.ErrMissingShippingFields)
	}

	if f.State != DeliveryState || f.City != DeliveryCity {
		return 0, e.NewValidationError("", MsgRegionRestricted, e.ErrUnsupportedRegion)
	}

	pincode, err := strconv.ParseInt(strings.TrimSpace(f.Pincode), 10, 64)
	if err != nil || pincode <= 0 {
		return 0, e.NewValidationError("pincode", MsgInvalidPincode, e.ErrInvalidPincode)
	}

	if !f.PaymentMethodOrDefault().Valid() {
		return 0, e.NewValidationError("paymentMethod", MsgUnknownPayment, e.ErrUnknownPaymentMethod)
	}

	return pincode, nil
}

// ComposedAddress склеивает адрес в формате "улица, город, штат".
func (f ShippingForm) ComposedAddress() string {
	return fmt.Sprintf("%s, %s, %s", strings.TrimSpace(f.Address), f.City, f.State)
}

func (f ShippingForm) PaymentMethodOrDefault() PaymentMethod {
	if f.PaymentMethod == "" {
		return PaymentCashOnDelivery
	}
	return f.PaymentMethod
}

// ReportedLocation возвращает координаты, которыми поделился пользователь.
func (f ShippingForm) ReportedLocation() (Location, bool) {
	if f.Latitude == nil || f.Longitude == nil {
		return Location{}, false
	}
	return Location{Lat: *f.Latitude, Lng: *f.Longitude}, true
}

// RegionWarning — подсказка под селекторами штата и города. Пустая строка, если регион поддерживается.
func RegionWarning(city, state string) string {
	if state != "" && state != DeliveryState {
		return MsgStateWarning
	}
	if city != "" && city != DeliveryCity {
		return MsgCityWarning
	}
	return ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
