package domain

import (
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/shopspring/decimal"
)

// CartItem — строка корзины. Цена и поля для отображения кэшируются в момент добавления.
type CartItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Brand     string
	ImageURL  string
	Stock     bool
}

// Cart — набор строк корзины с ключом ProductID. Порядок строк соответствует порядку добавления.
// Cart не потокобезопасен: синхронизацию обеспечивает владелец.
type Cart struct {
	items map[string]*CartItem
	order []string
}

func NewCart() *Cart {
	return &Cart{items: make(map[string]*CartItem)}
}

// NewCartFromItems восстанавливает корзину из сохранённых строк.
// Строки с количеством меньше 1 отбрасываются, повторы ProductID складываются.
func NewCartFromItems(items []CartItem) *Cart {
	c := NewCart()
	for _, item := range items {
		if item.Quantity < 1 || item.ProductID == "" {
			continue
		}
		if existing, ok := c.items[item.ProductID]; ok {
			existing.Quantity += item.Quantity
			continue
		}
		line := item
		c.items[item.ProductID] = &line
		c.order = append(c.order, item.ProductID)
	}
	return c
}

// AddItem увеличивает количество существующей строки или добавляет новую.
// Верхняя граница по остатку на складе не проверяется.
func (c *Cart) AddItem(p Product, quantity int) error {
	if p.ID == "" {
		return e.ErrProductIDRequired
	}
	if quantity < 1 {
		return e.ErrQuantityMustBePositive
	}

	if item, ok := c.items[p.ID]; ok {
		item.Quantity += quantity
		return nil
	}

	c.items[p.ID] = &CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Brand:     p.Brand,
		ImageURL:  p.ImageURL,
		Stock:     p.Stock,
	}
	c.order = append(c.order, p.ID)
	return nil
}

// UpdateQuantity устанавливает количество строки. Значение меньше 1 удаляет строку.
// Возвращает false, если строки нет в корзине.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	item, ok := c.items[productID]
	if !ok {
		return false
	}
	if quantity < 1 {
		c.RemoveItem(productID)
		return true
	}
	item.Quantity = quantity
	return true
}

// Subtract уменьшает количество строки на quantity и удаляет её, если ничего не осталось.
// Отсутствие строки не является ошибкой.
func (c *Cart) Subtract(productID string, quantity int) {
	item, ok := c.items[productID]
	if !ok || quantity < 1 {
		return
	}
	if item.Quantity <= quantity {
		c.RemoveItem(productID)
		return
	}
	item.Quantity -= quantity
}

// RemoveItem удаляет строку. Отсутствие строки не является ошибкой.
func (c *Cart) RemoveItem(productID string) {
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Total возвращает сумму price * quantity по всем строкам.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) Clear() {
	c.items = make(map[string]*CartItem)
	c.order = nil
}

// Items возвращает копию строк в порядке добавления.
func (c *Cart) Items() []CartItem {
	result := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, *c.items[id])
	}
	return result
}

func (c *Cart) Item(productID string) (CartItem, bool) {
	item, ok := c.items[productID]
	if !ok {
		return CartItem{}, false
	}
	return *item, true
}

func (c *Cart) Len() int {
	return len(c.order)
}

func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// ItemCount — суммарное количество единиц товара (бейдж корзины в шапке).
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}
