package event

import "time"

type CartItemAdded struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`   // Quantity after the add
	UnitPrice string    `json:"unit_price"` // Captured price, decimal string
	Currency  string    `json:"currency"`
	AddedAt   time.Time `json:"added_at"`
}

func (e *CartItemAdded) EventType() string {
	return "CartItemAdded"
}

func (e *CartItemAdded) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
