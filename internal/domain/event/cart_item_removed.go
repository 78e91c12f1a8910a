package event

import "time"

type CartItemRemoved struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

func (e *CartItemRemoved) EventType() string {
	return "CartItemRemoved"
}

func (e *CartItemRemoved) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
