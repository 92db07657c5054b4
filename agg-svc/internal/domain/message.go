package domain

import "time"

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"

	StatusNew = "new"
)

type EventItem struct {
	DishID   string `json:"dish_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderEvent is the message order-svc writes to the orders topic.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	Status    string      `json:"status"`
	Previous  string      `json:"previous_status,omitempty"`
	Total     int64       `json:"total,omitempty"`
	Items     []EventItem `json:"items,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ID identifies the event for deduplication. An order passes through each
// status at most once, so the target status is enough to tell changes apart.
func (e OrderEvent) ID() string {
	return e.OrderID + ":" + e.Type + ":" + e.Status
}
